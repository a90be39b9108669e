package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseShelfConfig(t *testing.T) {
	s := ParseShelfConfig(`Four adjustable shelves (adjustable in ½" increments)`)
	assert.Equal(t, 4, s.ShelfCount)
	assert.Equal(t, "adjustable", s.ShelfType)
	assert.NotEmpty(t, s.ShelfAdjustmentIncrement)
}

func TestParseShelfConfigMixed(t *testing.T) {
	s := ParseShelfConfig("six shelves, adjustable and fixed, guard rail")
	assert.Equal(t, 6, s.ShelfCount)
	assert.Equal(t, "mixed", s.ShelfType)
	assert.Contains(t, s.ShelfFeatures, "guard_rail")
}
