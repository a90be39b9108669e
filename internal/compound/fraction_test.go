package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFraction(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantOK  bool
	}{
		{`23 ¾`, 23.75, true},
		{`48 5⁄8`, 48.625, true},
		{`26 7/8`, 26.875, true},
		{`7/8`, 0.875, true},
		{`¾`, 0.75, true},
		{`23`, 23, true},
		{`23"`, 23, true},
		{"", 0, false},
		{"not a number", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseFraction(c.in)
		assert.Equalf(t, c.wantOK, ok, "input=%q", c.in)
		if c.wantOK {
			assert.InDeltaf(t, c.want, got, 0.001, "input=%q", c.in)
		}
	}
}
