package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseElectrical(t *testing.T) {
	e := ParseElectrical("115V, 60 Hz, 3 Amps, 1/5 HP")
	require.NotNil(t, e.VoltageV)
	assert.Equal(t, 115, *e.VoltageV)
	require.NotNil(t, e.FrequencyHz)
	assert.Equal(t, 60, *e.FrequencyHz)
	require.NotNil(t, e.Amperage)
	assert.Equal(t, 3.0, *e.Amperage)
	assert.Equal(t, "1/5", e.Horsepower)
}

func TestParseElectricalVoltageRange(t *testing.T) {
	e := ParseElectrical("110-120V AC")
	require.NotNil(t, e.VoltageMinV)
	require.NotNil(t, e.VoltageMaxV)
	require.NotNil(t, e.VoltageV)
	assert.Equal(t, 110, *e.VoltageMinV)
	assert.Equal(t, 120, *e.VoltageMaxV)
	assert.Equal(t, 115, *e.VoltageV)
}
