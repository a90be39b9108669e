package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemperatureRangeCelsius(t *testing.T) {
	r := ParseTemperatureRange("1°C to 10°C")
	require.NotNil(t, r.MinC)
	require.NotNil(t, r.MaxC)
	assert.Equal(t, 1.0, *r.MinC)
	assert.Equal(t, 10.0, *r.MaxC)
}

func TestParseTemperatureRangePrefersCelsiusWhenBothPresent(t *testing.T) {
	r := ParseTemperatureRange("36°F – 46°F (2°C – 8°C)")
	require.NotNil(t, r.MinC)
	require.NotNil(t, r.MaxC)
	assert.Equal(t, 2.0, *r.MinC)
	assert.Equal(t, 8.0, *r.MaxC)
}

func TestParseTemperatureRangeFahrenheitConverts(t *testing.T) {
	r := ParseTemperatureRange("35°F to 46°F")
	require.NotNil(t, r.MinC)
	require.NotNil(t, r.MaxC)
	assert.InDelta(t, 1.7, *r.MinC, 0.05)
	assert.InDelta(t, 7.8, *r.MaxC, 0.05)
}

func TestParseTemperatureRangeNoNumbersYieldsEmptyRange(t *testing.T) {
	r := ParseTemperatureRange("no numbers here")
	assert.Nil(t, r.MinC)
	assert.Nil(t, r.MaxC)
}

func TestParseTemperatureRangeSingleMinBoundLeavesMaxNil(t *testing.T) {
	r := ParseTemperatureRange("Minimum 1°C")
	require.NotNil(t, r.MinC)
	assert.Equal(t, 1.0, *r.MinC)
	assert.Nil(t, r.MaxC)
}

func TestParseTemperatureRangeSingleMaxBoundLeavesMinNil(t *testing.T) {
	r := ParseTemperatureRange("Maximum 10°C")
	require.NotNil(t, r.MaxC)
	assert.Equal(t, 10.0, *r.MaxC)
	assert.Nil(t, r.MinC)
}

func TestParseTemperatureRangeUnlabeledSingleBoundDefaultsToMin(t *testing.T) {
	r := ParseTemperatureRange("Maintains -20°C")
	require.NotNil(t, r.MinC)
	assert.Equal(t, -20.0, *r.MinC)
	assert.Nil(t, r.MaxC)
}
