package fieldmapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFieldNameExactMatch(t *testing.T) {
	canon, ok := MapFieldName("Rated Amperage")
	require.True(t, ok)
	assert.Equal(t, "amperage", canon)
}

func TestMapFieldNameStripsSuperscriptAndColon(t *testing.T) {
	canon, ok := MapFieldName("Uniformity¹ (Cabinet Air):")
	require.True(t, ok)
	assert.Equal(t, "uniformity_c", canon)
}

func TestMapFieldNameFuzzySubstringMatch(t *testing.T) {
	canon, ok := MapFieldName("Storage Capacity (cu. ft) Nominal")
	require.True(t, ok)
	assert.Equal(t, "storage_capacity_cuft", canon)
}

func TestMapFieldNameUnknownReturnsFalse(t *testing.T) {
	_, ok := MapFieldName("some totally novel label")
	assert.False(t, ok)
}

func TestExtractKVPairsSameLineMultiSpace(t *testing.T) {
	text := "Rated Amperage   8.5 A\nCompressor   Hermetic"
	pairs := ExtractKVPairs(text)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Rated Amperage", pairs[0].Key)
	assert.Equal(t, "8.5 A", pairs[0].Value)
}

func TestExtractKVPairsSameLineTab(t *testing.T) {
	text := "Compressor\tHermetic"
	pairs := ExtractKVPairs(text)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Compressor", pairs[0].Key)
	assert.Equal(t, "Hermetic", pairs[0].Value)
}

func TestExtractKVPairsKeyOnOwnLine(t *testing.T) {
	text := "Storage Capacity\n26 cu ft"
	pairs := ExtractKVPairs(text)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Storage Capacity", pairs[0].Key)
	assert.Equal(t, "26 cu ft", pairs[0].Value)
}

func TestExtractKVPairsSkipsBlankLines(t *testing.T) {
	text := "\n\nCompressor\tHermetic\n\n"
	pairs := ExtractKVPairs(text)
	require.Len(t, pairs, 1)
}

func TestExtractKVPairsDoesNotSwallowConsecutiveLabels(t *testing.T) {
	text := "Door\nShelves"
	pairs := ExtractKVPairs(text)
	assert.Len(t, pairs, 0)
}
