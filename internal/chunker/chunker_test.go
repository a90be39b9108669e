package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labcold/catalog/internal/domain/ingestion"
)

func TestSplitEmptyTextReturnsNoChunks(t *testing.T) {
	chunks := Split("   ", ingestion.DocTypeProductDataSheet)
	assert.Empty(t, chunks)
}

func TestSplitBySectionHeaders(t *testing.T) {
	text := "General Description\nA fridge.\n\nDimensions\n24 x 24 x 60\n\nCertifications\nUL, NSF\n"
	chunks := Split(text, ingestion.DocTypeProductDataSheet)
	require.Len(t, chunks, 3)
	assert.Equal(t, "General Description", chunks[0].SectionTitle)
	assert.Equal(t, ingestion.ChunkTypeDescription, chunks[0].ChunkType)
	assert.Equal(t, ingestion.ChunkTypeDimensional, chunks[1].ChunkType)
	assert.Equal(t, ingestion.ChunkTypeSpecBlock, chunks[2].ChunkType)
}

func TestSplitNoSectionsFallsBackToSize(t *testing.T) {
	text := strings.Repeat("word ", 2000)
	chunks := SplitWithBudget(text, ingestion.DocTypeOther, 50, 10)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, "", c.SectionTitle)
	}
}

func TestSplitOversizedSectionIsSubChunked(t *testing.T) {
	body := strings.Repeat("spec row data ", 500)
	text := "General Description\n" + body + "\n\nWarranty\nStandard one year warranty.\n"
	chunks := SplitWithBudget(text, ingestion.DocTypeProductDataSheet, 50, 10)
	require.Greater(t, len(chunks), 2)
	for _, c := range chunks[:len(chunks)-1] {
		assert.Equal(t, "General Description", c.SectionTitle)
	}
	assert.Equal(t, "Warranty", chunks[len(chunks)-1].SectionTitle)
}

func TestClassifyChunkPerformanceMarkers(t *testing.T) {
	ct := classifyChunk("", "Uniformity (Cabinet Air) +/- 1C, Stability within spec", ingestion.DocTypeOther)
	assert.Equal(t, ingestion.ChunkTypePerformanceData, ct)
}

func TestClassifyChunkDimensionalByContent(t *testing.T) {
	ct := classifyChunk("", `24" x 24" x 60"`, ingestion.DocTypeOther)
	assert.Equal(t, ingestion.ChunkTypeDimensional, ct)
}

func TestClassifyChunkSpecBlockByContent(t *testing.T) {
	ct := classifyChunk("", "26 Cu. Ft, Manual Defrost, 8.5 Amps, R290", ingestion.DocTypeOther)
	assert.Equal(t, ingestion.ChunkTypeSpecBlock, ct)
}

func TestClassifyChunkDefaultText(t *testing.T) {
	ct := classifyChunk("", "just some general marketing copy", ingestion.DocTypeOther)
	assert.Equal(t, ingestion.ChunkTypeText, ct)
}
