package retrieval

// Config holds the tunables spec.md §4.10 names, defaulted from
// rag-retrieval.py's RAGConfig/DEFAULT_RAG_CONFIG.
type Config struct {
	VectorTopK        int
	KeywordTopK       int
	MinRelevanceScore float64

	VectorWeight  float64
	KeywordWeight float64

	MaxContextTokens   int
	MaxChunksInContext int
	ChunkHeaderTokens  int
}

// DefaultConfig mirrors spec.md §4.10's stated defaults (top-K 40 for
// both legs, k=60 RRF, 3,000-token context budget) rather than the
// Python source's own defaults (30/20/6000), since SPEC_FULL.md's
// literal numbers take precedence over the source's.
func DefaultConfig() Config {
	return Config{
		VectorTopK:        40,
		KeywordTopK:       40,
		MinRelevanceScore: 0.3,
		VectorWeight:      0.6,
		KeywordWeight:     0.3,
		MaxContextTokens:  3000,
		MaxChunksInContext: 10,
		ChunkHeaderTokens:  30,
	}
}
