package retrieval

import (
	"sort"

	"github.com/labcold/catalog/internal/domain/ingestion"
)

// Source identifies which leg(s) of hybrid search surfaced a chunk.
type Source string

const (
	SourceVector  Source = "vector"
	SourceKeyword Source = "keyword"
	SourceBoth    Source = "both"
)

// ScoredChunk is a chunk with its fused relevance score.
type ScoredChunk struct {
	Chunk       *ingestion.Chunk
	Score       float64
	Source      Source
	VectorRank  int // -1 when not present in the vector leg
	KeywordRank int // -1 when not present in the keyword leg
}

// candidate is one leg's (chunk, raw score) hit, rank-ordered.
type candidate struct {
	chunk *ingestion.Chunk
	score float64
}

const rrfK = 60

// FuseRRF implements reciprocal_rank_fusion (spec.md §4.10 step 5):
// score(d) = Σ_rankings weight/(k + rank_d + 1), summed across the
// vector and keyword legs, k=60.
func FuseRRF(vectorResults, keywordResults []candidate, vectorWeight, keywordWeight float64) []ScoredChunk {
	byID := map[string]*ScoredChunk{}
	var order []string

	for rank, c := range vectorResults {
		id := c.chunk.ID.String()
		sc, ok := byID[id]
		if !ok {
			sc = &ScoredChunk{Chunk: c.chunk, Source: SourceVector, VectorRank: rank, KeywordRank: -1}
			byID[id] = sc
			order = append(order, id)
		}
		sc.Score += vectorWeight / float64(rrfK+rank+1)
		sc.VectorRank = rank
	}

	for rank, c := range keywordResults {
		id := c.chunk.ID.String()
		sc, ok := byID[id]
		if !ok {
			sc = &ScoredChunk{Chunk: c.chunk, Source: SourceKeyword, VectorRank: -1, KeywordRank: rank}
			byID[id] = sc
			order = append(order, id)
		} else {
			sc.Source = SourceBoth
		}
		sc.Score += keywordWeight / float64(rrfK+rank+1)
		sc.KeywordRank = rank
	}

	out := make([]ScoredChunk, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// perfSpecs/dimSpecs are the spec-mention sets heuristic_rerank checks
// against, transcribed from rag-retrieval.py.
var perfSpecs = map[string]bool{"uniformity_c": true, "stability_c": true, "energy_kwh_day": true, "noise_dba": true}
var dimSpecs = map[string]bool{"ext_width_in": true, "ext_depth_in": true, "ext_height_in": true}

// HeuristicRerank applies the query-aware boosts from
// rag-retrieval.py's heuristic_rerank on top of the RRF base score,
// then re-sorts.
func HeuristicRerank(chunks []ScoredChunk, pq ParsedQuery, docTypeByDocID map[string]ingestion.DocType) []ScoredChunk {
	anyPerf := containsAnySpec(pq.SpecMentions, perfSpecs)
	anyDim := containsAnySpec(pq.SpecMentions, dimSpecs)

	for i := range chunks {
		sc := &chunks[i]
		var boost float64
		content := sc.Chunk.Content

		for _, model := range pq.ModelNumbers {
			if containsFold(content, model) {
				boost += 0.15
			}
		}

		if pq.Intent == IntentSpecLookup && sc.Chunk.ChunkType == ingestion.ChunkTypeSpecBlock {
			boost += 0.10
		}
		if anyPerf && sc.Chunk.ChunkType == ingestion.ChunkTypePerformanceData {
			boost += 0.12
		}
		if anyDim && sc.Chunk.ChunkType == ingestion.ChunkTypeDimensional {
			boost += 0.10
		}

		docType := docTypeByDocID[sc.Chunk.DocumentID.String()]
		switch docType {
		case ingestion.DocTypeProductDataSheet:
			boost += 0.05
		case ingestion.DocTypePerformanceDataSheet:
			if anyPerf {
				boost += 0.08
			}
		}

		if sc.Source == SourceBoth {
			boost += 0.08
		}
		if sc.Chunk.TokenCount > 0 && sc.Chunk.TokenCount < 30 {
			boost -= 0.10
		}

		sc.Score += boost
	}

	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Score > chunks[j].Score })
	return chunks
}

func containsAnySpec(mentions []string, set map[string]bool) bool {
	for _, m := range mentions {
		if set[m] {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return len(needle) > 0 && indexFold(haystack, needle) >= 0
}
