package retrieval

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/labcold/catalog/internal/pkg/dbctx"
)

// Filters is the set of structured predicates ParseQuery's entities
// were narrowed to (spec.md §4.10 step 2). A zero-value field means
// that predicate was not derived from the query.
type Filters struct {
	ModelNumber    string   `json:"model_number,omitempty"`
	ProductID      string   `json:"product_id,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
}

// ChunkCitation is one chunk's contribution to a context pack, in the
// literal shape spec.md §4.10 step 6 names.
type ChunkCitation struct {
	Content     string   `json:"content"`
	SourceDocID string   `json:"source_doc_id"`
	ProductIDs  []string `json:"product_ids"`
	PageNumber  *int     `json:"page_number,omitempty"`
	Score       float64  `json:"score"`
}

// ContextPack is the Retrieval Engine's output object.
type ContextPack struct {
	Intent       Intent          `json:"intent"`
	Filters      Filters         `json:"filters"`
	Chunks       []ChunkCitation `json:"chunks"`
	UsedProducts []string        `json:"used_products"`
}

// buildFilters derives step-2 predicates from the parsed query,
// resolving the first mentioned model number to a product id when the
// store has one on record. A miss is not an error: the filter is just
// left unset and the pipeline falls back to unfiltered ranking.
func (e *Engine) buildFilters(ctx context.Context, pq ParsedQuery) Filters {
	f := Filters{Certifications: pq.CertMentions}
	if len(pq.ModelNumbers) == 0 {
		return f
	}
	f.ModelNumber = pq.ModelNumbers[0]
	product, err := e.products.GetLatestByModelNumber(dbctx.Context{Ctx: ctx}, f.ModelNumber)
	if err != nil || product == nil {
		return f
	}
	f.ProductID = product.ID.String()
	return f
}

// buildContext implements step 6: iterate fused/reranked chunks in
// order, including each until the token budget is spent, then force
// in one chunk per distinct referenced product that the budget cutoff
// left out entirely.
func (e *Engine) buildContext(ctx context.Context, ranked []ScoredChunk, pq ParsedQuery) (*ContextPack, error) {
	filters := e.buildFilters(ctx, pq)

	candidates := ranked
	if filters.ProductID != "" {
		if narrowed := filterByProduct(ranked, filters.ProductID); len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	pack := &ContextPack{Intent: pq.Intent, Filters: filters}
	budget := e.cfg.MaxContextTokens
	maxChunks := e.cfg.MaxChunksInContext
	usedTokens := 0
	referenced := map[string]bool{}
	included := map[string]bool{}

	for _, sc := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, pid := range decodeProductIDs(sc.Chunk.ProductIDs) {
			referenced[pid] = true
		}
		if len(pack.Chunks) >= maxChunks || usedTokens >= budget {
			continue
		}
		cost := sc.Chunk.TokenCount + e.cfg.ChunkHeaderTokens
		if usedTokens+cost > budget && len(pack.Chunks) > 0 {
			continue
		}
		pack.Chunks = append(pack.Chunks, citationFrom(sc))
		usedTokens += cost
		included[sc.Chunk.ID.String()] = true
	}

	// Force in at least one chunk per distinct referenced product that
	// the budget cutoff dropped entirely.
	haveProduct := map[string]bool{}
	for _, c := range pack.Chunks {
		for _, pid := range c.ProductIDs {
			haveProduct[pid] = true
		}
	}
	for _, sc := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if included[sc.Chunk.ID.String()] {
			continue
		}
		pids := decodeProductIDs(sc.Chunk.ProductIDs)
		missing := false
		for _, pid := range pids {
			if referenced[pid] && !haveProduct[pid] {
				missing = true
				break
			}
		}
		if !missing {
			continue
		}
		pack.Chunks = append(pack.Chunks, citationFrom(sc))
		included[sc.Chunk.ID.String()] = true
		for _, pid := range pids {
			haveProduct[pid] = true
		}
	}

	usedSet := map[string]bool{}
	for _, c := range pack.Chunks {
		for _, pid := range c.ProductIDs {
			usedSet[pid] = true
		}
	}
	for pid := range usedSet {
		pack.UsedProducts = append(pack.UsedProducts, pid)
	}
	sort.Strings(pack.UsedProducts)

	return pack, nil
}

func citationFrom(sc ScoredChunk) ChunkCitation {
	return ChunkCitation{
		Content:     sc.Chunk.Content,
		SourceDocID: sc.Chunk.DocumentID.String(),
		ProductIDs:  decodeProductIDs(sc.Chunk.ProductIDs),
		PageNumber:  sc.Chunk.PageNumber,
		Score:       sc.Score,
	}
}

func filterByProduct(chunks []ScoredChunk, productID string) []ScoredChunk {
	out := make([]ScoredChunk, 0, len(chunks))
	for _, sc := range chunks {
		for _, pid := range decodeProductIDs(sc.Chunk.ProductIDs) {
			if pid == productID {
				out = append(out, sc)
				break
			}
		}
	}
	return out
}

func decodeProductIDs(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
