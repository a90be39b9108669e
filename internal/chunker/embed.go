package chunker

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/labcold/catalog/internal/clients/embedder"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/platform/pinecone"
)

const (
	embedBatchSize      = 16
	embedMaxConcurrency = 4

	// ChunkNamespace is the single external-index namespace every
	// chunk's vector is upserted under, and the one internal/retrieval
	// queries against -- dense search runs across every ingested
	// document, so chunks cannot be namespaced per-document.
	ChunkNamespace = "product-chunks"
)

// Embedder batches chunk text through an embedder.Client with bounded
// concurrency, grounded on the teacher's EmbedChunks job step (batched
// calls to the provider, embeddings written back per-chunk) generalized
// from its single-batch-at-a-time loop to concurrent batches via
// errgroup, since spec.md §4.9 calls for bounded-concurrency batching
// rather than strictly sequential.
type Embedder struct {
	client embedder.Client
	store  pinecone.VectorStore // optional external ANN index; nil means Postgres-only
	log    *logger.Logger
}

func New(client embedder.Client, baseLog *logger.Logger) *Embedder {
	return &Embedder{client: client, log: baseLog.With("component", "chunk_embedder")}
}

// WithVectorStore attaches an optional external ANN index that
// PersistVectors pushes chunk embeddings into alongside the
// Postgres-stored copy.
func (e *Embedder) WithVectorStore(store pinecone.VectorStore) *Embedder {
	cp := *e
	cp.store = store
	return &cp
}

// PersistVectors best-effort upserts already-computed chunk vectors into
// ChunkNamespace of the external ANN index, so internal/retrieval's
// dense leg can query it instead of scanning Postgres. Each vector
// carries chunk_type and product_ids metadata so a query can be scoped
// to structured chunk kinds (spec_block, table, performance_data,
// dimensional) or to a specific product's evidence, per spec.md §4.10's
// retrieval-scoping behavior. A nil store, a nil vector (degraded
// embedding), or a provider error are all non-fatal: spec.md §4.9's
// embedding=null degradation extends to the external index as well as
// Postgres.
func (e *Embedder) PersistVectors(ctx context.Context, chunks []*ingestion.Chunk, vectors [][]float32) {
	if e.store == nil {
		return
	}
	vecs := make([]pinecone.Vector, 0, len(chunks))
	for i, c := range chunks {
		if i >= len(vectors) || vectors[i] == nil {
			continue
		}
		vecs = append(vecs, pinecone.Vector{
			ID:     c.ID.String(),
			Values: vectors[i],
			Metadata: map[string]any{
				"chunk_type":  string(c.ChunkType),
				"product_ids": decodeProductIDs(c.ProductIDs),
			},
		})
	}
	if len(vecs) == 0 {
		return
	}
	if err := e.store.Upsert(ctx, ChunkNamespace, vecs); err != nil {
		e.log.Warn("external vector store upsert failed, chunks stay Postgres-only", "err", err.Error())
	}
}

// decodeProductIDs best-effort unmarshals a chunk's JSONB product_ids
// column into a string slice; a malformed or empty column degrades to
// no product scoping rather than failing the upsert.
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

// EmbedAll embeds every text, returning a same-length slice of vectors.
// A text whose batch permanently fails (the embedder client's own retry
// loop already exhausted) gets a nil vector rather than failing the
// whole call -- spec.md §4.9's "embedding=null degradation": a document
// still ingests and becomes keyword-searchable even if dense retrieval
// can't cover every chunk.
func (e *Embedder) EmbedAll(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out
	}

	type batch struct {
		start, end int
	}
	var batches []batch
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, batch{start: start, end: end})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedMaxConcurrency)

	for _, b := range batches {
		b := b
		g.Go(func() error {
			vecs, err := e.client.Embed(gctx, texts[b.start:b.end])
			if err != nil {
				e.log.Warn("embedding batch degraded to null", "start", b.start, "end", b.end, "err", err.Error())
				return nil
			}
			for i, v := range vecs {
				out[b.start+i] = v
			}
			return nil
		})
	}
	// Every goroutine above always returns nil; degrade-on-error is
	// handled inline so a single provider outage never cancels sibling
	// batches via errgroup's first-error propagation.
	_ = g.Wait()

	return out
}
