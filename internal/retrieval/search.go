package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/chunker"
	"github.com/labcold/catalog/internal/clients/embedder"
	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/platform/pinecone"
	"github.com/labcold/catalog/internal/registry"
)

// ErrRetrievalUnavailable is returned when the underlying store cannot
// serve a query at all (spec.md §4.10's failure model distinguishes
// this from the embedder-unavailable case, which degrades silently to
// lexical-only instead of failing).
var ErrRetrievalUnavailable = errors.New("retrieval: store unavailable")

// Engine is the Retrieval Engine (spec.md §4.10): parse -> filter ->
// vector search -> lexical search -> RRF fuse -> heuristic rerank ->
// token-budgeted context pack.
type Engine struct {
	chunks    ingestionrepo.ChunkRepo
	documents ingestionrepo.DocumentRepo
	products  catalogrepo.ProductRepo
	embed     embedder.Client      // nil is valid: vector leg is skipped
	store     pinecone.VectorStore // optional external ANN index; nil means Postgres cosine scan
	reg       *registry.Registry
	log       *logger.Logger
	cfg       Config
}

func New(chunks ingestionrepo.ChunkRepo, documents ingestionrepo.DocumentRepo, products catalogrepo.ProductRepo, embed embedder.Client, reg *registry.Registry, baseLog *logger.Logger) *Engine {
	return &Engine{
		chunks:    chunks,
		documents: documents,
		products:  products,
		embed:     embed,
		reg:       reg,
		log:       baseLog.With("component", "retrieval_engine"),
		cfg:       DefaultConfig(),
	}
}

// WithVectorStore returns a copy of the engine whose dense leg queries
// an external ANN index instead of scanning every chunk's
// Postgres-stored embedding -- the fast path when an index is
// configured; a nil store keeps the Postgres cosine scan default.
func (e *Engine) WithVectorStore(store pinecone.VectorStore) *Engine {
	cp := *e
	cp.store = store
	return &cp
}

// WithConfig returns a copy of the engine using cfg instead of the
// default tunables.
func (e *Engine) WithConfig(cfg Config) *Engine {
	cp := *e
	cp.cfg = cfg
	return &cp
}

// Search runs the full pipeline for one query and returns the
// assembled context pack. ctx is checked between pipeline stages and
// between per-chunk inclusion decisions, per spec.md §5's cooperative
// cancellation requirement.
func (e *Engine) Search(ctx context.Context, query string) (*ContextPack, error) {
	pq := ParseQuery(query, e.reg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keywordChunks, keywordScores, err := e.chunks.LexicalSearch(dbctx.Context{Ctx: ctx}, query, e.cfg.KeywordTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}
	keywordCandidates := toCandidates(keywordChunks, keywordScores)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var vectorCandidates []candidate
	if e.embed != nil {
		vectorCandidates, err = e.vectorSearch(ctx, query, pq)
		if err != nil {
			// Embedder unavailable: degrade to lexical-only per
			// spec.md §4.10's failure model, don't fail the request.
			e.log.Warn("vector search unavailable, degrading to lexical-only", "err", err.Error())
			vectorCandidates = nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fused := FuseRRF(vectorCandidates, keywordCandidates, e.cfg.VectorWeight, e.cfg.KeywordWeight)
	docTypes := e.docTypesFor(ctx, fused)
	ranked := HeuristicRerank(fused, pq, docTypes)

	return e.buildContext(ctx, ranked, pq)
}

func (e *Engine) vectorSearch(ctx context.Context, query string, pq ParsedQuery) ([]candidate, error) {
	vecs, err := e.embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("retrieval: embedder returned no vector")
	}
	queryVec := vecs[0]

	if e.store != nil {
		return e.externalVectorSearch(ctx, queryVec, pq)
	}

	all, err := e.chunks.AllWithEmbeddings(dbctx.Context{Ctx: ctx}, 5000)
	if err != nil {
		return nil, err
	}

	type scored struct {
		chunk *ingestion.Chunk
		sim   float64
	}
	scoredChunks := make([]scored, 0, len(all))
	for _, c := range all {
		vec, err := decodeEmbedding(c.Embedding)
		if err != nil {
			continue
		}
		scoredChunks = append(scoredChunks, scored{chunk: c, sim: cosine(queryVec, vec)})
	}
	sort.Slice(scoredChunks, func(i, j int) bool { return scoredChunks[i].sim > scoredChunks[j].sim })

	topK := e.cfg.VectorTopK
	if topK <= 0 || topK > len(scoredChunks) {
		topK = len(scoredChunks)
	}
	out := make([]candidate, 0, topK)
	for _, s := range scoredChunks[:topK] {
		out = append(out, candidate{chunk: s.chunk, score: s.sim})
	}
	return out, nil
}

// externalVectorSearch queries the configured ANN index by similarity
// and resolves the returned chunk IDs back to their Postgres rows --
// the fast path when chunkAndPersist had somewhere to upsert vectors.
// A spec-lookup or comparison query is scoped via the index's
// chunk_type metadata to the structured chunk kinds a spec value
// actually lives in, so a generic-intent query doesn't drown those
// results under narrative or header chunks.
func (e *Engine) externalVectorSearch(ctx context.Context, queryVec []float32, pq ParsedQuery) ([]candidate, error) {
	matches, err := e.store.QueryMatches(ctx, chunker.ChunkNamespace, queryVec, e.cfg.VectorTopK, vectorFilterFor(pq))
	if err != nil {
		return nil, fmt.Errorf("external vector store query: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	scoreByID := map[uuid.UUID]float64{}
	for _, m := range matches {
		id, err := uuid.Parse(m.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		scoreByID[id] = m.Score
	}
	found, err := e.chunks.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, len(found))
	for _, c := range found {
		out = append(out, candidate{chunk: c, score: scoreByID[c.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out, nil
}

// vectorFilterFor scopes an external ANN query to the chunk_type
// metadata spec.md §4.10 associates with structured fact extraction:
// spec-lookup and comparison queries only need spec_block/table/
// performance_data/dimensional chunks, never narrative or header text.
// General, recommendation, and compliance queries are unscoped since
// their evidence (certifications, use-case language) can live in any
// chunk kind.
func vectorFilterFor(pq ParsedQuery) map[string]any {
	switch pq.Intent {
	case IntentSpecLookup, IntentComparison:
		return map[string]any{
			"chunk_type": map[string]any{
				"$in": []string{
					string(ingestion.ChunkTypeSpecBlock),
					string(ingestion.ChunkTypeTable),
					string(ingestion.ChunkTypePerformanceData),
					string(ingestion.ChunkTypeDimensional),
				},
			},
		}
	default:
		return nil
	}
}

func toCandidates(chunks []*ingestion.Chunk, scores []float64) []candidate {
	out := make([]candidate, 0, len(chunks))
	for i, c := range chunks {
		s := 0.0
		if i < len(scores) {
			s = scores[i]
		}
		out = append(out, candidate{chunk: c, score: s})
	}
	return out
}

// docTypesFor resolves document_id -> doc_type for every distinct
// document referenced by ranked chunks, used by HeuristicRerank's
// document-authority boost. Best-effort: a document lookup failure
// just means that chunk's boost is skipped, not a hard error.
func (e *Engine) docTypesFor(ctx context.Context, chunks []ScoredChunk) map[string]ingestion.DocType {
	out := map[string]ingestion.DocType{}
	seen := map[string]bool{}
	for _, sc := range chunks {
		id := sc.Chunk.DocumentID.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		doc, err := e.documents.GetByID(dbctx.Context{Ctx: ctx}, sc.Chunk.DocumentID)
		if err != nil {
			continue
		}
		out[id] = doc.DocType
	}
	return out
}

func decodeEmbedding(raw []byte) ([]float32, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("retrieval: empty embedding")
	}
	var out []float32
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
