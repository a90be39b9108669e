package retrieval

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/platform/pinecone"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("test")
	require.NoError(t, err)
	return l
}

func productIDsJSON(ids ...string) datatypes.JSON {
	b, _ := json.Marshal(ids)
	return datatypes.JSON(b)
}

func embeddingJSON(vec []float32) datatypes.JSON {
	b, _ := json.Marshal(vec)
	return datatypes.JSON(b)
}

// fakeChunkRepo backs the lexical and dense legs with in-memory data.
type fakeChunkRepo struct {
	all           []*ingestion.Chunk
	lexicalHits   []*ingestion.Chunk
	lexicalScores []float64
	lexicalErr    error
}

func (f *fakeChunkRepo) CreateBatch(dbctx.Context, []*ingestion.Chunk) ([]*ingestion.Chunk, error) {
	return nil, nil
}
func (f *fakeChunkRepo) SetEmbedding(dbctx.Context, uuid.UUID, []float32) error { return nil }
func (f *fakeChunkRepo) ListByDocumentID(dbctx.Context, uuid.UUID) ([]*ingestion.Chunk, error) {
	return nil, nil
}
func (f *fakeChunkRepo) AllWithEmbeddings(dbctx.Context, int) ([]*ingestion.Chunk, error) {
	return f.all, nil
}
func (f *fakeChunkRepo) LexicalSearch(dbctx.Context, string, int) ([]*ingestion.Chunk, []float64, error) {
	if f.lexicalErr != nil {
		return nil, nil, f.lexicalErr
	}
	return f.lexicalHits, f.lexicalScores, nil
}
func (f *fakeChunkRepo) GetByIDs(dbctx.Context, []uuid.UUID) ([]*ingestion.Chunk, error) {
	return nil, nil
}

type fakeDocumentRepo struct {
	docTypes map[string]ingestion.DocType
}

func (f *fakeDocumentRepo) Create(dbctx.Context, *ingestion.Document) (*ingestion.Document, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*ingestion.Document, error) {
	dt, ok := f.docTypes[id.String()]
	if !ok {
		dt = ingestion.DocTypeOther
	}
	return &ingestion.Document{ID: id, DocType: dt}, nil
}
func (f *fakeDocumentRepo) GetByChecksum(dbctx.Context, string) (*ingestion.Document, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) Save(dbctx.Context, *ingestion.Document) error { return nil }
func (f *fakeDocumentRepo) AppendProcessingLogEntry(dbctx.Context, uuid.UUID, ingestion.ProcessingLogEntry) error {
	return nil
}

type fakeProductRepo struct {
	byModel map[string]*catalog.Product
}

func (f *fakeProductRepo) Create(dbctx.Context, *catalog.Product) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) GetByID(dbctx.Context, uuid.UUID) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) GetLatestByModelNumberForUpdate(dbctx.Context, string) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) GetLatestByModelNumber(_ dbctx.Context, model string) (*catalog.Product, error) {
	p, ok := f.byModel[model]
	if !ok {
		return nil, assertErr{}
	}
	return p, nil
}
func (f *fakeProductRepo) Save(dbctx.Context, *catalog.Product) error { return nil }
func (f *fakeProductRepo) Filter(dbctx.Context, catalogrepo.ProductFilter) ([]*catalog.Product, int64, error) {
	return nil, 0, nil
}

type assertErr struct{}

func (assertErr) Error() string { return "not found" }

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return [][]float32{f.vec}, nil
}
func (f *fakeEmbedder) Dimension() int { return len(f.vec) }

func TestSearchLexicalOnlyWhenNoEmbedder(t *testing.T) {
	docID := uuid.New()
	chunkID := uuid.New()
	prodID := uuid.New()

	hit := &ingestion.Chunk{
		ID:         chunkID,
		DocumentID: docID,
		Content:    "The ABT-HC-26S has a storage capacity of 25.8 cubic feet.",
		ChunkType:  ingestion.ChunkTypeSpecBlock,
		TokenCount: 12,
		ProductIDs: productIDsJSON(prodID.String()),
	}

	chunks := &fakeChunkRepo{lexicalHits: []*ingestion.Chunk{hit}, lexicalScores: []float64{0.9}}
	docs := &fakeDocumentRepo{docTypes: map[string]ingestion.DocType{docID.String(): ingestion.DocTypeProductDataSheet}}
	products := &fakeProductRepo{byModel: map[string]*catalog.Product{}}

	eng := New(chunks, docs, products, nil, nil, newTestLogger(t))
	pack, err := eng.Search(context.Background(), "storage capacity of ABT-HC-26S")
	require.NoError(t, err)
	require.Len(t, pack.Chunks, 1)
	assert.Equal(t, IntentSpecLookup, pack.Intent)
	assert.Contains(t, pack.Chunks[0].Content, "ABT-HC-26S")
}

func TestSearchFusesVectorAndLexicalLegs(t *testing.T) {
	docID := uuid.New()
	lexChunkID := uuid.New()
	vecChunkID := uuid.New()

	lexHit := &ingestion.Chunk{ID: lexChunkID, DocumentID: docID, Content: "ABT-HC-26S capacity details", ChunkType: ingestion.ChunkTypeText, TokenCount: 8}
	vecHit := &ingestion.Chunk{ID: vecChunkID, DocumentID: docID, Content: "semantically close but no model token", ChunkType: ingestion.ChunkTypeText, TokenCount: 8, Embedding: embeddingJSON([]float32{1, 0, 0})}

	chunks := &fakeChunkRepo{
		lexicalHits:   []*ingestion.Chunk{lexHit},
		lexicalScores: []float64{0.5},
		all:           []*ingestion.Chunk{vecHit},
	}
	docs := &fakeDocumentRepo{docTypes: map[string]ingestion.DocType{}}
	products := &fakeProductRepo{byModel: map[string]*catalog.Product{}}
	embed := &fakeEmbedder{vec: []float32{1, 0, 0}}

	eng := New(chunks, docs, products, embed, nil, newTestLogger(t))
	pack, err := eng.Search(context.Background(), "storage capacity of ABT-HC-26S")
	require.NoError(t, err)
	require.Len(t, pack.Chunks, 2)
}

func TestSearchDegradesWhenEmbedderErrors(t *testing.T) {
	docID := uuid.New()
	lexHit := &ingestion.Chunk{ID: uuid.New(), DocumentID: docID, Content: "lexical only content", ChunkType: ingestion.ChunkTypeText, TokenCount: 8}

	chunks := &fakeChunkRepo{lexicalHits: []*ingestion.Chunk{lexHit}, lexicalScores: []float64{0.4}}
	docs := &fakeDocumentRepo{docTypes: map[string]ingestion.DocType{}}
	products := &fakeProductRepo{byModel: map[string]*catalog.Product{}}
	embed := &fakeEmbedder{err: assertErr{}}

	eng := New(chunks, docs, products, embed, nil, newTestLogger(t))
	pack, err := eng.Search(context.Background(), "what is the noise level")
	require.NoError(t, err)
	require.Len(t, pack.Chunks, 1)
}

type fakeVectorStore struct {
	lastFilter map[string]any
	matches    []pinecone.VectorMatch
}

func (f *fakeVectorStore) Upsert(context.Context, string, []pinecone.Vector) error { return nil }
func (f *fakeVectorStore) QueryMatches(_ context.Context, _ string, _ []float32, _ int, filter map[string]any) ([]pinecone.VectorMatch, error) {
	f.lastFilter = filter
	return f.matches, nil
}
func (f *fakeVectorStore) QueryIDs(context.Context, string, []float32, int, map[string]any) ([]string, error) {
	return nil, nil
}
func (f *fakeVectorStore) DeleteIDs(context.Context, string, []string) error { return nil }

var _ pinecone.VectorStore = (*fakeVectorStore)(nil)

func TestVectorFilterForScopesSpecLookupToStructuredChunkTypes(t *testing.T) {
	pq := ParsedQuery{Intent: IntentSpecLookup}
	filter := vectorFilterFor(pq)
	require.NotNil(t, filter)
	ct, ok := filter["chunk_type"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"spec_block", "table", "performance_data", "dimensional"}, ct["$in"])
}

func TestVectorFilterForUnscopedForGeneralIntent(t *testing.T) {
	assert.Nil(t, vectorFilterFor(ParsedQuery{Intent: IntentGeneral}))
}

func TestSearchQueriesExternalStoreWithIntentFilter(t *testing.T) {
	docID := uuid.New()
	vecChunkID := uuid.New()
	hit := &ingestion.Chunk{ID: vecChunkID, DocumentID: docID, Content: "capacity spec", ChunkType: ingestion.ChunkTypeSpecBlock, TokenCount: 6}

	chunks := &fakeChunkRepo{lexicalHits: nil}
	docs := &fakeDocumentRepo{docTypes: map[string]ingestion.DocType{}}
	products := &fakeProductRepo{byModel: map[string]*catalog.Product{}}
	embed := &fakeEmbedder{vec: []float32{1, 0, 0}}
	store := &fakeVectorStore{matches: []pinecone.VectorMatch{{ID: vecChunkID.String(), Score: 0.9}}}
	chunks.all = []*ingestion.Chunk{hit} // unused by external path but keeps fakeChunkRepo consistent

	eng := New(chunks, docs, products, embed, nil, newTestLogger(t)).WithVectorStore(store)
	_, err := eng.Search(context.Background(), "what is the storage capacity spec")
	require.NoError(t, err)

	require.NotNil(t, store.lastFilter)
	ct, ok := store.lastFilter["chunk_type"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, ct["$in"], "spec_block")
}

func TestSearchFailsWhenStoreUnavailable(t *testing.T) {
	chunks := &fakeChunkRepo{lexicalErr: assertErr{}}
	docs := &fakeDocumentRepo{}
	products := &fakeProductRepo{byModel: map[string]*catalog.Product{}}

	eng := New(chunks, docs, products, nil, nil, newTestLogger(t))
	_, err := eng.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
}
