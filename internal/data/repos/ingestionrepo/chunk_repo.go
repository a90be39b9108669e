package ingestionrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type ChunkRepo interface {
	CreateBatch(dbc dbctx.Context, chunks []*ingestion.Chunk) ([]*ingestion.Chunk, error)
	SetEmbedding(dbc dbctx.Context, chunkID uuid.UUID, embedding []float32) error
	ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*ingestion.Chunk, error)
	// AllWithEmbeddings returns up to limit chunks that carry a stored
	// jsonb embedding, unranked; internal/retrieval scores them by cosine
	// similarity application-side as the default dense leg used when no
	// external ANN index is configured.
	AllWithEmbeddings(dbc dbctx.Context, limit int) ([]*ingestion.Chunk, error)
	// LexicalSearch ranks chunks by ts_rank_cd against a websearch_to_tsquery.
	LexicalSearch(dbc dbctx.Context, query string, topK int) ([]*ingestion.Chunk, []float64, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*ingestion.Chunk, error)
}

type chunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChunkRepo(db *gorm.DB, baseLog *logger.Logger) ChunkRepo {
	return &chunkRepo{db: db, log: baseLog.With("repo", "ChunkRepo")}
}

func (r *chunkRepo) CreateBatch(dbc dbctx.Context, chunks []*ingestion.Chunk) ([]*ingestion.Chunk, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if len(chunks) == 0 {
		return chunks, nil
	}
	if err := txx.WithContext(dbc.Ctx).CreateInBatches(chunks, 100).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *chunkRepo) SetEmbedding(dbc dbctx.Context, chunkID uuid.UUID, embedding []float32) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&ingestion.Chunk{}).
		Where("id = ?", chunkID).
		Updates(map[string]any{
			"embedding":  jsonFloat32Array(embedding),
			"embed_dim":  len(embedding),
			"updated_at": gorm.Expr("now()"),
		}).Error
}

func (r *chunkRepo) ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*ingestion.Chunk, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*ingestion.Chunk
	if err := txx.WithContext(dbc.Ctx).Where("document_id = ?", documentID).Order("chunk_index").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chunkRepo) AllWithEmbeddings(dbc dbctx.Context, limit int) ([]*ingestion.Chunk, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if limit <= 0 {
		limit = 5000
	}
	var out []*ingestion.Chunk
	if err := txx.WithContext(dbc.Ctx).
		Where("embedding IS NOT NULL AND embed_dim > 0").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chunkRepo) LexicalSearch(dbc dbctx.Context, query string, topK int) ([]*ingestion.Chunk, []float64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if topK <= 0 {
		topK = 20
	}
	type row struct {
		ingestion.Chunk
		Rank float64 `gorm:"column:rank"`
	}
	var rows []row
	err := txx.WithContext(dbc.Ctx).
		Table("chunk").
		Select("chunk.*, ts_rank_cd(content_tsv, websearch_to_tsquery('english', ?)) AS rank", query).
		Where("content_tsv @@ websearch_to_tsquery('english', ?)", query).
		Order("rank DESC").
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	chunks := make([]*ingestion.Chunk, 0, len(rows))
	scores := make([]float64, 0, len(rows))
	for i := range rows {
		c := rows[i].Chunk
		chunks = append(chunks, &c)
		scores = append(scores, rows[i].Rank)
	}
	return chunks, scores, nil
}

func (r *chunkRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*ingestion.Chunk, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*ingestion.Chunk
	if len(ids) == 0 {
		return out, nil
	}
	if err := txx.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func jsonFloat32Array(vals []float32) string {
	out := "["
	for i, v := range vals {
		if i > 0 {
			out += ","
		}
		out += ftoa(v)
	}
	return out + "]"
}
