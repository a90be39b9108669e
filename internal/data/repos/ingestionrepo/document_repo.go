package ingestionrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type DocumentRepo interface {
	Create(dbc dbctx.Context, d *ingestion.Document) (*ingestion.Document, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*ingestion.Document, error)
	// GetByChecksum backs the idempotency invariant: a second upload of
	// identical bytes returns the existing document rather than creating
	// a new row.
	GetByChecksum(dbc dbctx.Context, checksum string) (*ingestion.Document, error)
	Save(dbc dbctx.Context, d *ingestion.Document) error
	AppendProcessingLogEntry(dbc dbctx.Context, id uuid.UUID, entry ingestion.ProcessingLogEntry) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(dbc dbctx.Context, d *ingestion.Document) (*ingestion.Document, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*ingestion.Document, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var d ingestion.Document
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) GetByChecksum(dbc dbctx.Context, checksum string) (*ingestion.Document, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var d ingestion.Document
	if err := txx.WithContext(dbc.Ctx).Where("checksum_sha256 = ?", checksum).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) Save(dbc dbctx.Context, d *ingestion.Document) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Save(d).Error
}

func (r *documentRepo) AppendProcessingLogEntry(dbc dbctx.Context, id uuid.UUID, entry ingestion.ProcessingLogEntry) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Exec(
		`UPDATE document SET processing_log = processing_log || ?::jsonb, updated_at = now() WHERE id = ?`,
		mustMarshalLogEntry(entry), id,
	).Error
}
