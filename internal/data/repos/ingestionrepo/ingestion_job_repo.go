package ingestionrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type IngestionJobRepo interface {
	Create(dbc dbctx.Context, job *ingestion.IngestionJob) (*ingestion.IngestionJob, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*ingestion.IngestionJob, error)
	Save(dbc dbctx.Context, job *ingestion.IngestionJob) error
	// IncrementCounters applies a partial delta atomically, so concurrent
	// workers processing different files in the same job never lose an
	// update to a blind overwrite.
	IncrementCounters(dbc dbctx.Context, id uuid.UUID, delta IngestionJobDelta) error
}

// IngestionJobDelta is a set of per-field increments; zero fields apply no change.
type IngestionJobDelta struct {
	ProcessedFiles  int
	FailedFiles     int
	NewProducts     int
	UpdatedProducts int
	NewConflicts    int
}

type ingestionJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestionJobRepo(db *gorm.DB, baseLog *logger.Logger) IngestionJobRepo {
	return &ingestionJobRepo{db: db, log: baseLog.With("repo", "IngestionJobRepo")}
}

func (r *ingestionJobRepo) Create(dbc dbctx.Context, job *ingestion.IngestionJob) (*ingestion.IngestionJob, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *ingestionJobRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*ingestion.IngestionJob, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var j ingestion.IngestionJob
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *ingestionJobRepo) Save(dbc dbctx.Context, job *ingestion.IngestionJob) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Save(job).Error
}

func (r *ingestionJobRepo) IncrementCounters(dbc dbctx.Context, id uuid.UUID, delta IngestionJobDelta) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Exec(`
		UPDATE ingestion_job SET
			processed_files = processed_files + ?,
			failed_files = failed_files + ?,
			new_products = new_products + ?,
			updated_products = updated_products + ?,
			new_conflicts = new_conflicts + ?,
			updated_at = now()
		WHERE id = ?`,
		delta.ProcessedFiles, delta.FailedFiles, delta.NewProducts, delta.UpdatedProducts, delta.NewConflicts, id,
	).Error
}
