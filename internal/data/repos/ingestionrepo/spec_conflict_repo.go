package ingestionrepo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type SpecConflictRepo interface {
	Create(dbc dbctx.Context, c *ingestion.SpecConflict) (*ingestion.SpecConflict, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*ingestion.SpecConflict, error)
	ListPending(dbc dbctx.Context, productID *uuid.UUID) ([]*ingestion.SpecConflict, error)
	// Resolve transitions a conflict out of pending exactly once; a second
	// call on an already-resolved row affects zero rows and returns
	// (false, nil).
	Resolve(dbc dbctx.Context, id uuid.UUID, resolution ingestion.ConflictResolution, resolvedValue []byte, resolvedBy string) (bool, error)
}

type specConflictRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpecConflictRepo(db *gorm.DB, baseLog *logger.Logger) SpecConflictRepo {
	return &specConflictRepo{db: db, log: baseLog.With("repo", "SpecConflictRepo")}
}

func (r *specConflictRepo) Create(dbc dbctx.Context, c *ingestion.SpecConflict) (*ingestion.SpecConflict, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *specConflictRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*ingestion.SpecConflict, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var c ingestion.SpecConflict
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *specConflictRepo) ListPending(dbc dbctx.Context, productID *uuid.UUID) ([]*ingestion.SpecConflict, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Where("resolution = ?", ingestion.ConflictResolutionPending)
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	var out []*ingestion.SpecConflict
	if err := q.Order("created_at").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *specConflictRepo) Resolve(dbc dbctx.Context, id uuid.UUID, resolution ingestion.ConflictResolution, resolvedValue []byte, resolvedBy string) (bool, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now()
	updates := map[string]any{
		"resolution":  resolution,
		"resolved_at": now,
		"resolved_by": resolvedBy,
	}
	if resolvedValue != nil {
		updates["resolved_value"] = string(resolvedValue)
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&ingestion.SpecConflict{}).
		Where("id = ? AND resolution = ?", id, ingestion.ConflictResolutionPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
