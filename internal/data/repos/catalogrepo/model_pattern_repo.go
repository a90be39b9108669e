package catalogrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type ModelPatternRepo interface {
	Create(dbc dbctx.Context, p *catalog.ModelPattern) (*catalog.ModelPattern, error)
	// ListActiveForBrand returns active patterns ordered by descending
	// priority, either scoped to one brand or, when brandID is nil, across
	// all brands (for a brand-hint-free resolve pass).
	ListActiveForBrand(dbc dbctx.Context, brandID *uuid.UUID) ([]*catalog.ModelPattern, error)
}

type modelPatternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModelPatternRepo(db *gorm.DB, baseLog *logger.Logger) ModelPatternRepo {
	return &modelPatternRepo{db: db, log: baseLog.With("repo", "ModelPatternRepo")}
}

func (r *modelPatternRepo) Create(dbc dbctx.Context, p *catalog.ModelPattern) (*catalog.ModelPattern, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *modelPatternRepo) ListActiveForBrand(dbc dbctx.Context, brandID *uuid.UUID) ([]*catalog.ModelPattern, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Where("is_active = true")
	if brandID != nil {
		q = q.Where("brand_id = ?", *brandID)
	}
	var out []*catalog.ModelPattern
	if err := q.Order("priority DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
