package catalogrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type BrandRepo interface {
	Create(dbc dbctx.Context, b *catalog.Brand) (*catalog.Brand, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Brand, error)
	GetByCode(dbc dbctx.Context, code string) (*catalog.Brand, error)
	List(dbc dbctx.Context) ([]*catalog.Brand, error)
}

type brandRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBrandRepo(db *gorm.DB, baseLog *logger.Logger) BrandRepo {
	return &brandRepo{db: db, log: baseLog.With("repo", "BrandRepo")}
}

func (r *brandRepo) Create(dbc dbctx.Context, b *catalog.Brand) (*catalog.Brand, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (r *brandRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Brand, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var b catalog.Brand
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *brandRepo) GetByCode(dbc dbctx.Context, code string) (*catalog.Brand, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var b catalog.Brand
	if err := txx.WithContext(dbc.Ctx).Where("code = ?", code).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *brandRepo) List(dbc dbctx.Context) ([]*catalog.Brand, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*catalog.Brand
	if err := txx.WithContext(dbc.Ctx).Where("is_active = true").Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
