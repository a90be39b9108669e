package catalogrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type FamilyRepo interface {
	Create(dbc dbctx.Context, f *catalog.Family) (*catalog.Family, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Family, error)
	GetByCode(dbc dbctx.Context, code string) (*catalog.Family, error)
	List(dbc dbctx.Context) ([]*catalog.Family, error)
}

type familyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFamilyRepo(db *gorm.DB, baseLog *logger.Logger) FamilyRepo {
	return &familyRepo{db: db, log: baseLog.With("repo", "FamilyRepo")}
}

func (r *familyRepo) Create(dbc dbctx.Context, f *catalog.Family) (*catalog.Family, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (r *familyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Family, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var f catalog.Family
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *familyRepo) GetByCode(dbc dbctx.Context, code string) (*catalog.Family, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var f catalog.Family
	if err := txx.WithContext(dbc.Ctx).Where("code = ?", code).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *familyRepo) List(dbc dbctx.Context) ([]*catalog.Family, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*catalog.Family
	if err := txx.WithContext(dbc.Ctx).Order("code").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
