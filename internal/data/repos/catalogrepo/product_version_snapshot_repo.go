package catalogrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type ProductVersionSnapshotRepo interface {
	Create(dbc dbctx.Context, snap *catalog.ProductVersionSnapshot) (*catalog.ProductVersionSnapshot, error)
	ListByProductID(dbc dbctx.Context, productID uuid.UUID) ([]*catalog.ProductVersionSnapshot, error)
	GetByProductIDAndVersion(dbc dbctx.Context, productID uuid.UUID, version int) (*catalog.ProductVersionSnapshot, error)
}

type productVersionSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductVersionSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ProductVersionSnapshotRepo {
	return &productVersionSnapshotRepo{db: db, log: baseLog.With("repo", "ProductVersionSnapshotRepo")}
}

func (r *productVersionSnapshotRepo) Create(dbc dbctx.Context, snap *catalog.ProductVersionSnapshot) (*catalog.ProductVersionSnapshot, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(snap).Error; err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *productVersionSnapshotRepo) ListByProductID(dbc dbctx.Context, productID uuid.UUID) ([]*catalog.ProductVersionSnapshot, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*catalog.ProductVersionSnapshot
	if err := txx.WithContext(dbc.Ctx).Where("product_id = ?", productID).Order("version").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productVersionSnapshotRepo) GetByProductIDAndVersion(dbc dbctx.Context, productID uuid.UUID, version int) (*catalog.ProductVersionSnapshot, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var s catalog.ProductVersionSnapshot
	if err := txx.WithContext(dbc.Ctx).Where("product_id = ? AND version = ?", productID, version).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
