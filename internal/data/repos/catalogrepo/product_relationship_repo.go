package catalogrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type ProductRelationshipRepo interface {
	Create(dbc dbctx.Context, rel *catalog.ProductRelationship) (*catalog.ProductRelationship, error)
	// ListOutbound returns edges whose source is productID, optionally
	// filtered by kind (empty = any kind).
	ListOutbound(dbc dbctx.Context, productID uuid.UUID, kind catalog.ProductRelationshipKind) ([]*catalog.ProductRelationship, error)
	// ListBothDirections returns edges where productID is either source or
	// target -- used for symmetric kinds like equivalent_to.
	ListBothDirections(dbc dbctx.Context, productID uuid.UUID, kind catalog.ProductRelationshipKind) ([]*catalog.ProductRelationship, error)
}

type productRelationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) ProductRelationshipRepo {
	return &productRelationshipRepo{db: db, log: baseLog.With("repo", "ProductRelationshipRepo")}
}

func (r *productRelationshipRepo) Create(dbc dbctx.Context, rel *catalog.ProductRelationship) (*catalog.ProductRelationship, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(rel).Error; err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *productRelationshipRepo) ListOutbound(dbc dbctx.Context, productID uuid.UUID, kind catalog.ProductRelationshipKind) ([]*catalog.ProductRelationship, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Where("source_id = ?", productID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []*catalog.ProductRelationship
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRelationshipRepo) ListBothDirections(dbc dbctx.Context, productID uuid.UUID, kind catalog.ProductRelationshipKind) ([]*catalog.ProductRelationship, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Where("(source_id = ? OR target_id = ?)", productID, productID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []*catalog.ProductRelationship
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
