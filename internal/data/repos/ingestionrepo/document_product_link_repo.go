package ingestionrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type DocumentProductLinkRepo interface {
	// Upsert writes the (document_id, product_id) row, replacing relevance/
	// extracted_specs/confidence if the pair already exists.
	Upsert(dbc dbctx.Context, link *ingestion.DocumentProductLink) (*ingestion.DocumentProductLink, error)
	ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*ingestion.DocumentProductLink, error)
	ListByProductID(dbc dbctx.Context, productID uuid.UUID) ([]*ingestion.DocumentProductLink, error)
}

type documentProductLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentProductLinkRepo(db *gorm.DB, baseLog *logger.Logger) DocumentProductLinkRepo {
	return &documentProductLinkRepo{db: db, log: baseLog.With("repo", "DocumentProductLinkRepo")}
}

func (r *documentProductLinkRepo) Upsert(dbc dbctx.Context, link *ingestion.DocumentProductLink) (*ingestion.DocumentProductLink, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	err := txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"relevance", "extracted_specs", "confidence"}),
		}).
		Create(link).Error
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *documentProductLinkRepo) ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*ingestion.DocumentProductLink, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*ingestion.DocumentProductLink
	if err := txx.WithContext(dbc.Ctx).Where("document_id = ?", documentID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentProductLinkRepo) ListByProductID(dbc dbctx.Context, productID uuid.UUID) ([]*ingestion.DocumentProductLink, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*ingestion.DocumentProductLink
	if err := txx.WithContext(dbc.Ctx).Where("product_id = ?", productID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
