package catalogrepo

import (
	"strings"

	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type SpecRegistryRepo interface {
	GetByCanonicalName(dbc dbctx.Context, canonicalName string) (*catalog.SpecRegistryEntry, error)
	FindBySynonym(dbc dbctx.Context, label string) (*catalog.SpecRegistryEntry, error)
	ListAll(dbc dbctx.Context) ([]*catalog.SpecRegistryEntry, error)
	// Create is idempotent on canonical_name: if a row already exists it is
	// returned unchanged rather than duplicated or overwritten.
	Create(dbc dbctx.Context, entry *catalog.SpecRegistryEntry) (*catalog.SpecRegistryEntry, error)
	Approve(dbc dbctx.Context, canonicalName string) error
}

type specRegistryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpecRegistryRepo(db *gorm.DB, baseLog *logger.Logger) SpecRegistryRepo {
	return &specRegistryRepo{db: db, log: baseLog.With("repo", "SpecRegistryRepo")}
}

func (r *specRegistryRepo) GetByCanonicalName(dbc dbctx.Context, canonicalName string) (*catalog.SpecRegistryEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var e catalog.SpecRegistryEntry
	if err := txx.WithContext(dbc.Ctx).Where("canonical_name = ?", canonicalName).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// FindBySynonym matches a raw label (already normalized by the caller)
// against canonical_name or any entry in the synonyms jsonb array.
func (r *specRegistryRepo) FindBySynonym(dbc dbctx.Context, label string) (*catalog.SpecRegistryEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	norm := strings.ToLower(strings.TrimSpace(label))
	var e catalog.SpecRegistryEntry
	err := txx.WithContext(dbc.Ctx).
		Where("canonical_name = ? OR synonyms @> ?", norm, "[\""+norm+"\"]").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *specRegistryRepo) ListAll(dbc dbctx.Context) ([]*catalog.SpecRegistryEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*catalog.SpecRegistryEntry
	if err := txx.WithContext(dbc.Ctx).Order("sort_order, canonical_name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *specRegistryRepo) Create(dbc dbctx.Context, entry *catalog.SpecRegistryEntry) (*catalog.SpecRegistryEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	existing, err := r.GetByCanonicalName(dbc, entry.CanonicalName)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	if err := txx.WithContext(dbc.Ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *specRegistryRepo) Approve(dbc dbctx.Context, canonicalName string) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&catalog.SpecRegistryEntry{}).
		Where("canonical_name = ?", canonicalName).
		Update("approved", true).Error
}

func isNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
