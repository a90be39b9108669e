package catalogrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type EquivalenceRuleRepo interface {
	GetByFamilyID(dbc dbctx.Context, familyID uuid.UUID) (*catalog.EquivalenceRule, error)
	Upsert(dbc dbctx.Context, rule *catalog.EquivalenceRule) (*catalog.EquivalenceRule, error)
}

type equivalenceRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEquivalenceRuleRepo(db *gorm.DB, baseLog *logger.Logger) EquivalenceRuleRepo {
	return &equivalenceRuleRepo{db: db, log: baseLog.With("repo", "EquivalenceRuleRepo")}
}

func (r *equivalenceRuleRepo) GetByFamilyID(dbc dbctx.Context, familyID uuid.UUID) (*catalog.EquivalenceRule, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var e catalog.EquivalenceRule
	if err := txx.WithContext(dbc.Ctx).Where("family_id = ?", familyID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equivalenceRuleRepo) Upsert(dbc dbctx.Context, rule *catalog.EquivalenceRule) (*catalog.EquivalenceRule, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	existing, err := r.GetByFamilyID(dbc, rule.FamilyID)
	if err == nil {
		rule.ID = existing.ID
		if err := txx.WithContext(dbc.Ctx).Model(existing).Updates(rule).Error; err != nil {
			return nil, err
		}
		return rule, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	if err := txx.WithContext(dbc.Ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}
