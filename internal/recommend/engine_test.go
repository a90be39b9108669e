package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/specvalue"
)

type fakeRecommendProductRepo struct {
	items []*catalog.Product
}

func (f *fakeRecommendProductRepo) Create(dbctx.Context, *catalog.Product) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeRecommendProductRepo) GetByID(dbctx.Context, uuid.UUID) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeRecommendProductRepo) GetLatestByModelNumberForUpdate(dbctx.Context, string) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeRecommendProductRepo) GetLatestByModelNumber(dbctx.Context, string) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeRecommendProductRepo) Save(dbctx.Context, *catalog.Product) error { return nil }
func (f *fakeRecommendProductRepo) Filter(dbc dbctx.Context, filt catalogrepo.ProductFilter) ([]*catalog.Product, int64, error) {
	return f.items, int64(len(f.items)), nil
}

type fakeEquivalenceRuleRepo struct{}

func (fakeEquivalenceRuleRepo) GetByFamilyID(dbctx.Context, uuid.UUID) (*catalog.EquivalenceRule, error) {
	return nil, errFakeRuleNotFound
}
func (fakeEquivalenceRuleRepo) Upsert(dbctx.Context, *catalog.EquivalenceRule) (*catalog.EquivalenceRule, error) {
	return nil, nil
}

var errFakeRuleNotFound = errors.New("fake: no equivalence rule for family")

var _ catalogrepo.ProductRepo = (*fakeRecommendProductRepo)(nil)
var _ catalogrepo.EquivalenceRuleRepo = fakeEquivalenceRuleRepo{}

func newRecommendTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	t.Cleanup(log.Sync)
	return log
}

func TestRecommendReturnsDiagnosticWhenNoCandidates(t *testing.T) {
	repo := &fakeRecommendProductRepo{}
	eng := New(repo, fakeEquivalenceRuleRepo{}, newRecommendTestLogger(t))

	resp, err := eng.Recommend(context.Background(), Request{UseCase: "vaccine_storage"})
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.Contains(t, resp.Diagnostic, "no products match")
}

func TestRecommendReturnsAlternatesWhenAllCandidatesFailHardConstraints(t *testing.T) {
	p := newProduct(t, catalog.SuperCategoryRefrigerator)
	p.Certifications = mustCerts(t) // missing NSF_ANSI_456
	p.TempRangeMinC = floatp(2.0)
	p.TempRangeMaxC = floatp(8.0)
	p.Specs = mustSpecs(t, map[string]specvalue.Value{"uniformity_c": specvalue.Num(1.0, "C")})

	repo := &fakeRecommendProductRepo{items: []*catalog.Product{p}}
	eng := New(repo, fakeEquivalenceRuleRepo{}, newRecommendTestLogger(t))

	resp, err := eng.Recommend(context.Background(), Request{UseCase: "vaccine_storage"})
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.Contains(t, resp.Diagnostic, "hard constraints")
	require.Len(t, resp.Alternates, 1)
}

func TestRecommendRanksPassingCandidatesAndCapsAtMaxResults(t *testing.T) {
	good := newProduct(t, catalog.SuperCategoryRefrigerator)
	good.TempRangeMinC = floatp(2.0)
	good.TempRangeMaxC = floatp(8.0)
	good.Certifications = mustCerts(t, "NSF_ANSI_456")
	good.Specs = mustSpecs(t, map[string]specvalue.Value{
		"uniformity_c":   specvalue.Num(0.8, "C"),
		"stability_c":    specvalue.Num(0.7, "C"),
		"noise_dba":      specvalue.Num(38, "dBA"),
		"energy_kwh_day": specvalue.Num(0.65, "kWh/day"),
	})
	mediocre := newProduct(t, catalog.SuperCategoryRefrigerator)
	mediocre.TempRangeMinC = floatp(2.0)
	mediocre.TempRangeMaxC = floatp(8.0)
	mediocre.Certifications = mustCerts(t, "NSF_ANSI_456")
	mediocre.Specs = mustSpecs(t, map[string]specvalue.Value{
		"uniformity_c":   specvalue.Num(4.5, "C"),
		"stability_c":    specvalue.Num(4.5, "C"),
		"noise_dba":      specvalue.Num(56, "dBA"),
		"energy_kwh_day": specvalue.Num(2.6, "kWh/day"),
	})

	repo := &fakeRecommendProductRepo{items: []*catalog.Product{mediocre, good}}
	eng := New(repo, fakeEquivalenceRuleRepo{}, newRecommendTestLogger(t))

	resp, err := eng.Recommend(context.Background(), Request{UseCase: "vaccine_storage", MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, good.ID.String(), resp.Products[0].ProductID)
}
