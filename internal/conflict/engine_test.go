package conflict

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/registry"
	"github.com/labcold/catalog/internal/specvalue"
)

type fakeEquivRepo struct {
	rules map[uuid.UUID]*catalog.EquivalenceRule
}

func (f *fakeEquivRepo) GetByFamilyID(_ dbctx.Context, familyID uuid.UUID) (*catalog.EquivalenceRule, error) {
	r, ok := f.rules[familyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeEquivRepo) Upsert(_ dbctx.Context, rule *catalog.EquivalenceRule) (*catalog.EquivalenceRule, error) {
	f.rules[rule.FamilyID] = rule
	return rule, nil
}

var _ catalogrepo.EquivalenceRuleRepo = (*fakeEquivRepo)(nil)

func newTestEngine(t *testing.T, rules map[uuid.UUID]*catalog.EquivalenceRule) *Engine {
	t.Helper()
	l, err := logger.New("test")
	require.NoError(t, err)
	reg := registry.New(nil, l)
	return New(reg, &fakeEquivRepo{rules: rules}, nil, l)
}

func TestEvaluateNoExistingValueWrites(t *testing.T) {
	e := newTestEngine(t, nil)
	d, err := e.Evaluate(context.Background(), uuid.New(), "storage_capacity_cuft", nil, specvalue.Num(26, "cuft"), "2025-03-18", "")
	require.NoError(t, err)
	assert.Equal(t, ActionWrite, d.Action)
}

func TestEvaluateEqualWithinToleranceIsNoop(t *testing.T) {
	e := newTestEngine(t, nil)
	existing := specvalue.Num(26, "cuft")
	next := specvalue.Num(27.2, "cuft") // within default 5% of 27.2 (diff .0441)
	d, err := e.Evaluate(context.Background(), uuid.New(), "storage_capacity_cuft", &existing, next, "", "")
	require.NoError(t, err)
	assert.Equal(t, ActionNoop, d.Action)
}

func TestEvaluateNewerRevisionOverwrites(t *testing.T) {
	e := newTestEngine(t, nil)
	existing := specvalue.Num(26, "cuft")
	next := specvalue.Num(24.0, "cuft")
	d, err := e.Evaluate(context.Background(), uuid.New(), "storage_capacity_cuft", &existing, next, "2025-03-18", "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, ActionOverwrite, d.Action)
}

func TestEvaluateTiedRevisionConflictsWithDefaultSeverity(t *testing.T) {
	e := newTestEngine(t, nil)
	existing := specvalue.Num(26, "cuft")
	next := specvalue.Num(24.0, "cuft")
	d, err := e.Evaluate(context.Background(), uuid.New(), "storage_capacity_cuft", &existing, next, "", "")
	require.NoError(t, err)
	assert.Equal(t, ActionConflict, d.Action)
	assert.Equal(t, ingestion.ConflictSeverityCritical, d.Severity) // storage_capacity_cuft is always-critical
}

func TestEvaluateNonCriticalSpecConflictIsMedium(t *testing.T) {
	e := newTestEngine(t, nil)
	existing := specvalue.Txt("blue")
	next := specvalue.Txt("red")
	d, err := e.Evaluate(context.Background(), uuid.New(), "exterior_color", &existing, next, "", "")
	require.NoError(t, err)
	assert.Equal(t, ActionConflict, d.Action)
	assert.Equal(t, ingestion.ConflictSeverityMedium, d.Severity)
}

func TestEvaluateUsesPerFamilyToleranceOverride(t *testing.T) {
	familyID := uuid.New()
	rules := map[uuid.UUID]*catalog.EquivalenceRule{
		familyID: {FamilyID: familyID, ToleranceMap: datatypes.JSON(`{"uniformity_c": 0.5}`)},
	}
	e := newTestEngine(t, rules)
	existing := specvalue.Num(1.0, "c")
	next := specvalue.Num(1.4, "c") // ~28.6% relative diff: within the 50% family override but outside the 5% default
	d, err := e.Evaluate(context.Background(), familyID, "uniformity_c", &existing, next, "", "")
	require.NoError(t, err)
	assert.Equal(t, ActionNoop, d.Action)
}

func TestNumericToleranceBoundaryIsEqual(t *testing.T) {
	existing := specvalue.Num(95, "")
	next := specvalue.Num(100, "") // |95-100|/100 = 0.05, exactly the 5% default
	assert.True(t, valuesEqual(existing, next, DefaultTolerance))
}
