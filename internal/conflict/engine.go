// Package conflict implements the Conflict Engine (spec.md §4.7): for
// each incoming spec value it compares against the stored value by data
// type and per-spec tolerance, then decides write / no-op / overwrite /
// flag-for-review.
package conflict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/registry"
	"github.com/labcold/catalog/internal/specvalue"
)

// DefaultTolerance is the fallback fractional tolerance for numeric specs
// not named in a family's Equivalence Rule tolerance_map (Open Question
// decision #3, DESIGN.md).
const DefaultTolerance = 0.05

// criticalSpecs lists the specs the decision table (spec.md §4.7) names
// directly as always-critical, independent of the Registry's is_critical
// flag — the flag is still consulted for every other spec.
var criticalSpecs = map[string]bool{
	"storage_capacity_cuft": true,
	"temp_range_min_c":      true,
	"temp_range_max_c":      true,
	"voltage_v":             true,
	"certifications":        true,
}

// Action is the outcome of evaluating one incoming spec against the
// stored value.
type Action string

const (
	ActionWrite       Action = "write"        // no existing value; write new_value
	ActionNoop        Action = "noop"         // equal under the type rule
	ActionOverwrite   Action = "overwrite"    // new revision strictly newer; overwrite, audit, no conflict
	ActionConflict    Action = "conflict"     // pending conflict row inserted
)

// Decision is the result of Evaluate.
type Decision struct {
	Action   Action
	Severity ingestion.ConflictSeverity // meaningful only when Action == ActionConflict
}

// Engine evaluates and resolves spec conflicts.
type Engine struct {
	registry     *registry.Registry
	equivRepo    catalogrepo.EquivalenceRuleRepo
	conflictRepo ingestionrepo.SpecConflictRepo
	log          *logger.Logger
}

func New(reg *registry.Registry, equivRepo catalogrepo.EquivalenceRuleRepo, conflictRepo ingestionrepo.SpecConflictRepo, baseLog *logger.Logger) *Engine {
	return &Engine{registry: reg, equivRepo: equivRepo, conflictRepo: conflictRepo, log: baseLog.With("component", "conflict")}
}

// Evaluate applies the decision table of spec.md §4.7. existingValue is
// nil when the product has no current value for canonicalName.
func (e *Engine) Evaluate(ctx context.Context, familyID uuid.UUID, canonicalName string, existingValue *specvalue.Value, newValue specvalue.Value, newRevision, existingRevision string) (Decision, error) {
	if existingValue == nil {
		return Decision{Action: ActionWrite}, nil
	}

	tolerance, err := e.toleranceFor(ctx, familyID, canonicalName)
	if err != nil {
		return Decision{}, err
	}

	if valuesEqual(*existingValue, newValue, tolerance) {
		return Decision{Action: ActionNoop}, nil
	}

	if isStrictlyNewer(newRevision, existingRevision) {
		return Decision{Action: ActionOverwrite}, nil
	}

	severity := ingestion.ConflictSeverityMedium
	if e.registry.IsCritical(canonicalName) || criticalSpecs[canonicalName] {
		severity = ingestion.ConflictSeverityCritical
	}
	return Decision{Action: ActionConflict, Severity: severity}, nil
}

func (e *Engine) toleranceFor(ctx context.Context, familyID uuid.UUID, canonicalName string) (float64, error) {
	rule, err := e.equivRepo.GetByFamilyID(dbctx.Context{Ctx: ctx}, familyID)
	if err != nil {
		if isNotFoundErr(err) {
			return DefaultTolerance, nil
		}
		return 0, fmt.Errorf("conflict: tolerance lookup: %w", err)
	}
	var tolMap map[string]float64
	if len(rule.ToleranceMap) > 0 {
		if err := json.Unmarshal(rule.ToleranceMap, &tolMap); err != nil {
			return DefaultTolerance, nil
		}
	}
	if t, ok := tolMap[canonicalName]; ok {
		return t, nil
	}
	return DefaultTolerance, nil
}

// valuesEqual implements the type-aware equality rule: numeric compares
// within tolerance (|a-b| / max(|a|,|b|,epsilon) <= tolerance, threshold
// inclusive per spec.md §8's boundary behavior), everything else defers
// to specvalue.Value.EqualNonNumeric.
func valuesEqual(existing, next specvalue.Value, tolerance float64) bool {
	if existing.Kind != next.Kind {
		return false
	}
	if existing.Kind != specvalue.KindNumeric {
		return existing.EqualNonNumeric(next)
	}
	const epsilon = 1e-9
	denom := math.Max(math.Max(math.Abs(existing.Numeric), math.Abs(next.Numeric)), epsilon)
	diff := math.Abs(existing.Numeric-next.Numeric) / denom
	return diff <= tolerance
}

// isStrictlyNewer reports whether newRev is at least one full day after
// existingRev. A missing revision never beats a present one (Open
// Question decision #1, DESIGN.md); a tied or missing newRev never wins.
func isStrictlyNewer(newRev, existingRev string) bool {
	if newRev == "" {
		return false
	}
	if existingRev == "" {
		return true
	}
	newT, err1 := time.Parse("2006-01-02", newRev)
	exT, err2 := time.Parse("2006-01-02", existingRev)
	if err1 != nil || err2 != nil {
		return false
	}
	return newT.Sub(exT) >= 24*time.Hour
}

// Resolve transitions a pending conflict to a terminal state exactly
// once (spec.md §4.7/§8). resolvedValue is only meaningful for
// accept_new/manual_override.
func (e *Engine) Resolve(ctx context.Context, conflictID uuid.UUID, resolution ingestion.ConflictResolution, resolvedValue *specvalue.Value, resolvedBy string) (bool, error) {
	var raw []byte
	if resolvedValue != nil {
		b, err := resolvedValue.Marshal()
		if err != nil {
			return false, fmt.Errorf("conflict: marshal resolved value: %w", err)
		}
		raw = b
	}
	return e.conflictRepo.Resolve(dbctx.Context{Ctx: ctx}, conflictID, resolution, raw, resolvedBy)
}

func isNotFoundErr(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
