package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

// Constraints is the caller-supplied hard-filter object (spec.md
// §4.11's `constraints`); populated fields override the resolved
// profile's own defaults.
type Constraints struct {
	ProductType             string
	DoorType                string
	TempRangeMinC           *float64
	TempRangeMaxC           *float64
	MaxHeightIn             *float64
	CapacityMin             *float64
	CapacityMax             *float64
	CertificationsRequired  []string
	BrandCode               string
	FamilyCode              string
}

// Request is spec.md §6's Recommend shape: {use_case | use_case_text,
// constraints, max_results}.
type Request struct {
	UseCase     string
	UseCaseText string
	Constraints Constraints
	MaxResults  int
}

const defaultMaxResults = 5

// Response is the ranked recommendation list plus a diagnostic for the
// empty-result case (spec.md §4.11 step 1).
type Response struct {
	Profile     *Profile
	Diagnostic  string
	Products    []Score
	Alternates  []Score
}

// Engine is the Recommendation Engine (spec.md §4.11).
type Engine struct {
	products    catalogrepo.ProductRepo
	equivalence catalogrepo.EquivalenceRuleRepo
	log         *logger.Logger
}

func New(products catalogrepo.ProductRepo, equivalence catalogrepo.EquivalenceRuleRepo, baseLog *logger.Logger) *Engine {
	return &Engine{products: products, equivalence: equivalence, log: baseLog.With("component", "recommendation_engine")}
}

func (e *Engine) resolveProfile(req Request) *Profile {
	if req.UseCase != "" {
		if p, ok := Profiles[req.UseCase]; ok {
			return p
		}
		if p := ResolveUseCase(req.UseCase); p != nil {
			return p
		}
	}
	if req.UseCaseText != "" {
		return ResolveUseCase(req.UseCaseText)
	}
	return nil
}

// Recommend implements the full algorithm: hard-constraint filtering,
// weighted soft scoring, priority-spec tie-break, top-N with breakdown.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	profile := e.resolveProfile(req)
	resp := &Response{Profile: profile}

	filter := e.buildProductFilter(profile, req.Constraints)
	candidates, _, err := e.products.Filter(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, fmt.Errorf("recommend: candidate lookup: %w", err)
	}
	if len(candidates) == 0 {
		resp.Diagnostic = "no products match the specified criteria; try relaxing constraints"
		return resp, nil
	}

	var passing, failing []Score
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		priority := e.prioritySpecsFor(ctx, p.FamilyID)
		sc := ScoreProduct(p, profile, req.Constraints, priority)
		if sc.HardPass {
			passing = append(passing, sc)
		} else {
			failing = append(failing, sc)
		}
	}

	if len(passing) == 0 {
		resp.Diagnostic = "no products pass the hard constraints"
		RankScores(failing)
		if len(failing) > 3 {
			failing = failing[:3]
		}
		resp.Alternates = failing
		return resp, nil
	}

	RankScores(passing)

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > len(passing) {
		maxResults = len(passing)
	}
	resp.Products = passing[:maxResults]

	if len(resp.Products) < maxResults && len(failing) > 0 {
		RankScores(failing)
		if len(failing) > 3 {
			failing = failing[:3]
		}
		resp.Alternates = failing
	}

	return resp, nil
}

// buildProductFilter pushes down what a SQL predicate can cheaply
// express; anything a profile expresses that ProductFilter can't
// represent (multi-family required_families, temperature-overlap
// tolerance, product_type from the family's super_category) is left to
// ScoreProduct's in-memory hard-constraint phase.
func (e *Engine) buildProductFilter(profile *Profile, constraints Constraints) catalogrepo.ProductFilter {
	f := catalogrepo.ProductFilter{Status: catalog.ProductStatusActive, Limit: 500}

	doorType := constraints.DoorType
	if doorType == "" && profile != nil {
		doorType = profile.HardConstraints.DoorType
	}
	f.DoorType = doorType

	if constraints.BrandCode != "" {
		f.BrandCode = constraints.BrandCode
	}
	if constraints.FamilyCode != "" {
		f.FamilyCode = constraints.FamilyCode
	}
	if constraints.CapacityMin != nil {
		f.CapacityMin = constraints.CapacityMin
	}
	if constraints.CapacityMax != nil {
		f.CapacityMax = constraints.CapacityMax
	}

	certs := append([]string{}, constraints.CertificationsRequired...)
	if profile != nil {
		certs = append(certs, profile.RequiredCertifications...)
	}
	f.CertificationsAll = certs

	return f
}

// prioritySpecsFor resolves the matched Equivalence Rule's tiebreak
// ordering (spec.md §4.11 step 3). A missing rule just means no
// tiebreak vector — not an error, since not every family has one.
func (e *Engine) prioritySpecsFor(ctx context.Context, familyID uuid.UUID) []string {
	rule, err := e.equivalence.GetByFamilyID(dbctx.Context{Ctx: ctx}, familyID)
	if err != nil || rule == nil {
		return nil
	}
	var specs []string
	if err := json.Unmarshal(rule.PrioritySpecs, &specs); err != nil {
		return nil
	}
	return specs
}
