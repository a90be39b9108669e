package recommend

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/specvalue"
)

func mustSpecs(t *testing.T, vals map[string]specvalue.Value) datatypes.JSON {
	t.Helper()
	out := map[string]json.RawMessage{}
	for k, v := range vals {
		b, err := v.Marshal()
		require.NoError(t, err)
		out[k] = b
	}
	b, err := json.Marshal(out)
	require.NoError(t, err)
	return datatypes.JSON(b)
}

func mustCerts(t *testing.T, certs ...string) datatypes.JSON {
	t.Helper()
	b, err := json.Marshal(certs)
	require.NoError(t, err)
	return datatypes.JSON(b)
}

func floatp(v float64) *float64 { return &v }

func newProduct(t *testing.T, superCategory catalog.FamilySuperCategory) *catalog.Product {
	t.Helper()
	return &catalog.Product{
		ID:          uuid.New(),
		ModelNumber: "PH-ABT-NSF-UCFS-0504",
		Family:      &catalog.Family{SuperCategory: superCategory},
	}
}

func TestFeatureScoreInsideBandIsPerfect(t *testing.T) {
	assert.Equal(t, 1.0, featureScore(1.0, 0, 1.5))
	assert.Equal(t, 1.0, featureScore(0, 0, 1.5))
	assert.Equal(t, 1.0, featureScore(1.5, 0, 1.5))
}

func TestFeatureScoreDecaysLinearlyToZeroAtTwiceBandWidth(t *testing.T) {
	// band [0,1.5], width 1.5; zero reached at 1.5 past the edge, i.e. value=3.0
	assert.InDelta(t, 0.5, featureScore(2.25, 0, 1.5), 1e-9)
	assert.Equal(t, 0.0, featureScore(3.0, 0, 1.5))
	assert.Equal(t, 0.0, featureScore(5.0, 0, 1.5))
}

func TestScoreProductHardFailOnMissingCertification(t *testing.T) {
	p := newProduct(t, catalog.SuperCategoryRefrigerator)
	p.TempRangeMinC = floatp(2.0)
	p.TempRangeMaxC = floatp(8.0)
	p.Certifications = mustCerts(t, "ETL")
	p.Specs = mustSpecs(t, map[string]specvalue.Value{"uniformity_c": specvalue.Num(1.0, "C")})

	profile := Profiles["vaccine_storage"]
	sc := ScoreProduct(p, profile, Constraints{}, nil)
	assert.False(t, sc.HardPass)
	assert.Contains(t, sc.MissingCerts, "NSF_ANSI_456")
	assert.Equal(t, 0.0, sc.Total)
}

func TestScoreProductPassesAndScoresVaccineStorage(t *testing.T) {
	p := newProduct(t, catalog.SuperCategoryRefrigerator)
	p.TempRangeMinC = floatp(2.0)
	p.TempRangeMaxC = floatp(8.0)
	p.Certifications = mustCerts(t, "NSF_ANSI_456", "ETL")
	p.Specs = mustSpecs(t, map[string]specvalue.Value{
		"uniformity_c":   specvalue.Num(0.8, "C"),
		"stability_c":    specvalue.Num(0.7, "C"),
		"noise_dba":      specvalue.Num(38, "dBA"),
		"energy_kwh_day": specvalue.Num(0.65, "kWh/day"),
	})

	profile := Profiles["vaccine_storage"]
	sc := ScoreProduct(p, profile, Constraints{}, nil)
	require.True(t, sc.HardPass)
	assert.Greater(t, sc.Total, 0.8)
	assert.Len(t, sc.Breakdown, 4)
}

func TestScoreProductMissingRequiredSoftSpecScoresZeroForThatFeature(t *testing.T) {
	p := newProduct(t, catalog.SuperCategoryRefrigerator)
	p.TempRangeMinC = floatp(2.0)
	p.TempRangeMaxC = floatp(8.0)
	p.Certifications = mustCerts(t, "NSF_ANSI_456")
	// uniformity_c (Required: true) is deliberately absent.
	p.Specs = mustSpecs(t, map[string]specvalue.Value{
		"stability_c": specvalue.Num(0.7, "C"),
	})

	profile := Profiles["vaccine_storage"]
	sc := ScoreProduct(p, profile, Constraints{}, nil)
	require.True(t, sc.HardPass)
	var uniformity SpecScore
	for _, b := range sc.Breakdown {
		if b.Spec == "uniformity_c" {
			uniformity = b
		}
	}
	assert.False(t, uniformity.HasValue)
	assert.Equal(t, 0.0, uniformity.FeatureScore)
}

func TestScoreProductHardFailsOnProductTypeMismatch(t *testing.T) {
	p := newProduct(t, catalog.SuperCategoryFreezer)
	profile := Profiles["vaccine_storage"]
	sc := ScoreProduct(p, profile, Constraints{}, nil)
	assert.False(t, sc.HardPass)
}

func TestRankScoresOrdersByTotalThenPriorityTieBreak(t *testing.T) {
	a := Score{Total: 0.7, PriorityValues: []float64{10}}
	b := Score{Total: 0.7, PriorityValues: []float64{20}}
	c := Score{Total: 0.9, PriorityValues: []float64{0}}
	scores := []Score{a, b, c}
	RankScores(scores)
	assert.Equal(t, 0.9, scores[0].Total)
	assert.Equal(t, 20.0, scores[1].PriorityValues[0])
	assert.Equal(t, 10.0, scores[2].PriorityValues[0])
}

func TestResolveUseCaseMatchesKeyword(t *testing.T) {
	p := ResolveUseCase("I need a lab refrigerator for vaccine storage")
	require.NotNil(t, p)
	assert.Equal(t, "vaccine_storage", p.Key)
}

func TestResolveUseCaseNoMatchReturnsNil(t *testing.T) {
	assert.Nil(t, ResolveUseCase("completely unrelated text about shipping"))
}
