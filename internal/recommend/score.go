package recommend

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/specvalue"
)

// SpecScore is one soft-preference's contribution to a product's total
// score, exposed so callers can render "why this was chosen".
type SpecScore struct {
	Spec         string  `json:"spec"`
	Weight       float64 `json:"weight"`
	Value        float64 `json:"value"`
	HasValue     bool    `json:"has_value"`
	FeatureScore float64 `json:"feature_score"`
	Contribution float64 `json:"contribution"`
}

// Score is the complete scoring result for one product against a
// profile plus explicit constraints.
type Score struct {
	Product        *catalog.Product `json:"-"`
	ProductID      string           `json:"product_id"`
	ModelNumber    string           `json:"model_number"`
	HardPass       bool             `json:"hard_pass"`
	FailReasons    []string         `json:"fail_reasons,omitempty"`
	Total          float64          `json:"total_score"`
	Breakdown      []SpecScore      `json:"breakdown"`
	MissingCerts   []string         `json:"missing_certifications,omitempty"`
	PriorityValues []float64        `json:"-"` // tie-break vector, priority_specs order
}

// featureScore implements spec.md §4.11 step 2: 1.0 inside [min,max],
// linear decay to 0.0 at a distance from the band equal to the band's
// own width (i.e. zero at twice the total band width), 0.0 beyond that.
func featureScore(value, min, max float64) float64 {
	if value >= min && value <= max {
		return 1.0
	}
	width := max - min
	if width <= 0 {
		width = 1.0
	}
	var dist float64
	if value < min {
		dist = min - value
	} else {
		dist = value - max
	}
	if dist >= width {
		return 0.0
	}
	return 1.0 - dist/width
}

// ScoreProduct scores one product against a profile and explicit
// constraints/preferences supplied by the caller, which take
// precedence over (are merged on top of) the profile's own defaults.
func ScoreProduct(product *catalog.Product, profile *Profile, constraints Constraints, prioritySpecs []string) Score {
	sc := Score{Product: product, ProductID: product.ID.String(), ModelNumber: product.ModelNumber, HardPass: true}

	hc := HardConstraints{}
	if profile != nil {
		hc = profile.HardConstraints
	}
	if constraints.ProductType != "" {
		hc.ProductType = constraints.ProductType
	}
	if constraints.DoorType != "" {
		hc.DoorType = constraints.DoorType
	}
	if constraints.TempRangeMinC != nil {
		hc.TempRangeMinC = constraints.TempRangeMinC
	}
	if constraints.TempRangeMaxC != nil {
		hc.TempRangeMaxC = constraints.TempRangeMaxC
	}
	if constraints.MaxHeightIn != nil {
		hc.MaxHeightIn = constraints.MaxHeightIn
	}

	requiredCerts := append([]string{}, constraints.CertificationsRequired...)
	if profile != nil {
		requiredCerts = append(requiredCerts, profile.RequiredCertifications...)
	}

	// --- Phase 1: hard constraints ---
	if hc.ProductType != "" {
		productType := ""
		if product.Family != nil {
			productType = string(product.Family.SuperCategory)
		}
		if productType != "" && !strings.EqualFold(productType, hc.ProductType) {
			sc.HardPass = false
			sc.FailReasons = append(sc.FailReasons, "product type mismatch")
		}
	}
	if hc.DoorType != "" && product.DoorType != "" && !strings.EqualFold(product.DoorType, hc.DoorType) {
		sc.HardPass = false
		sc.FailReasons = append(sc.FailReasons, "door type mismatch")
	}
	if hc.MaxHeightIn != nil && product.ExtHeightIn != nil && *product.ExtHeightIn > *hc.MaxHeightIn {
		sc.HardPass = false
		sc.FailReasons = append(sc.FailReasons, "exceeds max height")
	}
	// Temperature range must cover the requirement, matching the source's
	// 0.5C tolerance on both ends.
	if hc.TempRangeMinC != nil && product.TempRangeMinC != nil && *product.TempRangeMinC > *hc.TempRangeMinC+0.5 {
		sc.HardPass = false
		sc.FailReasons = append(sc.FailReasons, "minimum temperature too high")
	}
	if hc.TempRangeMaxC != nil && product.TempRangeMaxC != nil && *product.TempRangeMaxC < *hc.TempRangeMaxC-0.5 {
		sc.HardPass = false
		sc.FailReasons = append(sc.FailReasons, "maximum temperature too low")
	}
	if len(requiredCerts) > 0 {
		have := certSet(product.Certifications)
		for _, c := range requiredCerts {
			key := normalizeCert(c)
			if !have[key] {
				sc.MissingCerts = append(sc.MissingCerts, c)
			}
		}
		if len(sc.MissingCerts) > 0 {
			sc.HardPass = false
			sc.FailReasons = append(sc.FailReasons, "missing required certifications: "+strings.Join(sc.MissingCerts, ", "))
		}
	}

	if !sc.HardPass {
		return sc
	}

	// --- Phase 2: weighted soft scoring ---
	specs := decodeSpecs(product.Specs)
	var prefs []SoftPreference
	if profile != nil {
		prefs = profile.SoftPreferences
	}

	var totalWeight, weightedSum float64
	for _, pref := range prefs {
		val, ok := fixedOrSpecValue(product, specs, pref.Spec)
		ss := SpecScore{Spec: pref.Spec, Weight: pref.Weight, HasValue: ok}
		if !ok {
			if pref.Required {
				ss.FeatureScore = 0
				totalWeight += pref.Weight
			}
			sc.Breakdown = append(sc.Breakdown, ss)
			continue
		}
		ss.Value = val
		ss.FeatureScore = featureScore(val, pref.TargetMin, pref.TargetMax)
		ss.Contribution = ss.FeatureScore * pref.Weight
		weightedSum += ss.Contribution
		totalWeight += pref.Weight
		sc.Breakdown = append(sc.Breakdown, ss)
	}

	if totalWeight > 0 {
		sc.Total = weightedSum / totalWeight
	} else {
		sc.Total = 0.5
	}

	for _, spec := range prioritySpecs {
		val, ok := fixedOrSpecValue(product, specs, spec)
		if ok {
			sc.PriorityValues = append(sc.PriorityValues, val)
		} else {
			sc.PriorityValues = append(sc.PriorityValues, 0)
		}
	}

	return sc
}

// RankScores sorts passing scores by total descending, tie-breaking by
// each product's priority_specs vector in order (spec.md §4.11 step 3).
func RankScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Total != scores[j].Total {
			return scores[i].Total > scores[j].Total
		}
		for k := 0; k < len(scores[i].PriorityValues) && k < len(scores[j].PriorityValues); k++ {
			if scores[i].PriorityValues[k] != scores[j].PriorityValues[k] {
				return scores[i].PriorityValues[k] > scores[j].PriorityValues[k]
			}
		}
		return false
	})
}

func fixedOrSpecValue(product *catalog.Product, specs map[string]specvalue.Value, name string) (float64, bool) {
	switch name {
	case "storage_capacity_cuft":
		return derefFloat(product.StorageCapacityCuft)
	case "temp_range_min_c":
		return derefFloat(product.TempRangeMinC)
	case "temp_range_max_c":
		return derefFloat(product.TempRangeMaxC)
	case "voltage_v":
		return derefFloat(product.VoltageV)
	case "amperage":
		return derefFloat(product.Amperage)
	case "product_weight_lbs":
		return derefFloat(product.ProductWeightLbs)
	case "ext_width_in":
		return derefFloat(product.ExtWidthIn)
	case "ext_depth_in":
		return derefFloat(product.ExtDepthIn)
	case "ext_height_in":
		return derefFloat(product.ExtHeightIn)
	case "shelf_count":
		if product.ShelfCount == nil {
			break
		}
		return float64(*product.ShelfCount), true
	}
	v, ok := specs[name]
	if !ok || v.Kind != specvalue.KindNumeric {
		return 0, false
	}
	return v.Numeric, true
}

func derefFloat(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func decodeSpecs(raw []byte) map[string]specvalue.Value {
	out := map[string]specvalue.Value{}
	if len(raw) == 0 {
		return out
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return out
	}
	for k, r := range m {
		if v, err := specvalue.Unmarshal(r); err == nil {
			out[k] = v
		}
	}
	return out
}

func certSet(raw []byte) map[string]bool {
	out := map[string]bool{}
	if len(raw) == 0 {
		return out
	}
	var certs []string
	if err := json.Unmarshal(raw, &certs); err != nil {
		return out
	}
	for _, c := range certs {
		out[normalizeCert(c)] = true
	}
	return out
}

func normalizeCert(c string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(c), " ", "_"))
}
