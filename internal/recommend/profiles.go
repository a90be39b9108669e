// Package recommend implements the Recommendation Engine (spec.md
// §4.11): use-case profile resolution, hard-constraint filtering, and
// weighted soft scoring against target bands.
package recommend

import (
	"strings"

	"github.com/labcold/catalog/internal/pkg/pointers"
)

// SoftPreference is one scored spec within a use-case profile: weight
// w_i and the target band the scoring rule checks the stored value
// against (feature_i = 1.0 inside the band, decaying linearly to 0.0
// at twice the band width, per spec.md §4.11 step 2).
type SoftPreference struct {
	Spec      string  `json:"spec"`
	Weight    float64 `json:"weight"`
	TargetMin float64 `json:"target_min"`
	TargetMax float64 `json:"target_max"`
	// Required marks a profile-declared spec that scores 0.0 (not
	// simply omitted) when the product has no value for it.
	Required bool `json:"required"`
}

// HardConstraints are the binary pass/fail predicates a profile
// declares; a zero-value field is not checked.
type HardConstraints struct {
	ProductType   string   `json:"product_type,omitempty"`
	DoorType      string   `json:"door_type,omitempty"`
	TempRangeMinC *float64 `json:"temp_range_min_c,omitempty"`
	TempRangeMaxC *float64 `json:"temp_range_max_c,omitempty"`
	MaxHeightIn   *float64 `json:"max_height_in,omitempty"`
}

// Profile maps a use-case keyword to required/preferred specs and
// constraints, transcribed from recommendation-engine.py's
// USE_CASE_PROFILES.
type Profile struct {
	Key                    string           `json:"key"`
	Name                   string           `json:"name"`
	Description            string           `json:"description"`
	RequiredFamilies       []string         `json:"required_families,omitempty"`
	HardConstraints        HardConstraints  `json:"hard_constraints"`
	RequiredCertifications []string         `json:"required_certifications,omitempty"`
	SoftPreferences        []SoftPreference `json:"soft_preferences,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
}

// Profiles is keyed by the same use_case names the Python source uses,
// so existing callers ("vaccine_storage", "blood_bank", ...) resolve
// unchanged. Target bands for soft preferences are not present in the
// Python source (it only carries weights); they are derived from the
// typical-range commentary inline in recommendation-engine.py's
// score_product (e.g. uniformity "±1.0°C excellent, ±3.0°C poor",
// energy "0.5-3.0 kWh/day", noise "35-55 dBA") — see DESIGN.md.
var Profiles = map[string]*Profile{
	"vaccine_storage": {
		Key:         "vaccine_storage",
		Name:        "Vaccine Storage",
		Description: "CDC-compliant vaccine storage per VFC program requirements",
		RequiredFamilies: []string{"pharmacy_vaccine_ref", "pharmacy_nsf_ref"},
		HardConstraints: HardConstraints{
			ProductType:   "refrigerator",
			TempRangeMinC: pointers.Float64(2.0),
			TempRangeMaxC: pointers.Float64(8.0),
		},
		RequiredCertifications: []string{"NSF_ANSI_456"},
		// Literal example from spec.md §4.11: uniformity_c weight 0.25,
		// target band [0, 1.5].
		SoftPreferences: []SoftPreference{
			{Spec: "uniformity_c", Weight: 0.25, TargetMin: 0, TargetMax: 1.5, Required: true},
			{Spec: "stability_c", Weight: 0.25, TargetMin: 0, TargetMax: 1.5},
			{Spec: "noise_dba", Weight: 0.15, TargetMin: 35, TargetMax: 42},
			{Spec: "energy_kwh_day", Weight: 0.20, TargetMin: 0.5, TargetMax: 1.2},
		},
		Notes: "Must meet CDC Vaccine Storage & Handling Toolkit requirements. NSF/ANSI 456 certification required for VFC compliance.",
	},
	"pharmacy_general": {
		Key:         "pharmacy_general",
		Name:        "General Pharmacy Storage",
		Description: "Medication storage for retail/hospital pharmacy",
		RequiredFamilies: []string{"pharmacy_vaccine_ref", "pharmacy_nsf_ref", "premier_lab_ref"},
		HardConstraints: HardConstraints{
			ProductType:   "refrigerator",
			TempRangeMinC: pointers.Float64(2.0),
			TempRangeMaxC: pointers.Float64(8.0),
		},
		SoftPreferences: []SoftPreference{
			{Spec: "storage_capacity_cuft", Weight: 0.30, TargetMin: 10, TargetMax: 30},
			{Spec: "uniformity_c", Weight: 0.30, TargetMin: 0, TargetMax: 2.0},
			{Spec: "noise_dba", Weight: 0.20, TargetMin: 35, TargetMax: 45},
			{Spec: "energy_kwh_day", Weight: 0.20, TargetMin: 0.5, TargetMax: 1.5},
		},
	},
	"laboratory_general": {
		Key:         "laboratory_general",
		Name:        "General Laboratory Storage",
		Description: "Reagent, sample, and media storage for research labs",
		RequiredFamilies: []string{"premier_lab_ref", "standard_lab_ref", "chromatography_ref"},
		HardConstraints: HardConstraints{ProductType: "refrigerator"},
		SoftPreferences: []SoftPreference{
			{Spec: "storage_capacity_cuft", Weight: 0.35, TargetMin: 10, TargetMax: 35},
			{Spec: "uniformity_c", Weight: 0.30, TargetMin: 0, TargetMax: 2.0},
			{Spec: "energy_kwh_day", Weight: 0.20, TargetMin: 0.5, TargetMax: 1.5},
			{Spec: "shelf_count", Weight: 0.15, TargetMin: 3, TargetMax: 6},
		},
	},
	"chromatography": {
		Key:              "chromatography",
		Name:             "Chromatography Column Storage",
		Description:      "Storage for HPLC/FPLC columns requiring stable, uniform temps",
		RequiredFamilies: []string{"chromatography_ref"},
		HardConstraints:  HardConstraints{ProductType: "refrigerator", DoorType: "glass"},
		SoftPreferences: []SoftPreference{
			{Spec: "uniformity_c", Weight: 0.45, TargetMin: 0, TargetMax: 1.0, Required: true},
			{Spec: "stability_c", Weight: 0.35, TargetMin: 0, TargetMax: 1.0},
			{Spec: "storage_capacity_cuft", Weight: 0.20, TargetMin: 10, TargetMax: 26},
		},
		Notes: "Glass doors preferred for visual inventory without opening.",
	},
	"blood_bank": {
		Key:         "blood_bank",
		Name:        "Blood Bank Storage",
		Description: "FDA/AABB-compliant blood product storage at 1-6°C",
		RequiredFamilies: []string{"blood_bank_ref"},
		HardConstraints: HardConstraints{
			ProductType:   "refrigerator",
			TempRangeMinC: pointers.Float64(1.0),
			TempRangeMaxC: pointers.Float64(6.0),
		},
		RequiredCertifications: []string{"FDA", "AABB"},
		SoftPreferences: []SoftPreference{
			{Spec: "uniformity_c", Weight: 0.40, TargetMin: 0, TargetMax: 1.0, Required: true},
			{Spec: "stability_c", Weight: 0.35, TargetMin: 0, TargetMax: 1.0},
			{Spec: "storage_capacity_cuft", Weight: 0.25, TargetMin: 10, TargetMax: 30},
		},
		Notes: "Must meet 21 CFR Part 820 and AABB standards.",
	},
	"flammable_storage": {
		Key:              "flammable_storage",
		Name:             "Flammable Material Storage",
		Description:      "Storage of flammable solvents, reagents per NFPA 30/45",
		RequiredFamilies: []string{"flammable_storage_ref"},
		HardConstraints:  HardConstraints{ProductType: "refrigerator"},
		RequiredCertifications: []string{"NFPA_45"},
		SoftPreferences: []SoftPreference{
			{Spec: "storage_capacity_cuft", Weight: 0.65, TargetMin: 10, TargetMax: 33},
			{Spec: "energy_kwh_day", Weight: 0.35, TargetMin: 0.5, TargetMax: 1.5},
		},
		Notes: "Interior must be intrinsically safe / non-sparking.",
	},
	"sample_freezing": {
		Key:         "sample_freezing",
		Name:        "Laboratory Sample Freezing",
		Description: "General lab freezer for samples, enzymes, reagents",
		RequiredFamilies: []string{"manual_defrost_freezer", "auto_defrost_freezer", "precision_freezer"},
		HardConstraints: HardConstraints{ProductType: "freezer"},
		SoftPreferences: []SoftPreference{
			{Spec: "storage_capacity_cuft", Weight: 0.35, TargetMin: 10, TargetMax: 30},
			{Spec: "energy_kwh_day", Weight: 0.30, TargetMin: 1.0, TargetMax: 3.0},
			{Spec: "uniformity_c", Weight: 0.35, TargetMin: 0, TargetMax: 2.0},
		},
	},
	"plasma_storage": {
		Key:         "plasma_storage",
		Name:        "Plasma Freezing & Storage",
		Description: "Plasma storage at -30°C or below per FDA/AABB",
		RequiredFamilies: []string{"plasma_freezer", "precision_freezer"},
		HardConstraints: HardConstraints{
			ProductType:   "freezer",
			TempRangeMaxC: pointers.Float64(-30.0),
		},
		RequiredCertifications: []string{"FDA"},
		SoftPreferences: []SoftPreference{
			{Spec: "uniformity_c", Weight: 0.40, TargetMin: 0, TargetMax: 1.5, Required: true},
			{Spec: "stability_c", Weight: 0.35, TargetMin: 0, TargetMax: 1.5},
			{Spec: "storage_capacity_cuft", Weight: 0.25, TargetMin: 10, TargetMax: 30},
		},
	},
	"undercounter": {
		Key:         "undercounter",
		Name:        "Undercounter Installation",
		Description: "Compact units for built-in or under-bench installation",
		RequiredFamilies: []string{"pharmacy_nsf_ref", "pharmacy_vaccine_ref", "premier_lab_ref"},
		HardConstraints: HardConstraints{MaxHeightIn: pointers.Float64(36.0)},
		SoftPreferences: []SoftPreference{
			{Spec: "storage_capacity_cuft", Weight: 0.35, TargetMin: 3, TargetMax: 8},
			{Spec: "noise_dba", Weight: 0.35, TargetMin: 35, TargetMax: 42},
			{Spec: "energy_kwh_day", Weight: 0.30, TargetMin: 0.3, TargetMax: 0.8},
		},
		Notes: `Height must fit under standard 36" countertop.`,
	},
	"cryogenic_storage": {
		Key:              "cryogenic_storage",
		Name:             "Cryogenic / LN2 Storage",
		Description:      "Long-term storage in liquid nitrogen dewars",
		RequiredFamilies: []string{"cryo_dewar", "vapor_shipper", "cryo_freezer"},
		HardConstraints:  HardConstraints{ProductType: "cryogenic"},
		SoftPreferences: []SoftPreference{
			{Spec: "ln2_capacity_liters", Weight: 0.45, TargetMin: 20, TargetMax: 50},
			{Spec: "static_holding_time_days", Weight: 0.35, TargetMin: 90, TargetMax: 200},
			{Spec: "vial_capacity_2ml", Weight: 0.20, TargetMin: 1000, TargetMax: 10000},
		},
	},
	"energy_efficient": {
		Key:         "energy_efficient",
		Name:        "Energy Efficient",
		Description: "Prioritize low energy consumption and Energy Star certification",
		RequiredCertifications: []string{"Energy_Star"},
		SoftPreferences: []SoftPreference{
			{Spec: "energy_kwh_day", Weight: 0.55, TargetMin: 0.3, TargetMax: 0.8, Required: true},
			{Spec: "noise_dba", Weight: 0.25, TargetMin: 35, TargetMax: 42},
			{Spec: "storage_capacity_cuft", Weight: 0.20, TargetMin: 10, TargetMax: 33},
		},
	},
}

// keywordMap drives ResolveUseCase, transcribed from
// recommendation-engine.py's resolve_use_case.
var keywordMap = map[string]string{
	"vaccine": "vaccine_storage", "vfc": "vaccine_storage", "cdc": "vaccine_storage",
	"immunization": "vaccine_storage",
	"pharmacy":     "pharmacy_general", "medication": "pharmacy_general", "drug storage": "pharmacy_general",
	"chromatography": "chromatography", "hplc": "chromatography", "fplc": "chromatography", "column storage": "chromatography",
	"blood bank": "blood_bank", "blood product": "blood_bank", "transfusion": "blood_bank",
	"flammable": "flammable_storage", "solvent": "flammable_storage", "nfpa": "flammable_storage", "explosion": "flammable_storage",
	"freezer": "sample_freezing", "freeze": "sample_freezing", "frozen": "sample_freezing", "enzyme": "sample_freezing",
	"plasma":       "plasma_storage",
	"undercounter": "undercounter", "under counter": "undercounter", "built-in": "undercounter", "compact": "undercounter",
	"cryogenic": "cryogenic_storage", "liquid nitrogen": "cryogenic_storage", "ln2": "cryogenic_storage",
	"dewar": "cryogenic_storage", "vapor shipper": "cryogenic_storage",
	"energy": "energy_efficient", "energy star": "energy_efficient", "green": "energy_efficient",
	"lab": "laboratory_general", "laboratory": "laboratory_general", "reagent": "laboratory_general",
	"sample": "laboratory_general", "research": "laboratory_general",
}

// ResolveUseCase matches free-text to a profile by keyword scoring,
// breaking ties by the first keyword (in keywordMap's declared order)
// that reaches the winning score, mirroring Python dict max() which
// returns the first max found under insertion order.
func ResolveUseCase(text string) *Profile {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	t := strings.ToLower(text)
	scores := map[string]int{}
	order := []string{
		"vaccine", "vfc", "cdc", "immunization",
		"pharmacy", "medication", "drug storage",
		"chromatography", "hplc", "fplc", "column storage",
		"blood bank", "blood product", "transfusion",
		"flammable", "solvent", "nfpa", "explosion",
		"freezer", "freeze", "frozen", "enzyme",
		"plasma",
		"undercounter", "under counter", "built-in", "compact",
		"cryogenic", "liquid nitrogen", "ln2", "dewar", "vapor shipper",
		"energy", "energy star", "green",
		"lab", "laboratory", "reagent", "sample", "research",
	}
	for _, kw := range order {
		if strings.Contains(t, kw) {
			scores[keywordMap[kw]]++
		}
	}
	if len(scores) == 0 {
		return nil
	}
	var best string
	bestScore := -1
	for _, kw := range order {
		key := keywordMap[kw]
		if scores[key] > bestScore {
			bestScore = scores[key]
			best = key
		}
	}
	return Profiles[best]
}
