// Package modelresolver implements the Model Resolver (spec.md §4.3):
// first-match-wins regex matching of a model number against a
// priority-ordered pattern table, inferring brand, family, product line,
// controller tier, capacity, and door type without touching the database.
package modelresolver

import (
	_ "embed"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/labcold/catalog/internal/domain/catalog"
)

// pattern is one row of the Model Pattern table, grounded line-for-line
// on ingestion-orchestrator.py's MODEL_FAMILY_PATTERNS: a compiled regex
// plus the metadata to emit on match. capacityGroup/doorGroup are regex
// submatch indices (1-based, 0 means "not present"); doorMap translates
// the matched door-code letter to a canonical door type.
type pattern struct {
	re              *regexp.Regexp
	brandCode       string
	familyCode      string
	productLine     string
	productType     catalog.FamilySuperCategory
	controllerTier  string
	capacityGroup   int
	doorGroup       int
	doorMap         map[string]string
	nsfAnsi456      bool
}

//go:embed patterns.yaml
var patternsYAML []byte

// patternSpec is patterns.yaml's row shape -- a raw regex source string
// instead of a compiled *regexp.Regexp, since YAML can't carry Go types.
type patternSpec struct {
	Regex          string                      `yaml:"regex"`
	BrandCode      string                      `yaml:"brand_code"`
	FamilyCode     string                      `yaml:"family_code"`
	ProductLine    string                      `yaml:"product_line"`
	ProductType    catalog.FamilySuperCategory `yaml:"product_type"`
	ControllerTier string                      `yaml:"controller_tier"`
	CapacityGroup  int                         `yaml:"capacity_group"`
	DoorGroup      int                         `yaml:"door_group"`
	DoorMap        map[string]string           `yaml:"door_map"`
	NSFAnsi456     bool                        `yaml:"nsf_ansi456"`
}

// patterns is priority-ordered: first match wins. Order matters only
// insofar as no two patterns in this table can both match the same
// model number (each brand's model-number grammar is unambiguous), but
// the order is kept identical to the Python source for traceability.
// Loaded once at init from the embedded patterns.yaml rather than a Go
// literal, so the table can be edited without a rebuild in principle
// and regex compilation errors surface immediately at startup.
var patterns = mustLoadPatterns()

func mustLoadPatterns() []pattern {
	var specs []patternSpec
	if err := yaml.Unmarshal(patternsYAML, &specs); err != nil {
		panic("modelresolver: invalid patterns.yaml: " + err.Error())
	}
	out := make([]pattern, len(specs))
	for i, s := range specs {
		out[i] = pattern{
			re:             regexp.MustCompile(s.Regex),
			brandCode:      s.BrandCode,
			familyCode:     s.FamilyCode,
			productLine:    s.ProductLine,
			productType:    s.ProductType,
			controllerTier: s.ControllerTier,
			capacityGroup:  s.CapacityGroup,
			doorGroup:      s.DoorGroup,
			doorMap:        s.DoorMap,
			nsfAnsi456:     s.NSFAnsi456,
		}
	}
	return out
}

// Resolution is the Model Resolver's output for one model number.
type Resolution struct {
	ModelNumber     string
	BrandCode       string
	FamilyCode      string
	ProductLine     string
	ProductType     catalog.FamilySuperCategory
	ControllerTier  string
	InferredCapacity *float64
	InferredDoorType string
	NSFAnsi456      bool
	MatchedPattern  string
}

// Resolve matches model against the pattern table, first match wins. The
// zero, false return means no pattern recognized the model number; per
// spec.md §4.3 this is not an error -- callers fall back to a
// lower-confidence path (e.g. leaving brand/family to be set manually or
// from the document's detected brand) rather than rejecting ingestion.
func Resolve(model string) (Resolution, bool) {
	model = strings.TrimSpace(model)
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(model)
		if m == nil {
			continue
		}

		res := Resolution{
			ModelNumber:    model,
			BrandCode:      p.brandCode,
			FamilyCode:     p.familyCode,
			ProductLine:    p.productLine,
			ProductType:    p.productType,
			ControllerTier: p.controllerTier,
			NSFAnsi456:     p.nsfAnsi456,
			MatchedPattern: p.re.String(),
		}
		if res.ProductType == "" {
			res.ProductType = catalog.SuperCategoryRefrigerator
		}

		if p.capacityGroup > 0 && p.capacityGroup < len(m) {
			if cap, err := strconv.ParseFloat(m[p.capacityGroup], 64); err == nil {
				res.InferredCapacity = &cap
			}
		}
		if p.doorGroup > 0 && p.doorGroup < len(m) {
			code := m[p.doorGroup]
			if dt, ok := p.doorMap[code]; ok {
				res.InferredDoorType = dt
			} else {
				res.InferredDoorType = strings.ToLower(code)
			}
		}
		return res, true
	}
	return Resolution{}, false
}

// candidatePatterns finds candidate model-number substrings embedded in
// free-running document text, grounded line-for-line on
// extraction-pipeline.py's MODEL_PATTERNS/extract_model_numbers -- unlike
// the anchored patterns table above (which matches a known, already
// isolated model number), these are deliberately loose since they scan a
// full page of prose.
var candidatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(ABT-HC-(?:CS-)?\d+[A-Z]?)`),
	regexp.MustCompile(`(PH-ABT-(?:HC|NSF)-[\w-]+)`),
	regexp.MustCompile(`(LHT-\d+-[A-Z]+)`),
	regexp.MustCompile(`(LPVT-\d+-[A-Z]+)`),
	regexp.MustCompile(`(LPH-\d+-[A-Z]+)`),
	regexp.MustCompile(`(NSBR\d+\w+/\d)`),
	regexp.MustCompile(`(CEL-[\w-]+)`),
	regexp.MustCompile(`(CP-[\w-]+)`),
	regexp.MustCompile(`\b(V-\d+)\b`),
	regexp.MustCompile(`\b(CM[\s-]*\d+(?:\s*[A-Z]+)?)\b`),
	regexp.MustCompile(`\b(VS[\s-]*\d+)\b`),
	regexp.MustCompile(`\b(BR-\d+-\w+)\b`),
	regexp.MustCompile(`(VTS-\d+-\w+)`),
	regexp.MustCompile(`(ABS\s+(?:RB|LLA)\d*)`),
}

// ExtractCandidates scans free text for substrings that look like model
// numbers, in document order, de-duplicated on first occurrence. It does
// not validate against the pattern table above -- that's Resolve's job --
// so a returned candidate may still fail to resolve to a known family.
func ExtractCandidates(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, re := range candidatePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			cand := strings.TrimSpace(m[1])
			if len(cand) <= 2 || seen[cand] {
				continue
			}
			seen[cand] = true
			out = append(out, cand)
		}
	}
	return out
}
