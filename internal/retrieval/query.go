// Package retrieval implements the Retrieval Engine (spec.md §4.10):
// query parsing, hybrid vector+lexical search fused by Reciprocal Rank
// Fusion, and token-budgeted context assembly.
package retrieval

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/labcold/catalog/internal/registry"
)

// Intent is the classified purpose of a user query.
type Intent string

const (
	IntentGeneral       Intent = "general"
	IntentSpecLookup    Intent = "spec_lookup"
	IntentComparison    Intent = "comparison"
	IntentRecommendation Intent = "recommendation"
	IntentCompliance    Intent = "compliance"
)

// ParsedQuery is the structured representation of a user query.
type ParsedQuery struct {
	Original      string
	Cleaned       string
	ModelNumbers  []string
	SpecMentions  []string
	BrandMentions []string
	CertMentions  []string
	FamilyHints   []string
	Intent        Intent
	ExpandedTerms []string
}

// modelNumberPatterns are grounded line-for-line on
// rag-retrieval.py's _MODEL_PATTERNS.
var modelNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ABT-HC-(?:CS-)?\d+[A-Z]?)`),
	regexp.MustCompile(`(?i)(PH-ABT-(?:HC|NSF)-[\w-]+)`),
	regexp.MustCompile(`(?i)(LHT-\d+-[A-Z]+)`),
	regexp.MustCompile(`(?i)(LPVT-\d+-[A-Z]+)`),
	regexp.MustCompile(`(?i)(NSBR\d+\w+/\d)`),
	regexp.MustCompile(`(?i)(CEL-[\w-]+)`),
	regexp.MustCompile(`(?i)(CP-[\w-]+)`),
}

// specSynonyms is transcribed from rag-retrieval.py's _SPEC_SYNONYMS:
// the built-in query-expansion vocabulary layered on top of the Spec
// Registry's own curated synonym table (a query can mention either).
var specSynonyms = map[string][]string{
	"storage_capacity_cuft": {
		"capacity", "volume", "cubic feet", "cu ft", "cu. ft", "size",
		"how big", "how much space", "storage space",
	},
	"temp_range_min_c": {
		"minimum temperature", "lowest temp", "coldest", "min temp",
		"how cold", "temperature range",
	},
	"temp_range_max_c": {
		"maximum temperature", "highest temp", "warmest", "max temp",
	},
	"uniformity_c": {
		"uniformity", "temperature uniformity", "temp uniformity",
		"even temperature", "consistent temp",
	},
	"stability_c": {
		"stability", "temperature stability", "temp stability",
		"temperature fluctuation",
	},
	"energy_kwh_day": {
		"energy", "power consumption", "energy consumption",
		"electricity", "kwh", "energy efficient", "running cost",
	},
	"noise_dba": {
		"noise", "sound", "decibel", "dba", "how loud", "quiet",
	},
	"refrigerant": {
		"refrigerant", "r290", "r600a", "r134a", "hydrocarbon",
		"natural refrigerant", "gas type",
	},
	"certifications": {
		"certification", "certified", "listed", "etl", "ul",
		"energy star", "nsf", "fda", "aabb", "nfpa",
	},
	"door_type": {
		"door", "solid door", "glass door", "sliding door",
	},
	"defrost_type": {
		"defrost", "manual defrost", "auto defrost", "cycle defrost",
		"frost free",
	},
	"ext_width_in":        {"width", "wide", "how wide"},
	"ext_depth_in":        {"depth", "deep", "how deep"},
	"ext_height_in":       {"height", "tall", "how tall"},
	"product_weight_lbs":  {"weight", "heavy", "how heavy", "lbs"},
	"amperage":            {"amps", "amperage", "current draw", "electrical"},
	"voltage_v":           {"voltage", "volts", "115v", "220v"},
	"shelf_count":         {"shelves", "shelf", "how many shelves"},
	"pulldown_time_min":   {"pulldown", "pull down", "cool down time"},
	"warranty_general_years": {"warranty", "guarantee"},
}

// brandPatterns is transcribed from rag-retrieval.py's _BRAND_PATTERNS.
var brandPatterns = map[string][]*regexp.Regexp{
	"ABS":       {regexp.MustCompile(`(?i)\bABS\b`), regexp.MustCompile(`(?i)American\s*Bio\s*Tech`)},
	"LABRepCo":  {regexp.MustCompile(`(?i)LABRepCo`), regexp.MustCompile(`(?i)Lab\s*Rep\s*Co`)},
	"Corepoint": {regexp.MustCompile(`(?i)Corepoint`)},
	"Celsius":   {regexp.MustCompile(`(?i)Celsius\s*Scientific`), regexp.MustCompile(`(?i)°celsius`)},
	"CBS":       {regexp.MustCompile(`(?i)\bCBS\b`), regexp.MustCompile(`(?i)CryoSafe`)},
}

// certPatterns is transcribed from rag-retrieval.py's cert_pats.
var certPatterns = map[string][]*regexp.Regexp{
	"NSF_ANSI_456": {regexp.MustCompile(`(?i)nsf\s*/?ansi\s*456`), regexp.MustCompile(`(?i)nsf\s*456`)},
	"Energy_Star":  {regexp.MustCompile(`(?i)energy\s*star`)},
	"ETL":          {regexp.MustCompile(`(?i)\betl\b`)},
	"FDA":          {regexp.MustCompile(`(?i)\bfda\b`)},
	"AABB":         {regexp.MustCompile(`(?i)\baabb\b`)},
	"NFPA_45":      {regexp.MustCompile(`(?i)nfpa\s*45`)},
	"EPA_SNAP":     {regexp.MustCompile(`(?i)epa\s*snap`)},
}

// familyKeywords is transcribed from rag-retrieval.py's family_kw.
var familyKeywords = map[string][]string{
	"premier_lab_ref":       {"premier", "lab refrigerator"},
	"pharmacy_vaccine_ref":  {"pharmacy", "vaccine"},
	"pharmacy_nsf_ref":      {"nsf", "vaccine storage"},
	"chromatography_ref":    {"chromatography", "hplc", "column"},
	"blood_bank_ref":        {"blood bank", "blood product"},
	"flammable_storage_ref": {"flammable", "solvent"},
	"manual_defrost_freezer": {"manual defrost", "freezer"},
	"auto_defrost_freezer":  {"auto defrost", "frost free"},
	"cryo_dewar":            {"dewar", "cryogenic", "liquid nitrogen"},
}

// intentKeywords is transcribed from rag-retrieval.py's
// _INTENT_KEYWORDS, with 'recommend'/'compare' renamed to this repo's
// Intent constants (recommendation/comparison) for clarity.
var intentKeywords = map[Intent][]string{
	IntentSpecLookup: {
		"what is", "what are", "tell me", "specs", "specifications",
		"data sheet", "spec sheet", "features",
	},
	IntentComparison: {
		"compare", "versus", "vs", "difference", "better",
		"which one", "or",
	},
	"troubleshoot": {
		"alarm", "error", "problem", "issue", "not working",
		"temperature too", "won't cool", "beeping",
	},
	IntentRecommendation: {
		"recommend", "suggest", "need", "looking for", "best",
		"which", "what should", "help me choose",
	},
	IntentCompliance: {
		"comply", "compliance", "regulation", "cdc", "fda",
		"nsf", "nfpa", "aabb", "requirements",
	},
}

// ParseQuery implements parse_query (spec.md §4.10 step 1): detects
// model numbers, brands, spec mentions (built-in synonyms plus the
// live Spec Registry's curated synonyms when reg is non-nil),
// certifications, family hints, and classifies intent.
func ParseQuery(query string, reg *registry.Registry) ParsedQuery {
	pq := ParsedQuery{Original: query, Cleaned: strings.TrimSpace(query), Intent: IntentGeneral}
	q := strings.ToLower(query)

	for _, re := range modelNumberPatterns {
		for _, m := range re.FindAllStringSubmatch(query, -1) {
			pq.ModelNumbers = append(pq.ModelNumbers, m[1])
		}
	}

	for brand, pats := range brandPatterns {
		for _, pat := range pats {
			if pat.MatchString(query) {
				pq.BrandMentions = append(pq.BrandMentions, brand)
				break
			}
		}
	}
	sort.Strings(pq.BrandMentions)

	seenSpec := map[string]bool{}
	for canon, syns := range specSynonyms {
		for _, syn := range syns {
			if strings.Contains(q, syn) {
				if !seenSpec[canon] {
					pq.SpecMentions = append(pq.SpecMentions, canon)
					seenSpec[canon] = true
				}
				break
			}
		}
	}
	if reg != nil {
		// Registry-curated synonyms are resolved the same way the Field
		// Mapper resolves document labels: Resolve() is a synonym ->
		// canonical_name lookup keyed by normalized text, so each word
		// n-gram in the query is tried directly.
		for _, word := range queryNGrams(q) {
			if canon, ok := reg.Resolve(word); ok && !seenSpec[canon] {
				pq.SpecMentions = append(pq.SpecMentions, canon)
				seenSpec[canon] = true
			}
		}
	}
	sort.Strings(pq.SpecMentions)

	seenCert := map[string]bool{}
	for cert, pats := range certPatterns {
		for _, pat := range pats {
			if pat.MatchString(q) {
				if !seenCert[cert] {
					pq.CertMentions = append(pq.CertMentions, cert)
					seenCert[cert] = true
				}
				break
			}
		}
	}
	sort.Strings(pq.CertMentions)

	seenFam := map[string]bool{}
	for fam, kws := range familyKeywords {
		for _, kw := range kws {
			if strings.Contains(q, kw) {
				if !seenFam[fam] {
					pq.FamilyHints = append(pq.FamilyHints, fam)
					seenFam[fam] = true
				}
				break
			}
		}
	}
	sort.Strings(pq.FamilyHints)

	pq.Intent = classifyIntent(q, pq.ModelNumbers)

	expanded := map[string]bool{}
	for _, spec := range pq.SpecMentions {
		syns := specSynonyms[spec]
		for i, s := range syns {
			if i >= 3 {
				break
			}
			expanded[s] = true
		}
	}
	for term := range expanded {
		pq.ExpandedTerms = append(pq.ExpandedTerms, term)
	}
	sort.Strings(pq.ExpandedTerms)

	return pq
}

func classifyIntent(q string, modelNumbers []string) Intent {
	// Keywords match only at the start of a word, so "or" does not
	// count inside "storage".
	words := " " + strings.Join(strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}), " ")
	scores := map[Intent]int{}
	for intent, kws := range intentKeywords {
		for _, kw := range kws {
			if strings.Contains(words, " "+kw) {
				scores[intent]++
			}
		}
	}
	var best Intent
	bestScore := 0
	// Deterministic tie-break: iterate a fixed order so equal scores
	// always resolve the same way regardless of map iteration order.
	for _, intent := range []Intent{IntentSpecLookup, IntentComparison, "troubleshoot", IntentRecommendation, IntentCompliance} {
		if scores[intent] > bestScore {
			bestScore = scores[intent]
			best = intent
		}
	}
	if bestScore > 0 {
		return best
	}
	if len(modelNumbers) > 0 {
		return IntentSpecLookup
	}
	return IntentGeneral
}

// queryNGrams returns 1..3-word windows of q, used to probe the
// registry's synonym table for multi-word synonyms without requiring
// a full NLP tokenizer.
func queryNGrams(q string) []string {
	words := strings.Fields(q)
	var out []string
	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(words); i++ {
			out = append(out, strings.Join(words[i:i+n], " "))
		}
	}
	return out
}
