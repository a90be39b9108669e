package compound

import (
	"regexp"
	"strings"
)

type certPattern struct {
	re   *regexp.Regexp
	code string
}

// certPatterns is checked in order; the order determines the output
// order of ParseCertifications (first match per code wins, duplicates
// dropped). Codes match spec.md §4.5's literal spelling; the FDA/AABB/CE/
// NFPA/21CFR entries are supplemented from original_source/pydantic-models.py,
// which recognizes a superset of certification markers spec.md only samples.
var certPatterns = []certPattern{
	{regexp.MustCompile(`C-?ETL`), "C-ETL"},
	{regexp.MustCompile(`ETL`), "ETL"},
	{regexp.MustCompile(`UL\s*471\b`), "UL471"},
	{regexp.MustCompile(`UL[\s_]*60335(-1)?`), "UL_60335-1"},
	{regexp.MustCompile(`CSA[\s_]*C22\.?2[\s_]*(NO\.?\s*120)?`), "CSA_C22.2_No120"},
	{regexp.MustCompile(`ENERGY\s*STAR`), "Energy_Star"},
	{regexp.MustCompile(`NSF[\s/_]*ANSI\s*456`), "NSF/ANSI 456"},
	{regexp.MustCompile(`EPA\s*SNAP`), "EPA_SNAP"},
	{regexp.MustCompile(`FDA`), "FDA"},
	{regexp.MustCompile(`AABB`), "AABB"},
	{regexp.MustCompile(`CE\b`), "CE"},
	{regexp.MustCompile(`21\s*CFR`), "21CFR_820"},
	{regexp.MustCompile(`NFPA\s*45\b`), "NFPA_45"},
	{regexp.MustCompile(`NFPA\s*30\b`), "NFPA_30"},
}

// ParseCertifications splits on ',' and '/' conceptually by scanning the
// whole string for known certification tokens (matching across separators
// is necessary since some codes themselves contain '/', e.g. "NSF/ANSI
// 456"); output is a de-duplicated list in pattern-priority order.
func ParseCertifications(text string) []string {
	if text == "" {
		return nil
	}
	t := strings.ToUpper(text)
	seen := make(map[string]bool, len(certPatterns))
	var out []string
	for _, p := range certPatterns {
		if seen[p.code] {
			continue
		}
		if p.re.MatchString(t) {
			out = append(out, p.code)
			seen[p.code] = true
		}
	}
	return out
}
