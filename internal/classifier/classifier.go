// Package classifier implements the Document Classifier (spec.md §4.2):
// rule-based doc_type/brand_code/revision extraction over case-insensitive
// text markers.
package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labcold/catalog/internal/domain/ingestion"
)

// Result is the Document Classifier's output.
type Result struct {
	DocType    ingestion.DocType
	BrandCode  string // empty when undetected
	Revision   string // ISO date (YYYY-MM-DD), empty when undetected
}

// brandPatterns is grounded line-for-line on extraction-pipeline.py's
// BRAND_PATTERNS: first match wins, order matters (CBS's CryoSafe/
// CryoMizer/CryoPro markers must come after the more specific brands so a
// document mentioning both a brand name and a cryogenic product line
// still resolves to the named brand).
var brandPatterns = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`(?i)american\s*bio\s*tech\s*supply|(?:^|\W)ABS(?:\W|$)`), "ABS"},
	{regexp.MustCompile(`(?i)labrepco|lab\s*rep\s*co`), "LABRepCo"},
	{regexp.MustCompile(`(?i)corepoint\s*scientific|corepoint`), "Corepoint"},
	{regexp.MustCompile(`(?i)celsius\s*scientific|°celsius|cel-`), "Celsius"},
	{regexp.MustCompile(`(?i)cryosafe|cryomizer|cryopro|(?:^|\W)cbs(?:\W|$)`), "CBS"},
}

// performanceMarkers/structuredSections/cryoMarkers are the priority-order
// text markers from spec.md §4.2 / extraction-pipeline.py's
// classify_document.
var performanceMarkers = []string{"TEMPERATURE PROBES", "UNIFORMITY", "STABILITY", "PROBE LOCATIONS"}
var structuredSections = []string{"GENERAL DESCRIPTION", "REFRIGERATION SYSTEM", "CONTROLLER", "DIMENSIONS", "CERTIFICATIONS"}
var cryoMarkers = []string{"LIQUID NITROGEN", "CRYOGENIC", "CRYOMIZER", "VAPOR SHIPPER", "DEWAR", "VIAL CAPACITY"}
var dimensionalMarkers = []string{"EXTERIOR DIMENSIONS", "INTERIOR DIMENSIONS", "OVERALL DIMENSIONS", "CRATED DIMENSIONS"}

// revisionRe matches spec.md §4.2's literal grammar:
// Rev[_\s-]?MM[.\-/]DD[.\-/]YY(YY)?
var revisionRe = regexp.MustCompile(`(?i)Rev[_\s-]?(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4}|\d{2})`)

// Classify applies the deterministic priority rules of spec.md §4.2.
func Classify(text, filename string) Result {
	head := text
	if len(head) > 2000 {
		head = head[:2000]
	}
	upperHead := strings.ToUpper(head)
	upperName := strings.ToUpper(filename)

	return Result{
		DocType:   classifyDocType(upperHead, upperName, text),
		BrandCode: detectBrand(text),
		Revision:  extractRevision(text),
	}
}

func classifyDocType(upperHead, upperName, fullText string) ingestion.DocType {
	if containsAny(upperHead, "CUTSHEET", "CUT SHEET") || containsAny(upperName, "CUTSHEET") {
		return ingestion.DocTypeCutSheet
	}

	if strings.Contains(upperHead, "PRODUCT DATA SHEET") || strings.Contains(upperName, "PRODUCT_DATA_SHEET") {
		if containsAny(upperHead, performanceMarkers...) {
			return ingestion.DocTypePerformanceDataSheet
		}
		return ingestion.DocTypeProductDataSheet
	}

	if strings.Contains(upperHead, "PRODUCT NAME:") && strings.Count(fullText, "\n") < 60 {
		return ingestion.DocTypeFeatureList
	}

	if countMatches(upperHead, structuredSections...) >= 3 {
		return ingestion.DocTypeProductDataSheet
	}

	if containsAny(upperHead, cryoMarkers...) {
		return ingestion.DocTypeFeatureList
	}

	if containsAny(upperHead, performanceMarkers...) {
		return ingestion.DocTypePerformanceDataSheet
	}

	if containsAny(upperHead, dimensionalMarkers...) && countMatches(upperHead, structuredSections...) == 0 {
		return ingestion.DocTypeDimensionalDrawing
	}

	return ingestion.DocTypeOther
}

func detectBrand(text string) string {
	for _, bp := range brandPatterns {
		if bp.re.MatchString(text) {
			return bp.code
		}
	}
	return ""
}

// extractRevision finds the earliest Rev marker and normalizes it to an
// ISO date. Two-digit years are disambiguated by proximity to the
// current year: assume the current century unless that would place the
// date more than 5 years in the future, in which case assume the prior
// century (documents are historical records, never dated years ahead).
func extractRevision(text string) string {
	m := revisionRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	month, err1 := strconv.Atoi(m[1])
	day, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}

	year, err := strconv.Atoi(m[3])
	if err != nil {
		return ""
	}
	if len(m[3]) == 2 {
		year = disambiguateCentury(year)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Format("2006-01-02")
}

func disambiguateCentury(twoDigitYear int) int {
	now := time.Now().UTC()
	currentCentury := (now.Year() / 100) * 100
	candidate := currentCentury + twoDigitYear
	if candidate > now.Year()+5 {
		candidate -= 100
	}
	return candidate
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func countMatches(haystack string, needles ...string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			n++
		}
	}
	return n
}
