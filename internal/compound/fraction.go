// Package compound holds the pure parsers that turn free-text spec values
// into structured fields: door config, shelf config, temperature range,
// electrical, refrigerant, certifications, and fractional dimensions.
package compound

import (
	"regexp"
	"strconv"
	"strings"
)

var unicodeFractions = map[string]float64{
	"½": 0.5, "¼": 0.25, "¾": 0.75,
	"⅛": 0.125, "⅜": 0.375, "⅝": 0.625, "⅞": 0.875,
	"⅓": 0.333, "⅔": 0.667, "⅕": 0.2, "⅖": 0.4,
	"⅗": 0.6, "⅘": 0.8, "⅙": 0.167, "⅚": 0.833,
}

var (
	reWholeSlash = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	reSlash      = regexp.MustCompile(`^(\d+)/(\d+)$`)
	reLeadingNum = regexp.MustCompile(`^(\d+\.?\d*)`)
)

// ParseFraction parses dimension strings like "23 ¾", "48 5⁄8", "26 7/8"
// into a decimal. Returns (0, false) when the input doesn't match the
// parser's declared grammar; callers fall back to parse_failed=true text
// storage per spec.md §4.5.
func ParseFraction(text string) (float64, bool) {
	t := strings.TrimSpace(text)
	t = strings.TrimRight(t, `"'`)
	t = strings.TrimSpace(t)
	if t == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return v, true
	}

	for uf, val := range unicodeFractions {
		if strings.Contains(t, uf) {
			whole := strings.TrimSpace(strings.ReplaceAll(t, uf, ""))
			if whole == "" {
				return val, true
			}
			w, err := strconv.ParseFloat(whole, 64)
			if err != nil {
				return 0, false
			}
			return w + val, true
		}
	}

	t = strings.ReplaceAll(t, "⁄", "/")
	if m := reWholeSlash.FindStringSubmatch(t); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den == 0 {
			return 0, false
		}
		return whole + num/den, true
	}
	if m := reSlash.FindStringSubmatch(t); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return 0, false
		}
		return num / den, true
	}
	if m := reLeadingNum.FindStringSubmatch(t); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
