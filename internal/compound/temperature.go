package compound

import (
	"math"
	"regexp"
	"sort"
	"strconv"
)

var (
	reTempC = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*°?\s*C`)
	reTempF = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*°?\s*F`)
	reAnyNum = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	reMaxKeyword = regexp.MustCompile(`(?i)\bmax(?:imum)?\b`)
	reMinKeyword = regexp.MustCompile(`(?i)\bmin(?:imum)?\b`)
)

// TemperatureRange is the decoded result of ParseTemperatureRange.
type TemperatureRange struct {
	MinC *float64
	MaxC *float64
}

// ParseTemperatureRange parses strings like "1°C to 10°C",
// "-35°C to -15°C", or "36°F – 46°F (2°C – 8°C)". Celsius readings are
// preferred when both units appear in the same string; Fahrenheit-only
// input is converted and rounded to one decimal. A single bound (e.g.
// "Minimum 1°C") populates the bound the surrounding text names ("min"/
// "max"), defaulting to the minimum when neither keyword is present,
// and leaves the other nil.
func ParseTemperatureRange(text string) TemperatureRange {
	if text == "" {
		return TemperatureRange{}
	}

	if c := reTempC.FindAllStringSubmatch(text, -1); len(c) > 0 {
		vals := floatsOf(c)
		if len(vals) == 0 {
			return TemperatureRange{}
		}
		if len(vals) == 1 {
			return singleBound(vals[0], text)
		}
		sort.Float64s(vals)
		return bounds(vals[0], vals[len(vals)-1])
	}

	if f := reTempF.FindAllStringSubmatch(text, -1); len(f) > 0 {
		vals := floatsOf(f)
		if len(vals) == 0 {
			return TemperatureRange{}
		}
		for i, v := range vals {
			vals[i] = round1((v - 32) * 5 / 9)
		}
		if len(vals) == 1 {
			return singleBound(vals[0], text)
		}
		sort.Float64s(vals)
		return bounds(vals[0], vals[len(vals)-1])
	}

	if m := reAnyNum.FindAllString(text, -1); len(m) > 0 {
		vals := make([]float64, 0, len(m))
		for _, s := range m {
			v, err := strconv.ParseFloat(s, 64)
			if err == nil {
				vals = append(vals, v)
			}
		}
		if len(vals) == 1 {
			return singleBound(vals[0], text)
		}
		if len(vals) >= 2 {
			sort.Float64s(vals)
			return bounds(vals[0], vals[len(vals)-1])
		}
	}

	return TemperatureRange{}
}

// singleBound decides which bound a lone temperature reading fills in:
// text naming "max"/"maximum" fills MaxC, anything else (including a
// "min"/"minimum" label, and unlabeled readings) fills MinC, since an
// unlabeled single reading in this domain is most often a maintained
// minimum ("maintains -20°C").
func singleBound(v float64, text string) TemperatureRange {
	if reMaxKeyword.MatchString(text) && !reMinKeyword.MatchString(text) {
		h := v
		return TemperatureRange{MaxC: &h}
	}
	l := v
	return TemperatureRange{MinC: &l}
}

func floatsOf(matches [][]string) []float64 {
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			out = append(out, v)
		}
	}
	return out
}

func bounds(lo, hi float64) TemperatureRange {
	l, h := lo, hi
	return TemperatureRange{MinC: &l, MaxC: &h}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
