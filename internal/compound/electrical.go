package compound

import (
	"regexp"
	"strconv"
	"strings"
)

// Electrical is the decoded result of ParseElectrical. Fields are nil/zero
// when not present in the input; a range like "110-120V" populates Min/Max
// with VoltageV set to their midpoint in whole volts, rounded down.
type Electrical struct {
	VoltageV    *int
	VoltageMinV *int
	VoltageMaxV *int
	FrequencyHz *int
	Amperage    *float64
	Horsepower  string
	Phase       *int
	PlugType    string
	BreakerAmps *int
}

var (
	reVoltageRange = regexp.MustCompile(`(\d{2,3})\s*[-–to]+\s*(\d{2,3})\s*V`)
	reVoltage      = regexp.MustCompile(`(\d{2,3})\s*V`)
	reFrequency    = regexp.MustCompile(`(\d{2})\s*Hz`)
	reAmperage     = regexp.MustCompile(`(?i)([\d.]+)\s*amp`)
	reHorsepower   = regexp.MustCompile(`(?i)(\d+/\d+|\d+\.?\d*)\s*HP`)
	rePhase        = regexp.MustCompile(`(?i)(\d)\s*PH`)
	reNEMA         = regexp.MustCompile(`(?i)(NEMA[\s-]*\d+-\d+\w?)`)
	reBreaker      = regexp.MustCompile(`(?i)(\d+)\s*A?\s*breaker`)
)

// ParseElectrical parses compound electrical strings like
// "115V, 60 Hz, 3 Amps, 1/5 HP".
func ParseElectrical(text string) Electrical {
	var e Electrical
	if text == "" {
		return e
	}

	if m := reVoltageRange.FindStringSubmatch(text); m != nil {
		lo := atoiPtr(m[1])
		hi := atoiPtr(m[2])
		e.VoltageMinV, e.VoltageMaxV = lo, hi
		if lo != nil && hi != nil {
			mid := (*lo + *hi) / 2
			e.VoltageV = &mid
		}
	} else if m := reVoltage.FindStringSubmatch(text); m != nil {
		e.VoltageV = atoiPtr(m[1])
	}

	if m := reFrequency.FindStringSubmatch(text); m != nil {
		e.FrequencyHz = atoiPtr(m[1])
	}

	if m := reAmperage.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.Amperage = &v
		}
	}

	if m := reHorsepower.FindStringSubmatch(text); m != nil {
		e.Horsepower = m[1]
	}

	if m := rePhase.FindStringSubmatch(text); m != nil {
		e.Phase = atoiPtr(m[1])
	}

	if m := reNEMA.FindStringSubmatch(text); m != nil {
		e.PlugType = normalizePlug(m[1])
	}

	if m := reBreaker.FindStringSubmatch(text); m != nil {
		e.BreakerAmps = atoiPtr(m[1])
	}

	return e
}

func atoiPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func normalizePlug(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", "-"))
}
