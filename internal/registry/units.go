package registry

import (
	"encoding/json"
	"fmt"
	"math"
)

// namedConversions is the fixed dispatch table for unit conversions that
// aren't a plain multiplicative factor (spec.md §4.6). Registry entries
// reference these by name in their unit_conversions map.
var namedConversions = map[string]func(float64) float64{
	"convert_f_to_c": func(f float64) float64 { return math.Round((f-32)*5/9*10) / 10 },
	"convert_c_to_f": func(c float64) float64 { return math.Round((c*9/5+32)*10) / 10 },
}

// Normalize converts an incoming numeric value in fromUnit to the
// Registry entry's canonical unit, using either a multiplicative factor
// or a named conversion function declared in unit_conversions. Returns
// the value unchanged if fromUnit already matches the canonical unit or
// no conversion is declared for it.
func (r *Registry) Normalize(canonicalName string, value float64, fromUnit string) (float64, error) {
	entry := r.Lookup(canonicalName)
	if entry == nil {
		return value, fmt.Errorf("registry: normalize: unknown canonical name %q", canonicalName)
	}
	if fromUnit == "" || fromUnit == entry.Unit {
		return value, nil
	}
	var conversions map[string]any
	if len(entry.UnitConversions) > 0 {
		if err := json.Unmarshal(entry.UnitConversions, &conversions); err != nil {
			return value, fmt.Errorf("registry: normalize %q: %w", canonicalName, err)
		}
	}
	raw, ok := conversions[fromUnit]
	if !ok {
		return value, nil
	}
	switch t := raw.(type) {
	case float64:
		return value * t, nil
	case string:
		fn, ok := namedConversions[t]
		if !ok {
			return value, fmt.Errorf("registry: normalize %q: unknown conversion function %q", canonicalName, t)
		}
		return fn(value), nil
	default:
		return value, fmt.Errorf("registry: normalize %q: unsupported conversion spec for unit %q", canonicalName, fromUnit)
	}
}
