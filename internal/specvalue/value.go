// Package specvalue defines the tagged-variant value stored under a
// product's specs map, replacing the source's free-form string->any
// dictionary with an explicit sum type keyed by the Registry's declared
// data type at write time (spec.md §9).
package specvalue

import (
	"encoding/json"
	"strings"
)

type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
	KindRange   Kind = "range"
	KindList    Kind = "list"
)

// Value is the canonical representation of one spec's stored value.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind `json:"kind"`

	Numeric   float64  `json:"numeric,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Text      string   `json:"text,omitempty"`
	Boolean   bool     `json:"boolean,omitempty"`
	Enum      string   `json:"enum,omitempty"`
	RangeMin  float64  `json:"range_min,omitempty"`
	RangeMax  float64  `json:"range_max,omitempty"`
	List      []string `json:"list,omitempty"`

	// ParseFailed marks a value that a Compound Parser could not fit to
	// its declared grammar; the Conflict Engine treats it as Kind text
	// regardless of the Registry's declared data_type (spec.md §4.5).
	ParseFailed bool `json:"parse_failed,omitempty"`
}

func Num(v float64, unit string) Value { return Value{Kind: KindNumeric, Numeric: v, Unit: unit} }
func Txt(v string) Value               { return Value{Kind: KindText, Text: v} }
func Bool(v bool) Value                { return Value{Kind: KindBoolean, Boolean: v} }
func EnumVal(v string) Value           { return Value{Kind: KindEnum, Enum: v} }
func Rng(min, max float64) Value       { return Value{Kind: KindRange, RangeMin: min, RangeMax: max} }
func ListVal(v []string) Value         { return Value{Kind: KindList, List: v} }

// Failed wraps a raw string that a parser could not fit to its grammar.
func Failed(raw string) Value {
	return Value{Kind: KindText, Text: raw, ParseFailed: true}
}

// EqualNonNumeric implements the non-numeric cases of the Conflict
// Engine's type-aware equality rule (spec.md §4.7): text and enum compare
// case-folded, list/set compares as a multiset, boolean compares directly.
// Numeric and range values always compare unequal here; numeric
// tolerance comparison lives in internal/conflict since it needs the
// per-spec tolerance parameter.
func (v Value) EqualNonNumeric(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindText, KindEnum:
		return strings.EqualFold(textOf(v), textOf(other))
	case KindBoolean:
		return v.Boolean == other.Boolean
	case KindList:
		return multisetEqual(v.List, other.List)
	default:
		return false
	}
}

func textOf(v Value) string {
	if v.Kind == KindEnum {
		return v.Enum
	}
	return v.Text
}

func multisetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// Marshal/Unmarshal round-trip through the jsonb specs column.
func (v Value) Marshal() ([]byte, error) { return json.Marshal(v) }

func Unmarshal(b []byte) (Value, error) {
	var v Value
	err := json.Unmarshal(b, &v)
	return v, err
}
