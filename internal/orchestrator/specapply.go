package orchestrator

import (
	"strings"

	"github.com/labcold/catalog/internal/compound"
	"github.com/labcold/catalog/internal/specvalue"
)

// extractedSpec is one (canonical_name, value) pair pulled from a
// document, prior to being merged into a Mutation -- the Go analogue of
// ingestion-orchestrator.py's ExtractedSpec.
type extractedSpec struct {
	CanonicalName string
	Raw           string
	Value         specvalue.Value
	Confidence    float64
}

// fixedColumnNames mirrors ingestion-orchestrator.py's
// PRODUCT_FIXED_COLUMNS: canonical names that land on Product's own
// denormalized columns instead of the Specs jsonb map.
var fixedColumnNames = map[string]bool{
	"storage_capacity_cuft": true,
	"temp_range_min_c":      true,
	"temp_range_max_c":      true,
	"door_count":            true,
	"door_type":             true,
	"shelf_count":           true,
	"refrigerant":           true,
	"voltage_v":             true,
	"amperage":              true,
	"product_weight_lbs":    true,
	"ext_width_in":          true,
	"ext_depth_in":          true,
	"ext_height_in":         true,
}

// expandCompoundField fans a single compound raw label out into its
// component canonical specs, grounded line-for-line on
// extraction-pipeline.py's _post_process_specs dispatch over the
// `_raw`-suffixed canonical names emitted by the KV-pair scan (see
// fieldmapper.MapFieldName's `..._raw` synonym table entries).
func expandCompoundField(canonicalRaw, raw string) []extractedSpec {
	switch canonicalRaw {
	case "door_config_raw":
		d := compound.ParseDoorConfig(raw)
		var out []extractedSpec
		if d.DoorCount > 0 {
			out = append(out, extractedSpec{CanonicalName: "door_count", Raw: raw, Value: specvalue.Num(float64(d.DoorCount), ""), Confidence: 0.85})
		}
		if d.DoorType != "" {
			out = append(out, extractedSpec{CanonicalName: "door_type", Raw: raw, Value: specvalue.EnumVal(d.DoorType), Confidence: 0.85})
		}
		if d.DoorHinge != "" {
			out = append(out, extractedSpec{CanonicalName: "door_hinge", Raw: raw, Value: specvalue.EnumVal(d.DoorHinge), Confidence: 0.85})
		}
		if len(d.DoorFeatures) > 0 {
			out = append(out, extractedSpec{CanonicalName: "door_features", Raw: raw, Value: specvalue.ListVal(d.DoorFeatures), Confidence: 0.85})
		}
		return out

	case "shelf_config_raw":
		s := compound.ParseShelfConfig(raw)
		var out []extractedSpec
		if s.ShelfCount > 0 {
			out = append(out, extractedSpec{CanonicalName: "shelf_count", Raw: raw, Value: specvalue.Num(float64(s.ShelfCount), ""), Confidence: 0.85})
		}
		if s.ShelfType != "" {
			out = append(out, extractedSpec{CanonicalName: "shelf_type", Raw: raw, Value: specvalue.EnumVal(s.ShelfType), Confidence: 0.85})
		}
		if s.ShelfAdjustmentIncrement != "" {
			out = append(out, extractedSpec{CanonicalName: "shelf_adjustment_increment", Raw: raw, Value: specvalue.Txt(s.ShelfAdjustmentIncrement), Confidence: 0.85})
		}
		if len(s.ShelfFeatures) > 0 {
			out = append(out, extractedSpec{CanonicalName: "shelf_features", Raw: raw, Value: specvalue.ListVal(s.ShelfFeatures), Confidence: 0.85})
		}
		return out

	case "temp_range_raw":
		r := compound.ParseTemperatureRange(raw)
		var out []extractedSpec
		if r.MinC != nil {
			out = append(out, extractedSpec{CanonicalName: "temp_range_min_c", Raw: raw, Value: specvalue.Num(*r.MinC, "C"), Confidence: 0.9})
		}
		if r.MaxC != nil {
			out = append(out, extractedSpec{CanonicalName: "temp_range_max_c", Raw: raw, Value: specvalue.Num(*r.MaxC, "C"), Confidence: 0.9})
		}
		return out

	case "refrigerant_raw":
		if ref, ok := compound.ParseRefrigerant(raw); ok {
			return []extractedSpec{{CanonicalName: "refrigerant", Raw: raw, Value: specvalue.EnumVal(ref), Confidence: 0.9}}
		}
		return nil

	case "electrical_raw":
		e := compound.ParseElectrical(raw)
		var out []extractedSpec
		if e.VoltageV != nil {
			out = append(out, extractedSpec{CanonicalName: "voltage_v", Raw: raw, Value: specvalue.Num(float64(*e.VoltageV), "V"), Confidence: 0.9})
		}
		if e.FrequencyHz != nil {
			out = append(out, extractedSpec{CanonicalName: "frequency_hz", Raw: raw, Value: specvalue.Num(float64(*e.FrequencyHz), "Hz"), Confidence: 0.9})
		}
		if e.Amperage != nil {
			out = append(out, extractedSpec{CanonicalName: "amperage", Raw: raw, Value: specvalue.Num(*e.Amperage, "A"), Confidence: 0.9})
		}
		if e.Horsepower != "" {
			out = append(out, extractedSpec{CanonicalName: "horsepower", Raw: raw, Value: specvalue.Txt(e.Horsepower), Confidence: 0.8})
		}
		if e.Phase != nil {
			out = append(out, extractedSpec{CanonicalName: "phase", Raw: raw, Value: specvalue.Num(float64(*e.Phase), ""), Confidence: 0.9})
		}
		if e.PlugType != "" {
			out = append(out, extractedSpec{CanonicalName: "plug_type", Raw: raw, Value: specvalue.Txt(e.PlugType), Confidence: 0.85})
		}
		if e.BreakerAmps != nil {
			out = append(out, extractedSpec{CanonicalName: "breaker_amps", Raw: raw, Value: specvalue.Num(float64(*e.BreakerAmps), "A"), Confidence: 0.85})
		}
		return out

	case "certifications_raw":
		certs := compound.ParseCertifications(raw)
		if len(certs) == 0 {
			return nil
		}
		return []extractedSpec{{CanonicalName: "certifications", Raw: raw, Value: specvalue.ListVal(certs), Confidence: 0.9}}

	default:
		return nil
	}
}

// isCompoundRaw reports whether a canonical name is one of the `_raw`
// compound placeholders that expandCompoundField knows how to fan out,
// as opposed to a plain leaf spec that gets parsed directly.
func isCompoundRaw(canonical string) bool {
	return strings.HasSuffix(canonical, "_raw")
}

// parseLeafValue turns a plain (non-compound) raw string into a
// specvalue.Value using the same numeric-first heuristic
// extraction-pipeline.py applies to unmapped KV pairs: try a bare
// number (optionally with a fractional dimension suffix), then a
// boolean token, then fall back to free text.
func parseLeafValue(raw string) specvalue.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return specvalue.Txt(trimmed)
	}
	if v, ok := compound.ParseFraction(trimmed); ok {
		return specvalue.Num(v, "")
	}
	lower := strings.ToLower(trimmed)
	switch lower {
	case "yes", "true", "standard", "included":
		return specvalue.Bool(true)
	case "no", "false", "n/a", "none", "not included":
		return specvalue.Bool(false)
	}
	return specvalue.Txt(trimmed)
}
