// Package fieldmapper implements the Field Mapper (spec.md §4.4):
// extraction of key/value pairs from structured document text and
// mapping of a document's raw field labels onto canonical spec names.
package fieldmapper

import (
	"context"
	"regexp"
	"strings"

	"github.com/labcold/catalog/internal/registry"
)

// KVPair is one raw label/value pair pulled out of document text.
type KVPair struct {
	Key   string
	Value string
}

// fieldMap is transcribed verbatim from extraction-pipeline.py's
// FIELD_MAP: raw, lower-cased document labels to canonical spec names.
// This is the built-in seed table every deployment ships with; labels
// not found here fall through to the Spec Registry's synonym table and
// finally to auto-discovery (spec.md §4.6).
var fieldMap = map[string]string{
	"storage capacity (cu. ft)":            "storage_capacity_cuft",
	"storage capacity (cu. ft.)":           "storage_capacity_cuft",
	"storage capacity":                     "storage_capacity_cuft",
	"cu. ft":                                "storage_capacity_cuft",
	"door":                                  "door_config_raw",
	"int door":                              "interior_door",
	"shelves":                               "shelf_config_raw",
	"freezer compartments":                  "freezer_compartments",
	"drawers":                               "drawer_config_raw",
	"baskets":                               "baskets",
	"mounting":                              "mounting_type",
	"mounting and installation":             "mounting_type",
	"interior lighting":                     "interior_lighting",
	"airflow management":                    "airflow_type",
	"airflow":                               "airflow_type",
	"external probe access":                 "probe_access",
	"insulation":                            "insulation_type",
	"exterior materials":                    "exterior_material",
	"access control":                        "access_control",
	"general warranty":                      "warranty_general_raw",
	"compressor warranty":                   "warranty_compressor_raw",
	"compressor parts warranty":             "warranty_compressor_raw",
	"product weight (lbs)":                  "product_weight_lbs",
	"product weight":                        "product_weight_lbs",
	"shipping weight (lbs)":                 "shipping_weight_lbs",
	"shipping weight":                       "shipping_weight_lbs",
	"rated amperage":                        "amperage",
	"amps":                                  "amperage",
	"power plug/power cord":                 "plug_type_raw",
	"facility electrical requirement":       "electrical_raw",
	"agency listing and certification":      "certifications_raw",
	"compressor":                            "compressor_type",
	"refrigerant":                           "refrigerant_raw",
	"condenser":                             "condenser_type",
	"evaporator":                            "evaporator_type",
	"defrost":                               "defrost_type",
	"controller technology":                 "controller_type",
	"display technology":                    "display_type",
	"digital communication":                 "digital_comm",
	"data transfer":                         "data_transfer",
	"chart recorder":                        "chart_recorder",
	"adjustable temperature range":          "temp_range_raw",
	"temperature setpoint range":            "temp_range_raw",
	"external alarm connection":             "external_alarm",
	"alarms":                                "alarms_raw",
	"alarm management":                      "alarms_raw",
	"battery backup":                        "battery_backup",
	"calibration":                           "calibration",
	"disclaimers":                           "disclaimers",
	"warranty disclaimer":                   "disclaimers",
	"controller probe":                      "controller_probe",
	"simulator ballast":                     "simulator_ballast",
	"display probe":                         "display_probe",
	"noise pressure level (dba)":            "noise_dba",
	"uniformity (cabinet air)":              "uniformity_c",
	"uniformity¹ (cabinet air)":             "uniformity_c",
	"stability (cabinet air)":               "stability_c",
	"stability² (cabinet air)":              "stability_c",
	"maximum temperature variation":         "max_temp_variation_c",
	"energy consumption (kwh/day)":          "energy_kwh_day",
	"average heat rejection (btu/hr)":       "heat_rejection_btu_hr",
	"pull down time to nominal operating temp": "pulldown_time_min",
	"recovery after short door openings":    "recovery_notes",
	"recovery after 3 min door opening":      "recovery_notes",
	"data logging and reporting":            "data_logging_features",
	"real-time graphing":                    "realtime_graphing",
	"security and access":                   "security_features",
	"advanced controls":                     "advanced_controls",
	"visual and user interface":             "ui_features",
	"reliability and compliance":            "reliability_features",
	"included accessories":                  "included_accessories",
	"operational environment":               "operational_environment",
	"temperature setpoint range notes":      "temp_setpoint_notes",
}

// firstTenKeys is a stable, insertion-like key order used only by
// ExtractKVPairs' "key on one line, value on next" heuristic, which
// needs to test candidate keys against "the first ten FIELD_MAP keys"
// the way the Python source does (extraction-pipeline.py checks the
// next line doesn't itself start with one of the first 10 map keys, a
// heuristic against swallowing two consecutive labeled lines as a
// single pair). Go maps have no iteration order, so the ten keys are
// pinned explicitly here to reproduce that behavior deterministically.
var firstTenKeys = []string{
	"storage capacity (cu. ft)", "storage capacity (cu. ft.)", "storage capacity",
	"cu. ft", "door", "int door", "shelves", "freezer compartments",
	"drawers", "baskets",
}

var superscriptRe = regexp.MustCompile(`[¹²³⁴\*]+`)
var sameLineSplitRe = regexp.MustCompile(`\t+|\s{3,}`)

// ExtractKVPairs pulls (label, value) pairs out of structured document
// text, grounded line-for-line on extraction-pipeline.py's
// extract_kv_pairs: same-line tab/3+-space-separated pairs, and the
// key-on-one-line/value-on-next-line shape common in feature lists.
func ExtractKVPairs(text string) []KVPair {
	lines := strings.Split(text, "\n")
	var pairs []KVPair

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if parts := sameLineSplitRe.Split(line, 2); len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			if len(key) > 2 && val != "" {
				pairs = append(pairs, KVPair{Key: key, Value: val})
				continue
			}
		}

		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			keyLower := strings.ToLower(line)
			if _, ok := fieldMap[keyLower]; ok && next != "" && !startsWithAny(strings.ToLower(next), firstTenKeys) {
				pairs = append(pairs, KVPair{Key: line, Value: next})
				i++
				continue
			}
		}
	}
	return pairs
}

// MapFieldName maps a raw document field label to its canonical spec
// name using only the built-in seed table (no registry lookup),
// grounded on extraction-pipeline.py's map_field_name: case-fold,
// strip superscript/footnote markers and a trailing colon, exact
// lookup, then substring fuzzy match in either direction.
func MapFieldName(rawName string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(rawName))
	key = superscriptRe.ReplaceAllString(key, "")
	key = strings.TrimSpace(key)
	key = strings.TrimSuffix(key, ":")
	key = strings.TrimSpace(key)

	if canon, ok := fieldMap[key]; ok {
		return canon, true
	}
	for known, canon := range fieldMap {
		if strings.Contains(known, key) || strings.Contains(key, known) {
			return canon, true
		}
	}
	return "", false
}

// Mapper adds Spec Registry integration on top of the built-in table:
// a label the seed table and the registry's synonym table both miss is
// auto-discovered (spec.md §4.6), so it becomes queryable immediately
// and can be promoted by a curator later.
type Mapper struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Mapper {
	return &Mapper{reg: reg}
}

// Resolve maps a raw label to a canonical spec name, trying the
// built-in table, then the registry's synonym table, then registering
// a new auto-discovered entry as a last resort. autoDiscovered is true
// only on the last path.
func (m *Mapper) Resolve(ctx context.Context, rawLabel, sampleValue string) (canonical string, autoDiscovered bool, err error) {
	if canon, ok := MapFieldName(rawLabel); ok {
		return canon, false, nil
	}
	if canon, ok := m.reg.Resolve(rawLabel); ok {
		return canon, false, nil
	}
	entry, err := m.reg.RegisterAuto(ctx, rawLabel, sampleValue)
	if err != nil {
		return "", false, err
	}
	return entry.CanonicalName, true, nil
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
