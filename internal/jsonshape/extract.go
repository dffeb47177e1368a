// File: internal/jsonshape/extract.go
package jsonshape

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// numberKeys is the ordered probe list for best-effort numeric extraction
// from an object of unknown shape.
var numberKeys = []string{
	"domain_score",
	"score",
	"overall_score",
	"value",
	"avg",
	"overall",
	"category_gpa",
	"gpa",
	"total_gpa",
}

// ratingKeys is the ordered probe list for per-control maturity ratings.
// "gpa" is deliberately absent: that is category-level, not control-level.
var ratingKeys = []string{
	"cmm_rating",
	"rating",
	"level",
	"score",
	"value",
	"current_maturity",
	"current_rating",
	"cmm",
	"maturity",
	"risk_level",
	"risk_rating",
}

// controlColumnsExact is matched case-insensitively against column names
// before any fuzzy matching happens.
var controlColumnsExact = []string{
	"control_ref",
	"control_reference",
	"control",
	"ref",
	"nist_control",
	"csf_control",
	"controlid",
	"control_id",
	"control_code",
	"controlcode",
	"controlkey",
	"control_key",
	"nist_ref",
	"nist_reference",
}

// ExtractNumber pulls a best-effort float out of an arbitrary payload:
// numbers directly, numeric strings parsed, objects probed against a fixed
// ordered key list. Returns nil when nothing converts. Never panics.
func ExtractNumber(v any) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		for _, k := range numberKeys {
			if f, ok := toFloat(val[k]); ok {
				return &f
			}
		}
		return nil
	default:
		if f, ok := toFloat(v); ok {
			return &f
		}
		return nil
	}
}

// ExtractRating probes a row for a maturity-like value. Values that do not
// parse directly are retried after stripping every rune outside [0-9.-],
// which tolerates inputs like "3.0 (ok)". This is a lossy heuristic ("3/4"
// collapses to 34) kept only at the API boundary.
func ExtractRating(row Row) *float64 {
	for _, k := range ratingKeys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return &f
		}
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, AsString(v))
		if cleaned == "" {
			continue
		}
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return &f
		}
	}
	return nil
}

// DetectControlRefColumn scans a table's column names for the one holding a
// control reference: exact candidates first (case-insensitive), then any
// column containing "control" together with ref/id/code/key.
func DetectControlRefColumn(t Table) (string, bool) {
	lower := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := lower[strings.ToLower(c)]; !dup {
			lower[strings.ToLower(c)] = c
		}
	}
	for _, cand := range controlColumnsExact {
		if orig, ok := lower[cand]; ok {
			return orig, true
		}
	}
	for _, c := range t.Columns {
		cl := strings.ToLower(c)
		if !strings.Contains(cl, "control") {
			continue
		}
		for _, marker := range []string{"ref", "id", "code", "key"} {
			if strings.Contains(cl, marker) {
				return c, true
			}
		}
	}
	return "", false
}

// toFloat converts scalar JSON values to float64. Strings are trimmed and
// parsed; booleans and composites are rejected.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// sortedKeys returns a row's keys in a stable order.
func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
