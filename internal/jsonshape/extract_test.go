// File: internal/jsonshape/extract_test.go
package jsonshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestExtractNumber(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    any
		expected *float64
	}{
		{"nil", nil, nil},
		{"float", 5.33, floatPtr(5.33)},
		{"int", 4, floatPtr(4)},
		{"numeric string", "3.5", floatPtr(3.5)},
		{"padded numeric string", "  3.5 ", floatPtr(3.5)},
		{"non-numeric string", "not a number", nil},
		{"bool rejected", true, nil},
		{"object with gpa string", map[string]any{"gpa": "3.5"}, floatPtr(3.5)},
		{"object with unrelated keys", map[string]any{"unrelated": float64(9)}, nil},
		{"probe order prefers domain_score", map[string]any{"score": float64(2), "domain_score": float64(1)}, floatPtr(1)},
		{"probe skips unconvertible and continues", map[string]any{"domain_score": "n/a", "score": float64(2)}, floatPtr(2)},
		{"list rejected", []any{float64(1)}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractNumber(tc.input)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.expected, *got, 1e-9)
		})
	}
}

func TestExtractRating(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		row      Row
		expected *float64
	}{
		{"cmm_rating numeric", Row{"cmm_rating": 3.2}, floatPtr(3.2)},
		{"rating string", Row{"rating": "2.5"}, floatPtr(2.5)},
		{"noisy string cleaned", Row{"maturity": "3.0 (ok)"}, floatPtr(3.0)},
		// Known lossy case: every digit survives the strip.
		{"slash value collapses", Row{"rating": "3/4"}, floatPtr(34)},
		{"prefers cmm_rating over score", Row{"score": float64(1), "cmm_rating": float64(4)}, floatPtr(4)},
		{"nil values skipped", Row{"cmm_rating": nil, "rating": float64(2)}, floatPtr(2)},
		{"nothing usable", Row{"name": "PR.PS-01"}, nil},
		{"gpa ignored at control level", Row{"gpa": float64(3)}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractRating(tc.row)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.expected, *got, 1e-9)
		})
	}
}

func TestDetectControlRefColumn(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		columns  []string
		expected string
		found    bool
	}{
		{"exact match", []string{"domain", "control_ref", "cmm_rating"}, "control_ref", true},
		{"exact match case-insensitive", []string{"Control_Ref", "rating"}, "Control_Ref", true},
		{"exact beats fuzzy", []string{"control_identifier", "nist_control"}, "nist_control", true},
		{"fuzzy contains control+id", []string{"domain", "control_identifier"}, "control_identifier", true},
		{"fuzzy contains control+code", []string{"SourceControlCode"}, "SourceControlCode", true},
		{"control without marker", []string{"control_owner"}, "", false},
		{"no match", []string{"domain", "rating"}, "", false},
		{"empty table", nil, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := DetectControlRefColumn(Table{Columns: tc.columns})
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}
