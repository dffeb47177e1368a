// File: internal/csf/csf_test.go
package csf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeControlRef(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{"PR-PS-1", "PR.PS-01"},
		{"pr_ps_01", "PR.PS-01"},
		{"PR.PS-1", "PR.PS-01"},
		{"GV.OC-02", "GV.OC-02"},
		{"gv.oc-2", "GV.OC-02"},
		{"  id.am-1 ", "ID.AM-01"},
		{"RS.MA-10", "RS.MA-10"},
		{"pr..ps-1", "PR.PS-01"},
		{"pr.ps.1", "PR.PS-01"},
		{"PR.PS-1a", "PR.PS-1A"},
		{"", ""},
		{"garbage", "GARBAGE"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, NormalizeControlRef(tc.input))
		})
	}
}

// Normalization must be idempotent: applying it twice changes nothing.
func TestNormalizeControlRef_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"PR-PS-1", "pr_ps_01", "GV.OC-02", "rc.co-4", "DE_CM_9",
		"", "garbage", "PR.PS-1a", "x-y-z",
	}
	for _, in := range inputs {
		once := NormalizeControlRef(in)
		assert.Equal(t, once, NormalizeControlRef(once), "input %q", in)
	}
}

func TestControlPrefix(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{"PR.PS-01", "PR.PS"},
		{"pr_ps_01", "PR.PS"},
		{"PR-PS-1", "PR"},
		{"GV.SC-10", "GV.SC"},
		{"GV", "GV"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ControlPrefix(tc.input))
		})
	}
}

func TestFunctionCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PR", FunctionCode("PR.PS-01"))
	assert.Equal(t, "GV", FunctionCode("gv.oc-02"))
	assert.Equal(t, "RC", FunctionCode("RC"))
	assert.Equal(t, "DE", FunctionCode("de.cm"))
	assert.Equal(t, "", FunctionCode("XX.YY-01"))
	assert.Equal(t, "", FunctionCode(""))
	assert.Equal(t, "", FunctionCode("Z"))
}

func TestFunctionName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Protect", FunctionName("PR.PS-01"))
	assert.Equal(t, "Govern", FunctionName("GV"))
	assert.Equal(t, "", FunctionName("nope"))
}

func TestL2DomainName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Platform Security", L2DomainName("PR.PS-01"))
	assert.Equal(t, "Organizational Context", L2DomainName("gv_oc_2"))
	assert.Equal(t, "", L2DomainName("ZZ.ZZ-01"))
}

func TestControlsForCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"ID.AM-01", "ID.RA-01"}, ControlsForCategory("Attack Surface"))
	assert.Equal(t, []string{"PR.AA-02", "PR.AT-01"}, ControlsForCategory("Email Security"))
	assert.Nil(t, ControlsForCategory("Unknown Category"))

	// Every canonical category must have at least one mapped control.
	for _, cat := range CategoryNames {
		assert.NotEmpty(t, ControlsForCategory(cat), "category %q", cat)
	}
}

func TestCategoriesForControlPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Attack Surface"}, CategoriesForControlPrefix("ID.AM"))
	// DE.CM backs two categories.
	assert.ElementsMatch(t,
		[]string{"Vulnerability Exposure", "IP Reputation & Threats"},
		CategoriesForControlPrefix("DE.CM"))
	// Unnormalized prefixes resolve too.
	assert.Equal(t, []string{"Attack Surface"}, CategoriesForControlPrefix("id_am"))
	assert.Empty(t, CategoriesForControlPrefix("GV.ZZ"))
}

func TestMaturityLabel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		rating   float64
		expected string
	}{
		{0, "Weak"},
		{1.9, "Weak"},
		{2.0, "Marginal"},
		{2.9, "Marginal"},
		{3.0, "Marginal/Strong"},
		{3.4, "Marginal/Strong"},
		{3.5, "Strong"},
		{4.0, "Strong"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, MaturityLabel(tc.rating), "rating %v", tc.rating)
	}
}

// FuzzNormalizeControlRef checks the idempotence property over arbitrary
// inputs.
func FuzzNormalizeControlRef(f *testing.F) {
	f.Add("PR-PS-1")
	f.Add("pr_ps_01")
	f.Add("GV.OC-02")
	f.Add("..--__")
	f.Fuzz(func(t *testing.T, s string) {
		once := NormalizeControlRef(s)
		twice := NormalizeControlRef(once)
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
