// File: internal/views/views_test.go
package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seclens/riskboard/internal/bundle"
	"github.com/seclens/riskboard/internal/jsonshape"
)

func ptr(f float64) *float64 { return &f }

func TestCategoryScores(t *testing.T) {
	t.Parallel()

	b := bundle.Bundle{Categories: []bundle.CategoryScore{
		{Category: "Attack Surface", Score: ptr(7.1), GPA: ptr(2.5)},
		{Category: "Email Security"},
	}}

	rows := CategoryScores(b)
	require.Len(t, rows, 2)
	assert.Equal(t, 7.1, rows[0].Score)
	assert.Equal(t, 2.5, *rows[0].GPA)
	assert.Zero(t, rows[1].Score)
	assert.Nil(t, rows[1].GPA)
}

func TestCompanySummary(t *testing.T) {
	t.Parallel()

	t.Run("complete grade", func(t *testing.T) {
		t.Parallel()
		b := bundle.Bundle{RiskGrade: bundle.RiskGrade{
			Grade: "A", TotalGPA: ptr(3.666), CalculatedDate: "2026-08-01",
		}}
		s := CompanySummary(b)
		assert.Equal(t, Summary{Grade: "A", TotalGPA: "3.67", CalculatedDate: "2026-08-01"}, s)
	})

	t.Run("gpa falls back to category mean", func(t *testing.T) {
		t.Parallel()
		b := bundle.Bundle{Categories: []bundle.CategoryScore{
			{Category: "Attack Surface", GPA: ptr(2.0)},
			{Category: "Email Security", GPA: ptr(3.0)},
			{Category: "Web Security Posture"}, // no GPA, excluded from mean
		}}
		s := CompanySummary(b)
		assert.Equal(t, Missing, s.Grade)
		assert.Equal(t, "2.50", s.TotalGPA)
	})

	t.Run("empty bundle is all sentinels", func(t *testing.T) {
		t.Parallel()
		s := CompanySummary(bundle.Bundle{})
		assert.Equal(t, Summary{Grade: Missing, TotalGPA: Missing, CalculatedDate: Missing}, s)
	})
}

func TestDomainOverview(t *testing.T) {
	t.Parallel()

	bundles := []bundle.Bundle{{
		CompanyID: "7",
		Domains: []bundle.Domain{{
			ID:    "42",
			Score: ptr(5.33),
			FindingsByCategory: map[string][]jsonshape.Row{
				"Attack Surface": {{"finding": "open port", "score": 6.0}},
				"Email Security": {{"finding": "no SPF", "finding_score": 8.0}},
			},
		}},
	}}

	t.Run("stored score wins", func(t *testing.T) {
		t.Parallel()
		score, findings := DomainOverview(bundles, "42")
		require.NotNil(t, score)
		assert.Equal(t, 5.33, *score)
		assert.Len(t, findings, 2)
	})

	t.Run("score falls back to finding mean", func(t *testing.T) {
		t.Parallel()
		noScore := []bundle.Bundle{{Domains: []bundle.Domain{{
			ID: "43",
			FindingsByCategory: map[string][]jsonshape.Row{
				"Attack Surface": {
					{"finding": "a", "score": 4.0},
					{"finding": "b", "Finding Score": 6.0},
					{"finding": "unscored"},
				},
			},
		}}}}
		score, findings := DomainOverview(noScore, "43")
		require.NotNil(t, score)
		assert.Equal(t, 5.0, *score)
		assert.Len(t, findings, 3)
	})

	t.Run("unknown domain", func(t *testing.T) {
		t.Parallel()
		score, findings := DomainOverview(bundles, "999")
		assert.Nil(t, score)
		assert.Nil(t, findings)
	})
}

func TestCompanyOptions(t *testing.T) {
	t.Parallel()

	bundles := []bundle.Bundle{
		{CompanyID: "7", Company: bundle.Company{ID: "7", Name: "Acme"}},
		{CompanyID: "8", Company: bundle.Company{ID: "8"}},
	}

	labels, byLabel := CompanyOptions(bundles)
	assert.Equal(t, []string{"7 — Acme", "8 — Company 8"}, labels)
	assert.Equal(t, "7", byLabel["7 — Acme"])
	assert.Equal(t, "8", byLabel["8 — Company 8"])
}
