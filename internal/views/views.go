// File: internal/views/views.go

// Package views projects stored bundles and live internal-scan rows into the
// flat row shapes the CLI renders. Projections never fetch and never panic;
// missing data comes back as empty slices or em-dash sentinels.
package views

import (
	"fmt"
	"sort"

	"github.com/seclens/riskboard/internal/bundle"
	"github.com/seclens/riskboard/internal/jsonshape"
)

// Missing is the display sentinel for absent values.
const Missing = "—"

// CategoryRow is one line of the per-company category score table.
type CategoryRow struct {
	Category string
	Score    float64
	GPA      *float64
}

// CategoryScores projects a bundle's categories for display. A nil score
// renders as 0; a nil GPA stays nil so the renderer can show a sentinel.
func CategoryScores(b bundle.Bundle) []CategoryRow {
	rows := make([]CategoryRow, 0, len(b.Categories))
	for _, c := range b.Categories {
		row := CategoryRow{Category: c.Category, GPA: c.GPA}
		if c.Score != nil {
			row.Score = *c.Score
		}
		rows = append(rows, row)
	}
	return rows
}

// Summary is the KPI header for one company, pre-formatted for display.
type Summary struct {
	Grade          string
	TotalGPA       string
	CalculatedDate string
}

// CompanySummary formats the company grade header. When the stored grade has
// no total GPA it falls back to the mean of the per-category GPAs.
func CompanySummary(b bundle.Bundle) Summary {
	out := Summary{Grade: Missing, TotalGPA: Missing, CalculatedDate: Missing}
	if b.RiskGrade.Grade != "" {
		out.Grade = b.RiskGrade.Grade
	}
	if b.RiskGrade.TotalGPA != nil {
		out.TotalGPA = fmt.Sprintf("%.2f", *b.RiskGrade.TotalGPA)
	}
	if b.RiskGrade.CalculatedDate != "" {
		out.CalculatedDate = b.RiskGrade.CalculatedDate
	}

	if out.TotalGPA == Missing {
		var sum float64
		var n int
		for _, c := range b.Categories {
			if c.GPA != nil {
				sum += *c.GPA
				n++
			}
		}
		if n > 0 {
			out.TotalGPA = fmt.Sprintf("%.2f", sum/float64(n))
		}
	}
	return out
}

// DomainOverview locates a domain in the given bundles and returns its score
// plus the findings concatenated across all categories, in canonical category
// order. When the stored score is absent the mean of per-finding scores
// stands in. A domain id not present anywhere yields (nil, nil).
func DomainOverview(bundles []bundle.Bundle, domainID string) (*float64, []jsonshape.Row) {
	for _, b := range bundles {
		for _, d := range b.Domains {
			if d.ID != domainID {
				continue
			}
			findings := concatFindings(d)
			score := d.Score
			if score == nil {
				score = meanFindingScore(findings)
			}
			return score, findings
		}
	}
	return nil, nil
}

func concatFindings(d bundle.Domain) []jsonshape.Row {
	cats := make([]string, 0, len(d.FindingsByCategory))
	for cat := range d.FindingsByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	// Non-nil even when empty, so callers can tell "domain found, no
	// findings" from "domain unknown".
	out := []jsonshape.Row{}
	for _, cat := range cats {
		out = append(out, d.FindingsByCategory[cat]...)
	}
	return out
}

// findingScoreKeys are probed in order for a per-finding numeric score.
var findingScoreKeys = []string{"Finding Score", "finding_score", "score"}

func meanFindingScore(findings []jsonshape.Row) *float64 {
	var sum float64
	var n int
	for _, r := range findings {
		for _, key := range findingScoreKeys {
			v, ok := r[key]
			if !ok || v == nil {
				continue
			}
			if f := jsonshape.ExtractNumber(v); f != nil {
				sum += *f
				n++
				break
			}
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// CompanyOptions builds "{id} — {name}" labels for a company picker plus the
// reverse label→id map. Bundle order is preserved.
func CompanyOptions(bundles []bundle.Bundle) ([]string, map[string]string) {
	labels := make([]string, 0, len(bundles))
	byLabel := make(map[string]string, len(bundles))
	for _, b := range bundles {
		name := b.Company.Name
		if name == "" {
			name = "Company " + b.CompanyID
		}
		label := fmt.Sprintf("%s — %s", b.CompanyID, name)
		labels = append(labels, label)
		byLabel[label] = b.CompanyID
	}
	return labels, byLabel
}
