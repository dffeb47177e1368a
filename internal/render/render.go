// File: internal/render/render.go

// Package render draws the CLI's terminal tables. It formats, never
// computes: all aggregation lives in the views package.
package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/seclens/riskboard/internal/bundle"
	"github.com/seclens/riskboard/internal/jsonshape"
	"github.com/seclens/riskboard/internal/views"
)

func newWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetAllowedRowLength(130)
	return tw
}

// BundleList renders one line per cached bundle.
func BundleList(w io.Writer, bundles []bundle.Bundle) {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"Company ID", "Name", "Grade", "Categories", "Domains", "Generated"})
	for _, b := range bundles {
		grade := b.RiskGrade.Grade
		if grade == "" {
			grade = views.Missing
		}
		tw.AppendRow(table.Row{
			b.CompanyID,
			b.Company.Name,
			grade,
			len(b.Categories),
			len(b.Domains),
			b.GeneratedAt.Format("2006-01-02 15:04"),
		})
	}
	tw.Render()
}

// CompanySummary renders the KPI header for one company.
func CompanySummary(w io.Writer, b bundle.Bundle, s views.Summary) {
	tw := newWriter(w)
	tw.AppendRows([]table.Row{
		{"Company", fmt.Sprintf("%s — %s", b.CompanyID, b.Company.Name)},
		{"Grade", s.Grade},
		{"Total GPA", s.TotalGPA},
		{"Calculated", s.CalculatedDate},
	})
	tw.Render()
}

// CategoryScores renders the per-category score table.
func CategoryScores(w io.Writer, rows []views.CategoryRow) {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"Category", "Score", "GPA"})
	for _, r := range rows {
		gpa := views.Missing
		if r.GPA != nil {
			gpa = fmt.Sprintf("%.2f", *r.GPA)
		}
		tw.AppendRow(table.Row{r.Category, fmt.Sprintf("%.2f", r.Score), gpa})
	}
	tw.Render()
}

// DomainOverview renders a domain's score and raw findings.
func DomainOverview(w io.Writer, domainID string, score *float64, findings []jsonshape.Row) {
	scoreText := views.Missing
	if score != nil {
		scoreText = fmt.Sprintf("%.2f", *score)
	}
	fmt.Fprintf(w, "Domain %s — score %s, %d findings\n", domainID, scoreText, len(findings))
	if len(findings) == 0 {
		return
	}
	Findings(w, findings)
}

// Findings renders raw finding rows with their original columns.
func Findings(w io.Writer, findings []jsonshape.Row) {
	t := jsonshape.TableOf(findings)
	tw := newWriter(w)
	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)
	for _, r := range t.Rows {
		row := make(table.Row, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = jsonshape.AsString(r[c])
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

// ControlMaturity renders the control-level CMM join.
func ControlMaturity(w io.Writer, rows []views.ControlRow) {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"Category", "NIST Control", "CMM Score"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Category, r.Control, fmt.Sprintf("%.2f", r.CMMScore)})
	}
	tw.Render()
}

// L2DomainMaturity renders the per-L2-domain maturity table.
func L2DomainMaturity(w io.Writer, rows []views.L2Row) {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"Function", "L2 Domain", "Mean CMM", "Controls", "Maturity"})
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.Function,
			r.L2Domain,
			fmt.Sprintf("%.2f", r.MeanRating),
			r.ControlCount,
			r.Label,
		})
	}
	tw.Render()
}
