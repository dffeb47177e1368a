// File: internal/views/maturity.go
package views

import (
	"sort"

	"github.com/seclens/riskboard/internal/csf"
	"github.com/seclens/riskboard/internal/jsonshape"
)

// ControlRow is one control's CMM rating joined onto its external finding
// category.
type ControlRow struct {
	CompanyID string
	Category  string
	Control   string
	CMMScore  float64
}

// ControlMaturity joins internal-scan rows onto the category→control map:
// for each canonical category, the mapped controls that carry a parseable
// rating in the scan data. Controls without a rating are omitted. Rows are
// filtered to companyID when the scan data carries a company_id column.
func ControlMaturity(internalRows []jsonshape.Row, companyID string) []ControlRow {
	rows := filterByCompany(internalRows, companyID)
	if len(rows) == 0 {
		return nil
	}

	ctrlCol, ok := jsonshape.DetectControlRefColumn(jsonshape.TableOf(rows))
	if !ok {
		return nil
	}

	ratings := make(map[string]float64)
	for _, r := range rows {
		ref := csf.NormalizeControlRef(jsonshape.AsString(r[ctrlCol]))
		if ref == "" {
			continue
		}
		if rating := jsonshape.ExtractRating(r); rating != nil {
			ratings[ref] = *rating
		}
	}

	var out []ControlRow
	for _, cat := range csf.CategoryNames {
		controls := csf.ControlsForCategory(cat)
		sort.Strings(controls)
		for _, ctrl := range controls {
			rating, ok := ratings[ctrl]
			if !ok {
				continue
			}
			out = append(out, ControlRow{
				CompanyID: companyID,
				Category:  cat,
				Control:   ctrl,
				CMMScore:  rating,
			})
		}
	}
	return out
}

// L2Row is the aggregated maturity of one CSF L2 domain.
type L2Row struct {
	Function     string
	L2Domain     string
	MeanRating   float64
	ControlCount int
	Label        string
}

// L2DomainMaturity groups internal-scan rows by their L2 domain name and
// averages the CMM ratings per domain. The CSF function is derived from the
// first control reference seen in each group. Output is ordered by CSF
// function, unknown functions last, then by domain name.
func L2DomainMaturity(internalRows []jsonshape.Row, companyID string) []L2Row {
	rows := filterByCompany(internalRows, companyID)

	type group struct {
		ratings  []float64
		firstRef string
	}
	groups := make(map[string]*group)
	var order []string
	for _, r := range rows {
		domain := jsonshape.AsString(r["domain"])
		if domain == "" {
			continue
		}
		g, ok := groups[domain]
		if !ok {
			g = &group{firstRef: jsonshape.AsString(r["control_ref"])}
			groups[domain] = g
			order = append(order, domain)
		}
		if rating := jsonshape.ExtractNumber(r["cmm_rating"]); rating != nil {
			g.ratings = append(g.ratings, *rating)
		}
	}

	var out []L2Row
	for _, domain := range order {
		g := groups[domain]
		if len(g.ratings) == 0 {
			continue
		}
		var sum float64
		for _, v := range g.ratings {
			sum += v
		}
		mean := sum / float64(len(g.ratings))
		function := csf.FunctionName(g.firstRef)
		if function == "" {
			function = "Unknown"
		}
		out = append(out, L2Row{
			Function:     function,
			L2Domain:     domain,
			MeanRating:   mean,
			ControlCount: len(g.ratings),
			Label:        csf.MaturityLabel(mean),
		})
	}

	rank := make(map[string]int, len(csf.FunctionOrder))
	for i, code := range csf.FunctionOrder {
		rank[csf.FunctionNames[code]] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, iKnown := rank[out[i].Function]
		rj, jKnown := rank[out[j].Function]
		switch {
		case iKnown && jKnown && ri != rj:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return out[i].L2Domain < out[j].L2Domain
		}
	})
	return out
}

// filterByCompany keeps rows whose company_id matches, tolerating numeric
// ids. Rows without a company_id column pass through unfiltered.
func filterByCompany(rows []jsonshape.Row, companyID string) []jsonshape.Row {
	if companyID == "" {
		return rows
	}
	hasColumn := false
	for _, r := range rows {
		if _, ok := r["company_id"]; ok {
			hasColumn = true
			break
		}
	}
	if !hasColumn {
		return rows
	}
	var out []jsonshape.Row
	for _, r := range rows {
		if jsonshape.AsString(r["company_id"]) == companyID {
			out = append(out, r)
		}
	}
	return out
}
