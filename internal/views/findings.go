// File: internal/views/findings.go
package views

import (
	"sort"
	"strconv"
	"time"

	"github.com/seclens/riskboard/internal/jsonshape"
)

// Column spellings vary by upstream route; each logical column is resolved
// to the first candidate present in the data.
var (
	ipColumns    = []string{"IP address", "ip_address", "address", "ip", "IP"}
	typeColumns  = []string{"Type", "finding_type", "Category", "category"}
	levelColumns = []string{"Severity level", "severity_level", "severity", "level"}
	dateColumns  = []string{"Found date", "found_date", "date_found", "found", "Date"}
)

// FilterOptions are the distinct values available for each finding filter,
// plus the original column order for rendering the unfiltered table.
type FilterOptions struct {
	IPs     []string
	Types   []string
	Levels  []string
	Dates   []string
	Columns []string
}

// FindingFilter selects findings. Empty, "All" and "Any" fields mean no
// constraint; the date range is inclusive on both ends.
type FindingFilter struct {
	IP        string
	Type      string
	Level     string
	StartDate string
	EndDate   string
}

// FindingFilterOptions computes the distinct filter values present in a raw
// findings table. Levels sort numerically when every level parses as a
// number, lexically otherwise; dates are normalized to YYYY-MM-DD.
func FindingFilterOptions(findings []jsonshape.Row) FilterOptions {
	opts := FilterOptions{Columns: jsonshape.TableOf(findings).Columns}
	if len(findings) == 0 {
		return opts
	}

	opts.IPs = distinct(findings, resolveColumn(findings, ipColumns))
	sort.Strings(opts.IPs)
	opts.Types = distinct(findings, resolveColumn(findings, typeColumns))
	sort.Strings(opts.Types)

	opts.Levels = distinct(findings, resolveColumn(findings, levelColumns))
	sortLevels(opts.Levels)

	if col := resolveColumn(findings, dateColumns); col != "" {
		seen := make(map[string]bool)
		for _, r := range findings {
			t, ok := parseDate(jsonshape.AsString(r[col]))
			if !ok {
				continue
			}
			day := t.Format("2006-01-02")
			if !seen[day] {
				seen[day] = true
				opts.Dates = append(opts.Dates, day)
			}
		}
		sort.Strings(opts.Dates)
	}
	return opts
}

// FilterFindings applies a filter over raw findings, preserving row order.
// Rows whose date fails to parse are dropped only when a date bound is set.
func FilterFindings(findings []jsonshape.Row, f FindingFilter) []jsonshape.Row {
	if len(findings) == 0 {
		return nil
	}

	ipCol := resolveColumn(findings, ipColumns)
	typeCol := resolveColumn(findings, typeColumns)
	levelCol := resolveColumn(findings, levelColumns)
	dateCol := resolveColumn(findings, dateColumns)

	var start, end time.Time
	startSet := isSet(f.StartDate)
	endSet := isSet(f.EndDate)
	if startSet {
		start, startSet = parseDate(f.StartDate)
	}
	if endSet {
		end, endSet = parseDate(f.EndDate)
	}

	var out []jsonshape.Row
	for _, r := range findings {
		if isSet(f.IP) && ipCol != "" && jsonshape.AsString(r[ipCol]) != f.IP {
			continue
		}
		if isSet(f.Type) && typeCol != "" && jsonshape.AsString(r[typeCol]) != f.Type {
			continue
		}
		if isSet(f.Level) && levelCol != "" && jsonshape.AsString(r[levelCol]) != f.Level {
			continue
		}
		if (startSet || endSet) && dateCol != "" {
			t, ok := parseDate(jsonshape.AsString(r[dateCol]))
			if !ok {
				continue
			}
			if startSet && t.Before(start) {
				continue
			}
			if endSet && t.After(end) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func isSet(v string) bool {
	return v != "" && v != "All" && v != "Any"
}

// resolveColumn returns the first candidate present in any row.
func resolveColumn(rows []jsonshape.Row, candidates []string) string {
	for _, c := range candidates {
		for _, r := range rows {
			if _, ok := r[c]; ok {
				return c
			}
		}
	}
	return ""
}

func distinct(rows []jsonshape.Row, col string) []string {
	if col == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v, ok := r[col]
		if !ok || v == nil {
			continue
		}
		s := jsonshape.AsString(v)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// sortLevels sorts numerically when every value parses as a number, so
// "10" lands after "9" rather than after "1".
func sortLevels(levels []string) {
	numeric := len(levels) > 0
	for _, l := range levels {
		if _, err := strconv.ParseFloat(l, 64); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		sort.Slice(levels, func(i, j int) bool {
			fi, _ := strconv.ParseFloat(levels[i], 64)
			fj, _ := strconv.ParseFloat(levels[j], 64)
			return fi < fj
		})
		return
	}
	sort.Strings(levels)
}

// dateLayouts are tried in order when parsing finding dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02-Jan-2006",
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
