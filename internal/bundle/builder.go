// File: internal/bundle/builder.go
package bundle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seclens/riskboard/internal/csf"
	"github.com/seclens/riskboard/internal/jsonshape"
	"github.com/seclens/riskboard/internal/riskapi"
)

// ErrMissingCompanyID is returned when a company record carries no usable
// identifier. It is the only fatal condition in a build; everything else
// degrades to null fields.
var ErrMissingCompanyID = errors.New("company record has no identifier")

// Builder assembles one Bundle per company from live API reads. A failed
// fetch for any single field is logged and recorded as absent; only a
// missing company identifier aborts the build.
type Builder struct {
	api         riskapi.Fetcher
	log         *zap.Logger
	concurrency int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithConcurrency bounds the number of domains fetched in parallel during a
// build. The default of 1 keeps reads sequential, which the upstream ORDS
// gateway tolerates best.
func WithConcurrency(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBuilder wires a Builder to an API fetcher.
func NewBuilder(api riskapi.Fetcher, logger *zap.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		api:         api,
		log:         logger.Named("builder"),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build materializes the bundle for one company. The company record comes
// from the companies listing; allDomains is the full cross-company domain
// listing, filtered here by company id.
func (b *Builder) Build(ctx context.Context, company jsonshape.Row, allDomains []jsonshape.Row) (Bundle, error) {
	id := companyIDOf(company)
	if id == "" {
		return Bundle{}, fmt.Errorf("building bundle: %w", ErrMissingCompanyID)
	}
	log := b.log.With(zap.String("company_id", id))

	name := stringField(company, "company_name", "name")

	bundle := Bundle{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		CompanyID:     id,
		Company: Company{
			ID:    id,
			Name:  name,
			Attrs: attrsOf(company),
		},
		RiskGrade:  b.fetchRiskGrade(ctx, log, id),
		Categories: b.fetchCategories(ctx, log, id),
	}

	domains, err := b.fetchDomains(ctx, log, id, allDomains)
	if err != nil {
		return Bundle{}, err
	}
	bundle.Domains = domains
	return bundle, nil
}

// fetchRiskGrade reads the company-level grade. Absence is normal for
// companies that have never been graded.
func (b *Builder) fetchRiskGrade(ctx context.Context, log *zap.Logger, id string) RiskGrade {
	v, err := b.api.CompanyRiskGrade(ctx, id)
	if err != nil {
		log.Warn("risk grade unavailable", zap.Error(err))
		return RiskGrade{}
	}
	row, ok := jsonshape.AsRow(v)
	if !ok {
		return RiskGrade{}
	}
	grade := RiskGrade{
		TotalGPA:       probeNumber(row, "total_gpa", "gpa"),
		CalculatedDate: stringField(row, "calculated_date", "date"),
	}
	if g, ok := row["grade"]; ok {
		grade.Grade = jsonshape.AsString(g)
	}
	return grade
}

// fetchCategories reads the GPA record for each canonical category, in
// canonical order. Every category appears in the result; ones that failed or
// came back empty carry nil scores.
func (b *Builder) fetchCategories(ctx context.Context, log *zap.Logger, id string) []CategoryScore {
	out := make([]CategoryScore, 0, len(csf.CategoryNames))
	for _, cat := range csf.CategoryNames {
		score := CategoryScore{Category: cat}
		v, err := b.api.CategoryGPA(ctx, id, cat)
		if err != nil {
			log.Warn("category gpa unavailable",
				zap.String("category", cat), zap.Error(err))
			out = append(out, score)
			continue
		}
		if row, ok := jsonshape.AsRow(v); ok {
			score.GPA = probeNumber(row, "category_gpa", "gpa", "value")
			score.Score = probeNumber(row, "category_score", "score")
			score.AggregatedAt = stringField(row, "aggregated_at", "date")
		}
		out = append(out, score)
	}
	return out
}

// fetchDomains builds the Domain entries for every listed domain belonging
// to the company, fanning out at most b.concurrency fetches at a time.
// Result order matches listing order regardless of completion order.
func (b *Builder) fetchDomains(ctx context.Context, log *zap.Logger, id string, allDomains []jsonshape.Row) ([]Domain, error) {
	var mine []jsonshape.Row
	for _, d := range allDomains {
		if domainCompanyID(d) == id {
			mine = append(mine, d)
		}
	}

	domains := make([]Domain, len(mine))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, row := range mine {
		g.Go(func() error {
			domains[i] = b.buildDomain(gctx, log, row)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching domains for company %s: %w", id, err)
	}
	return domains, nil
}

// buildDomain assembles one Domain: its score plus findings for every
// canonical category.
func (b *Builder) buildDomain(ctx context.Context, log *zap.Logger, row jsonshape.Row) Domain {
	id := stringField(row, "domain_id", "id")
	d := Domain{
		ID:                 id,
		Name:               stringField(row, "domain_name", "domain", "name"),
		FindingsByCategory: make(map[string][]jsonshape.Row, len(csf.CategoryNames)),
	}
	dlog := log.With(zap.String("domain_id", id))

	if v, err := b.api.DomainScore(ctx, id); err != nil {
		dlog.Warn("domain score unavailable", zap.Error(err))
	} else {
		d.Score = jsonshape.ExtractNumber(v)
	}

	for _, cat := range csf.CategoryNames {
		v, err := b.api.FindingsByCategory(ctx, id, cat)
		if err != nil {
			dlog.Warn("findings unavailable",
				zap.String("category", cat), zap.Error(err))
			d.FindingsByCategory[cat] = []jsonshape.Row{}
			continue
		}
		d.FindingsByCategory[cat] = normalizeFindings(v)
	}
	return d
}

// normalizeFindings coerces the several shapes the findings endpoint is known
// to return into a flat list of rows, with transport keys and the redundant
// "Category" column removed.
func normalizeFindings(v any) []jsonshape.Row {
	var rows []jsonshape.Row
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if r, ok := item.(map[string]any); ok {
				rows = append(rows, r)
			}
		}
	case map[string]any:
		if inner, ok := t["findings"].([]any); ok {
			for _, item := range inner {
				if r, ok := item.(map[string]any); ok {
					rows = append(rows, r)
				}
			}
		} else if len(t) > 0 {
			rows = append(rows, t)
		}
	}
	if len(rows) == 0 {
		return []jsonshape.Row{}
	}

	out := jsonshape.StripTransportRows(rows)
	for _, r := range out {
		delete(r, "Category")
		delete(r, "category")
	}
	return out
}

// companyIDOf resolves the identifier from a company record. Numeric and
// string ids compare equal after normalization.
func companyIDOf(row jsonshape.Row) string {
	return stringField(row, "company_id", "companyId", "id")
}

// domainCompanyID resolves the owning company of a domain record. A domain's
// own "id" must not be mistaken for a company id, so it is not probed.
func domainCompanyID(row jsonshape.Row) string {
	return stringField(row, "company_id", "companyId", "cid")
}

// stringField returns the first present, non-empty key rendered as a string.
func stringField(row jsonshape.Row, keys ...string) string {
	for _, key := range keys {
		if v, ok := row[key]; ok && v != nil {
			if s := jsonshape.AsString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// probeNumber returns the first probe key whose value converts to a number.
// A key that is present but unconvertible does not stop the probe.
func probeNumber(row jsonshape.Row, keys ...string) *float64 {
	for _, key := range keys {
		if v, ok := row[key]; ok {
			if f := jsonshape.ExtractNumber(v); f != nil {
				return f
			}
		}
	}
	return nil
}

// attrsOf returns the company record with transport keys stripped, for
// storage alongside the typed fields.
func attrsOf(company jsonshape.Row) jsonshape.Row {
	stripped := jsonshape.StripTransport(map[string]any(company))
	if r, ok := stripped.(map[string]any); ok {
		return r
	}
	return nil
}
