// File: internal/riskapi/client.go

// Package riskapi is the HTTP client for the upstream risk scoring API. It
// absorbs the transport-level quirks of that service — trailing-slash route
// inconsistency, bare-numeric bodies, the ORDS {"items": [...]} envelope —
// so the rest of the pipeline only ever sees decoded JSON values.
package riskapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/seclens/riskboard/internal/config"
	"github.com/seclens/riskboard/internal/jsonshape"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fetcher is the endpoint surface consumed by the bundle builder and store.
// The concrete Client satisfies it; tests substitute stubs.
type Fetcher interface {
	Companies(ctx context.Context) ([]jsonshape.Row, error)
	Domains(ctx context.Context) ([]jsonshape.Row, error)
	CompanyRiskGrade(ctx context.Context, companyID string) (any, error)
	CategoryGPA(ctx context.Context, companyID, category string) (any, error)
	DomainScore(ctx context.Context, domainID string) (any, error)
	FindingsByCategory(ctx context.Context, domainID, category string) (any, error)
}

// Client issues rate-limited GET requests against the risk API.
// It is safe for concurrent use.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	internalScanURL string
	limiter         *rate.Limiter
	log             *zap.Logger
}

// New builds a Client from configuration.
func New(cfg config.RiskAPIConfig, logger *zap.Logger) *Client {
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(),
		},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		internalScanURL: cfg.InternalScanURL,
		limiter:         rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		log:             logger.Named("riskapi"),
	}
}

// newTransport tunes the HTTP transport for many small sequential requests
// against a single host.
func newTransport() *http.Transport {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	// Best effort; the transport still works as HTTP/1.1 if this fails.
	_ = http2.ConfigureTransport(transport)
	return transport
}

// UnwrapItems returns v["items"] when v is an object carrying that key, and
// v unchanged otherwise. ORDS wraps most collection endpoints this way, but
// single-object endpoints (risk grade, domain score) must not be unwrapped.
func UnwrapItems(v any) any {
	if m, ok := v.(map[string]any); ok {
		if items, ok := m["items"]; ok {
			return items
		}
	}
	return v
}

// request performs one rate-limited GET and decodes the response.
func (c *Client) request(ctx context.Context, url string) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, URL: url, Body: snippet(body)}
	}

	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v, nil
	}

	// Some endpoints return a bare number as plain text, e.g. "5.33".
	trimmed := strings.TrimSpace(string(body))
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f, nil
	}

	return nil, &BodyError{URL: url, Body: snippet(body)}
}

// get fetches baseURL+path. If the request fails for any reason it toggles
// the trailing slash and retries exactly once — the upstream routes are
// inconsistent about which form they accept. This is not a general retry
// policy.
func (c *Client) get(ctx context.Context, path string) (any, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := c.baseURL + path

	v, err := c.request(ctx, url)
	if err == nil {
		return v, nil
	}

	var alt string
	if strings.HasSuffix(url, "/") {
		alt = strings.TrimSuffix(url, "/")
	} else {
		alt = url + "/"
	}
	if alt == url {
		return nil, err
	}

	c.log.Debug("retrying with toggled trailing slash",
		zap.String("url", url), zap.Error(err))
	return c.request(ctx, alt)
}

// escapeSegment percent-encodes every byte outside the unreserved set, so a
// category like "IP Reputation & Threats" is safe as a path segment.
func escapeSegment(s string) string {
	const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if strings.IndexByte(unreserved, ch) >= 0 {
			b.WriteByte(ch)
			continue
		}
		b.WriteString(fmt.Sprintf("%%%02X", ch))
	}
	return b.String()
}

// rowsOf coerces a decoded list into rows, dropping non-object elements.
func rowsOf(v any) []jsonshape.Row {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	rows := make([]jsonshape.Row, 0, len(list))
	for _, item := range list {
		if r, ok := item.(map[string]any); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// Companies lists all companies known upstream.
func (c *Client) Companies(ctx context.Context) ([]jsonshape.Row, error) {
	v, err := c.get(ctx, "/get_companies")
	if err != nil {
		return nil, err
	}
	return rowsOf(UnwrapItems(v)), nil
}

// Domains lists all domains across all companies.
func (c *Client) Domains(ctx context.Context) ([]jsonshape.Row, error) {
	v, err := c.get(ctx, "/get_domains")
	if err != nil {
		return nil, err
	}
	return rowsOf(UnwrapItems(v)), nil
}

// CompanyRiskGrade fetches the grade/total_gpa/date object for a company.
// The response is a single object and is not unwrapped.
func (c *Client) CompanyRiskGrade(ctx context.Context, companyID string) (any, error) {
	return c.get(ctx, fmt.Sprintf("/get_company_risk_grade/%s/", escapeSegment(companyID)))
}

// CategoryGPA fetches the GPA record for one company and category.
func (c *Client) CategoryGPA(ctx context.Context, companyID, category string) (any, error) {
	v, err := c.get(ctx, fmt.Sprintf("/get_category_gpa/%s/%s/",
		escapeSegment(companyID), escapeSegment(category)))
	if err != nil {
		return nil, err
	}
	return UnwrapItems(v), nil
}

// DomainScore fetches a domain's score. The body may be JSON or a bare
// number; either way the caller receives a decoded value.
func (c *Client) DomainScore(ctx context.Context, domainID string) (any, error) {
	return c.get(ctx, fmt.Sprintf("/get_domain_score/%s/", escapeSegment(domainID)))
}

// FindingsByCategory fetches the raw findings for one domain and category.
func (c *Client) FindingsByCategory(ctx context.Context, domainID, category string) (any, error) {
	v, err := c.get(ctx, fmt.Sprintf("/get_findings_by_category/%s/%s/",
		escapeSegment(domainID), escapeSegment(category)))
	if err != nil {
		return nil, err
	}
	return UnwrapItems(v), nil
}

// InternalScan fetches CMM control ratings from the internal scan endpoint.
// It lives on a different path tree, takes a row limit, and is read live —
// its rows are never written into bundle files.
func (c *Client) InternalScan(ctx context.Context, limit int) ([]jsonshape.Row, error) {
	url := fmt.Sprintf("%s?limit=%d", c.internalScanURL, limit)
	v, err := c.request(ctx, url)
	if err != nil {
		return nil, err
	}
	return rowsOf(UnwrapItems(v)), nil
}
