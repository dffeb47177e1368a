// File: internal/bundle/types.go

// Package bundle materializes per-company snapshots of the risk API into a
// local JSON cache. The Builder assembles a Bundle from live API reads; the
// Store owns the on-disk representation. Downstream views treat stored
// bundles as ground truth.
package bundle

import (
	"time"

	"github.com/seclens/riskboard/internal/jsonshape"
)

// SchemaVersion is written into every bundle. Readers tolerate absent or
// lower versions and degrade gracefully; there is no migration logic.
const SchemaVersion = 1

// Company is the immutable company snapshot inside a bundle. Attrs carries
// whatever extra attributes upstream returned, transport keys stripped.
type Company struct {
	ID    string        `json:"company_id"`
	Name  string        `json:"company_name,omitempty"`
	Attrs jsonshape.Row `json:"attrs,omitempty"`
}

// RiskGrade is the optional company-level grade. The zero value means
// upstream omitted it.
type RiskGrade struct {
	Grade          string   `json:"grade,omitempty"`
	TotalGPA       *float64 `json:"total_gpa,omitempty"`
	CalculatedDate string   `json:"calculated_date,omitempty"`
}

// IsZero reports whether no grade data is present.
func (g RiskGrade) IsZero() bool {
	return g.Grade == "" && g.TotalGPA == nil && g.CalculatedDate == ""
}

// CategoryScore holds one canonical category's scores for a company. Nil
// pointers mean upstream returned nothing usable. The stored GPA is
// unclamped; clamping to [0,4] is a display concern.
type CategoryScore struct {
	Category     string   `json:"Category"`
	GPA          *float64 `json:"category_gpa"`
	Score        *float64 `json:"category_score"`
	AggregatedAt string   `json:"aggregated_at,omitempty"`
}

// Domain is one company domain with its per-category findings. The map is
// keyed by canonical category name; the "Category" key is stripped from each
// finding row since the grouping already carries it.
type Domain struct {
	ID                 string                     `json:"domain_id"`
	Name               string                     `json:"domain_name,omitempty"`
	Score              *float64                   `json:"domain_score"`
	FindingsByCategory map[string][]jsonshape.Row `json:"findings_by_category"`
}

// Bundle is the unit of persistence: one complete per-company snapshot,
// overwritten wholesale on every rebuild.
type Bundle struct {
	SchemaVersion int             `json:"schema_version"`
	GeneratedAt   time.Time       `json:"generated_at"`
	CompanyID     string          `json:"company_id"`
	Company       Company         `json:"company"`
	RiskGrade     RiskGrade       `json:"risk_grade"`
	Categories    []CategoryScore `json:"categories"`
	Domains       []Domain        `json:"domains"`
}

// IsZero reports whether the bundle carries no data, e.g. after a cache miss.
func (b Bundle) IsZero() bool {
	return b.CompanyID == "" && len(b.Categories) == 0 && len(b.Domains) == 0
}
