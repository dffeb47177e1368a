// File: internal/csf/mappings.go

// Package csf holds the static NIST CSF 2.0 taxonomy used to join external
// finding categories and internal control ratings onto one framework. All
// lookups are pure and side-effect free.
package csf

// FunctionNames maps the two-letter CSF function codes to their full names.
var FunctionNames = map[string]string{
	"GV": "Govern",
	"ID": "Identify",
	"PR": "Protect",
	"DE": "Detect",
	"RS": "Respond",
	"RC": "Recover",
}

// FunctionOrder is the canonical CSF function ordering used for display.
var FunctionOrder = []string{"GV", "ID", "PR", "DE", "RS", "RC"}

// L2DomainNames maps a control prefix (function.category) to the CSF L2
// domain name.
var L2DomainNames = map[string]string{
	"GV.OC": "Organizational Context",
	"GV.OV": "Oversight",
	"GV.PO": "Policy",
	"GV.RM": "Risk Management Strategy",
	"GV.RR": "Roles, Responsibilities and Authorities",
	"GV.SC": "Supply Chain Risk Management",
	"ID.AM": "Asset Management",
	"ID.RA": "Risk Assessment",
	"ID.IM": "Improvement",
	"PR.AA": "Identity & Access Control",
	"PR.AT": "Awareness & Training",
	"PR.DS": "Data Security",
	"PR.PS": "Platform Security",
	"PR.IR": "Technology Infrastructure Resilience",
	"DE.CM": "Continuous Monitoring",
	"DE.AE": "Adverse Event Analysis",
	"RS.MA": "Incident Management",
	"RS.AN": "Incident Analysis",
	"RS.CO": "Incident Response & Reporting",
	"RS.MI": "Incident Mitigation",
	"RC.RP": "Incident Recovery Plan Execution",
	"RC.CO": "Incident Recovery Communication",
}

// CategoryNames is the fixed, ordered set of external finding categories.
// Bundle building and every projection iterate these in this order.
var CategoryNames = []string{
	"Attack Surface",
	"Vulnerability Exposure",
	"IP Reputation & Threats",
	"Web Security Posture",
	"Leakage & Breach History",
	"Email Security",
}

// categoryToControls is the canonical external-category to CSF-control map.
//
// Two divergent mapping tables circulated in earlier revisions of this data
// set: this two-control-per-category remap and a wider table that expanded
// each category to every control of its L2 domains. The wider table
// disagreed on several assignments and is considered deprecated; this one is
// authoritative. Do not merge the two.
var categoryToControls = map[string][]string{
	"Attack Surface":          {"ID.AM-01", "ID.RA-01"},
	"Vulnerability Exposure":  {"PR.PS-01", "DE.CM-01"},
	"IP Reputation & Threats": {"DE.CM-02", "DE.AE-02"},
	"Web Security Posture":    {"PR.PS-02", "PR.DS-01"},
	"Leakage & Breach History": {"RS.AN-03", "RC.RP-01"},
	"Email Security":          {"PR.AA-02", "PR.AT-01"},
}
