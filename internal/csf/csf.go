// File: internal/csf/csf.go
package csf

import (
	"sort"
	"strings"
	"sync"
)

// NormalizeControlRef canonicalizes a control reference to the form
// FN.CAT-NN: "PR-PS-1", "pr_ps_01" and "PR.PS-1" all become "PR.PS-01".
// Unparseable input is returned uppercased and trimmed, best effort.
func NormalizeControlRef(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToUpper(strings.TrimSpace(s))

	// Split at the last hyphen so "PR-PS-1" yields prefix "PR-PS" and tail
	// "1" rather than a prefix of just "PR".
	if idx := strings.LastIndex(s, "-"); idx >= 0 {
		prefix, tail := s[:idx], s[idx+1:]
		prefix = collapseDots(strings.NewReplacer("_", ".", "-", ".").Replace(prefix))
		tail = strings.TrimSpace(tail)
		if isDigits(tail) {
			tail = zeroPad(tail)
		}
		return prefix + "-" + tail
	}

	s2 := collapseDots(strings.NewReplacer("_", ".", "-", ".").Replace(s))
	parts := splitNonEmpty(s2, ".")
	if len(parts) >= 3 && isDigits(parts[2]) {
		return parts[0] + "." + parts[1] + "-" + zeroPad(parts[2])
	}
	return s
}

// ControlPrefix returns the FN.CAT portion of a control reference, tolerating
// unnormalized input ("pr_ps_01" → "PR.PS").
func ControlPrefix(ref string) string {
	if ref == "" {
		return ""
	}
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if idx := strings.Index(ref, "-"); idx >= 0 {
		ref = ref[:idx]
	}
	ref = collapseDots(strings.NewReplacer("_", ".", "-", ".").Replace(ref))
	parts := splitNonEmpty(ref, ".")
	switch {
	case len(parts) >= 2:
		return parts[0] + "." + parts[1]
	case len(parts) == 1:
		return parts[0]
	default:
		return ""
	}
}

// FunctionCode derives the two-letter CSF function code from a control
// reference or a bare code. Returns "" when no known function matches.
func FunctionCode(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) >= 2 {
		if _, ok := FunctionNames[s[:2]]; ok {
			return s[:2]
		}
	}
	return ""
}

// FunctionName returns the full CSF function name for a code or control
// reference ("PR.PS-01" → "Protect"), or "" when unknown.
func FunctionName(s string) string {
	return FunctionNames[FunctionCode(s)]
}

// L2DomainName resolves a control reference or prefix to its CSF L2 domain
// name ("PR.PS-01" → "Platform Security"), or "" when unknown.
func L2DomainName(ref string) string {
	return L2DomainNames[ControlPrefix(ref)]
}

// ControlsForCategory returns the normalized controls mapped to one of the
// canonical category names. The result is a copy; callers may mutate it.
func ControlsForCategory(category string) []string {
	controls, ok := categoryToControls[strings.TrimSpace(category)]
	if !ok {
		return nil
	}
	out := make([]string, len(controls))
	for i, c := range controls {
		out[i] = NormalizeControlRef(c)
	}
	return out
}

var (
	inverseOnce  sync.Once
	inverseIndex map[string][]string
)

// CategoriesForControlPrefix returns the categories whose mapped controls
// share the given prefix ("ID.AM" → ["Attack Surface"]). The inverse index
// is derived from the forward map once and cached.
func CategoriesForControlPrefix(prefix string) []string {
	inverseOnce.Do(func() {
		inverseIndex = make(map[string][]string)
		for _, cat := range CategoryNames {
			seen := make(map[string]bool)
			for _, ctrl := range categoryToControls[cat] {
				p := ControlPrefix(ctrl)
				if p == "" || seen[p] {
					continue
				}
				seen[p] = true
				inverseIndex[p] = append(inverseIndex[p], cat)
			}
		}
		for p := range inverseIndex {
			sort.Strings(inverseIndex[p])
		}
	})

	cats := inverseIndex[ControlPrefix(prefix)]
	out := make([]string, len(cats))
	copy(out, cats)
	return out
}

// MaturityLabel buckets a CMM rating into the display label used by the
// maturity tables.
func MaturityLabel(rating float64) string {
	switch {
	case rating < 2.0:
		return "Weak"
	case rating < 3.0:
		return "Marginal"
	case rating < 3.5:
		return "Marginal/Strong"
	default:
		return "Strong"
	}
}

func collapseDots(s string) string {
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", ".")
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func zeroPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
