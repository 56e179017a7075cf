package core

import "strings"

// Filter returns the rows whose SKU or Description contains term,
// case-insensitively. The term is matched literally, not as a pattern, and
// surrounding whitespace is part of it. An empty or whitespace-only term
// returns t unchanged.
func Filter(t Table, term string) Table {
	if strings.TrimSpace(term) == "" {
		return t
	}

	needle := strings.ToLower(term)
	out := make(Table, 0, len(t))
	for _, p := range t {
		if containsFold(p.SKU, needle) || containsFold(p.Description, needle) {
			out = append(out, p)
		}
	}
	return out
}

// containsFold reports whether s contains the already-lowercased needle.
// Empty fields never match.
func containsFold(s, needle string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), needle)
}

// SelectableSKUs returns the SKUs offered by the edit/remove selectors: those
// of the filtered view, or of the full table when the filter matches nothing.
func SelectableSKUs(full, filtered Table) []string {
	if len(filtered) > 0 {
		return filtered.SKUs()
	}
	return full.SKUs()
}
