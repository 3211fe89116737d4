package reference

import "strings"

// DisplayLimit is the rune budget for the abbreviated reference line.
const DisplayLimit = 66

// NormalizeDOI normalizes a DOI for comparison and lookups.
// It strips common URL prefixes and surrounding whitespace and lowercases
// the result. Returns "" for blank input.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}

// LooksLikeDOI reports whether s carries the registrant prefix that real
// DOIs start with. This is a weak confidence signal, not validation:
// callers must not treat a false result as a hard rejection.
func LooksLikeDOI(s string) bool {
	return strings.Contains(s, "10.")
}

// SplitAuthors splits a "; "-delimited author string into display names.
// Input that is already free of the delimiter passes through as a single
// element. Blank input yields nil. Idempotent: re-splitting any element
// of the output is a no-op.
func SplitAuthors(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "; ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Truncate shortens s to at most max runes, appending "..." when cut.
// Strings within the budget come back unchanged.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
