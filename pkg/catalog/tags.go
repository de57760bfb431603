package catalog

import "strings"

// SplitTags splits a free-text tag cell on commas, pipes, semicolons, hashes
// and newlines. Duplicates are dropped case-insensitively; the first spelling
// and the original order are kept.
func SplitTags(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		switch r {
		case ',', '|', ';', '#', '\n', '\r':
			return true
		}
		return false
	})
	var out []string
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}
