package query

import (
	"sort"
	"strings"
)

// Facets lists the distinct values of each filterable dimension.
type Facets struct {
	Brands     []string `json:"brands"`
	Categories []string `json:"categories"`
	Sellers    []string `json:"sellers"`
}

// ComputeFacets collects distinct non-empty brand, category and seller values.
// Values are kept verbatim, so "Nike" and "NIKE" are two entries; only the
// sort compares case-insensitively.
func ComputeFacets(rows []MetaRow) Facets {
	brands := make(map[string]struct{})
	categories := make(map[string]struct{})
	sellers := make(map[string]struct{})
	for _, r := range rows {
		add(brands, r.Brand)
		add(categories, r.Category)
		add(sellers, r.Seller)
	}
	return Facets{
		Brands:     sortedKeys(brands),
		Categories: sortedKeys(categories),
		Sellers:    sortedKeys(sellers),
	}
}

func add(set map[string]struct{}, v string) {
	if v = strings.TrimSpace(v); v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i]), strings.ToLower(out[j])
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}
