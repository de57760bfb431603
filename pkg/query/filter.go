package query

import (
	"strings"

	"github.com/sheetshop/sheetshop/pkg/catalog"
)

// All is the facet value meaning "no constraint".
const All = "all"

// FilterSpec selects catalog rows. Brand, Category and Seller must match the
// stored value exactly unless they are All. Query is a case- and
// accent-insensitive substring match over title, brand, seller and category.
type FilterSpec struct {
	Query    string `json:"query"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Seller   string `json:"seller"`
}

// Normalize trims every field and maps empty facet constraints to All.
func (f FilterSpec) Normalize() FilterSpec {
	f.Query = strings.TrimSpace(f.Query)
	f.Brand = orAll(f.Brand)
	f.Category = orAll(f.Category)
	f.Seller = orAll(f.Seller)
	return f
}

// Signature is a stable cache key fragment for the normalized spec.
func (f FilterSpec) Signature() string {
	n := f.Normalize()
	return strings.Join([]string{"q=" + catalog.Fold(n.Query), "b=" + n.Brand, "c=" + n.Category, "s=" + n.Seller}, "\x1f")
}

func orAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return All
	}
	return v
}

// Filter returns the addresses of rows matching f, in sheet order.
func Filter(rows []MetaRow, f FilterSpec) []int {
	f = f.Normalize()
	needle := catalog.Fold(f.Query)

	out := make([]int, 0, len(rows))
	for _, r := range rows {
		if f.Brand != All && r.Brand != f.Brand {
			continue
		}
		if f.Category != All && r.Category != f.Category {
			continue
		}
		if f.Seller != All && r.Seller != f.Seller {
			continue
		}
		if needle != "" {
			hay := catalog.Fold(r.Title + " " + r.Brand + " " + r.Seller + " " + r.Category)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		out = append(out, r.RowAddress)
	}
	return out
}
