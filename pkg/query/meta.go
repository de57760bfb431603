// Package query holds the in-memory side of the catalog: the metadata
// projection, facets, filtering, seeded shuffling and slug/id resolution.
package query

import (
	"time"

	"github.com/sheetshop/sheetshop/pkg/catalog"
	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// MetaFirstCol and MetaLastCol bound the lightweight read used to build Meta.
const (
	MetaFirstCol = catalog.ColID
	MetaLastCol  = catalog.ColSeller
)

// MetaRow is the filterable projection of one catalog row.
type MetaRow struct {
	RowAddress int    `json:"row_address"`
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Brand      string `json:"brand"`
	Category   string `json:"category"`
	Seller     string `json:"seller"`
}

// Meta is the metadata index together with the facets derived from it.
type Meta struct {
	Rows   []MetaRow
	Facets Facets
	// BuiltAt identifies the read the index was built from. Anything derived
	// from Rows should be keyed by it.
	BuiltAt time.Time
}

// BuildMeta projects rows read over MetaFirstCol..MetaLastCol. Rows without a
// title are left out.
func BuildMeta(rows []sheets.Row) Meta {
	out := make([]MetaRow, 0, len(rows))
	for _, r := range rows {
		title := r.Cell(catalog.ColTitle - MetaFirstCol)
		if title == "" {
			continue
		}
		id := r.Cell(catalog.ColID - MetaFirstCol)
		out = append(out, MetaRow{
			RowAddress: r.Address,
			ID:         id,
			Slug:       catalog.ItemSlug(r.Cell(catalog.ColSlug-MetaFirstCol), title, id),
			Title:      title,
			Brand:      r.Cell(catalog.ColBrand - MetaFirstCol),
			Category:   r.Cell(catalog.ColCategory - MetaFirstCol),
			Seller:     r.Cell(catalog.ColSeller - MetaFirstCol),
		})
	}
	return Meta{Rows: out, Facets: ComputeFacets(out)}
}
