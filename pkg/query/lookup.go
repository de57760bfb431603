package query

import (
	"strings"

	"github.com/sheetshop/sheetshop/pkg/catalog"
	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// LookupFirstCol and LookupLastCol bound the read used to build a LookupIndex.
const (
	LookupFirstCol = catalog.ColID
	LookupLastCol  = catalog.ColTitle
)

// LookupIndex resolves a slug, title or id to a row address.
type LookupIndex struct {
	slugs  map[string]int
	titles map[string]int
	ids    map[string]int
	rawIDs map[string]int
	rows   int
}

// BuildLookup indexes rows read over LookupFirstCol..LookupLastCol. The first
// row wins when several share a key.
func BuildLookup(rows []sheets.Row) *LookupIndex {
	ix := &LookupIndex{
		slugs:  make(map[string]int),
		titles: make(map[string]int),
		ids:    make(map[string]int),
		rawIDs: make(map[string]int),
	}
	for _, r := range rows {
		id := r.Cell(catalog.ColID - LookupFirstCol)
		slug := r.Cell(catalog.ColSlug - LookupFirstCol)
		title := r.Cell(catalog.ColTitle - LookupFirstCol)
		if id == "" && slug == "" && title == "" {
			continue
		}
		ix.rows++
		putFirst(ix.slugs, catalog.Slugify(slug), r.Address)
		putFirst(ix.titles, catalog.Slugify(title), r.Address)
		putFirst(ix.ids, catalog.Slugify(id), r.Address)
		putFirst(ix.rawIDs, id, r.Address)
	}
	return ix
}

func putFirst(m map[string]int, k string, addr int) {
	if k == "" {
		return
	}
	if _, ok := m[k]; !ok {
		m[k] = addr
	}
}

// Resolve looks key up by slug, then title, then id.
func (ix *LookupIndex) Resolve(key string) (int, bool) {
	if ix == nil {
		return 0, false
	}
	raw := strings.TrimSpace(key)
	norm := catalog.Slugify(raw)
	if norm != "" {
		for _, m := range []map[string]int{ix.slugs, ix.titles, ix.ids} {
			if addr, ok := m[norm]; ok {
				return addr, true
			}
		}
	}
	addr, ok := ix.rawIDs[raw]
	return addr, ok
}

// Len is the number of rows that were indexed.
func (ix *LookupIndex) Len() int {
	if ix == nil {
		return 0
	}
	return ix.rows
}
