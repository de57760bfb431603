package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// ErrColumnLayout is returned when the column table does not describe a
// contiguous row of sheets.Width columns.
var ErrColumnLayout = errors.New("catalog: invalid column layout")

// Column indexes of a catalog row.
const (
	ColID = iota
	ColSlug
	ColTitle
	ColBrand
	ColCategory
	ColSeller
	ColImage1
	ColImage2
	ColImage3
	ColImage4
	ColImage5
	ColImage6
	ColImage7
	ColImage8
	ColExtraImages
	ColStatus
	ColGallery
	ColSourceURL
	ColSourcePrice
	ColTags
)

// Column describes one position of a catalog row. Decode is nil for columns
// that are handled as a group (images) or ignored.
type Column struct {
	Name   string
	Index  int
	Decode func(it *Item, v string)
}

// Columns is the layout of a catalog row, in sheet order.
var Columns = []Column{
	{"id", ColID, func(it *Item, v string) { it.ID = v }},
	{"slug", ColSlug, func(it *Item, v string) { it.Slug = v }},
	{"title", ColTitle, func(it *Item, v string) { it.Title = v }},
	{"brand", ColBrand, func(it *Item, v string) { it.Brand = v }},
	{"category", ColCategory, func(it *Item, v string) { it.Category = v }},
	{"seller", ColSeller, func(it *Item, v string) { it.Seller = v }},
	{"image_1", ColImage1, nil},
	{"image_2", ColImage2, nil},
	{"image_3", ColImage3, nil},
	{"image_4", ColImage4, nil},
	{"image_5", ColImage5, nil},
	{"image_6", ColImage6, nil},
	{"image_7", ColImage7, nil},
	{"image_8", ColImage8, nil},
	{"extra_images", ColExtraImages, nil},
	{"status", ColStatus, nil},
	{"gallery_url", ColGallery, nil},
	{"source_url", ColSourceURL, func(it *Item, v string) { it.SourceURL = v }},
	{"source_price", ColSourcePrice, func(it *Item, v string) { it.SourcePriceRaw = v }},
	{"tags", ColTags, func(it *Item, v string) { it.Tags = SplitTags(v) }},
}

// ImageSlots are the primary image columns, cover first.
var ImageSlots = []int{ColImage1, ColImage2, ColImage3, ColImage4, ColImage5, ColImage6, ColImage7, ColImage8}

var (
	validateOnce sync.Once
	validateErr  error
)

// ValidateColumns checks the column table once per process.
func ValidateColumns() error {
	validateOnce.Do(func() {
		validateErr = validateColumns(Columns)
	})
	return validateErr
}

func validateColumns(cols []Column) error {
	if len(cols) != sheets.Width {
		return fmt.Errorf("%w: %d columns, want %d", ErrColumnLayout, len(cols), sheets.Width)
	}
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if c.Index != i {
			return fmt.Errorf("%w: column %q at position %d has index %d", ErrColumnLayout, c.Name, i, c.Index)
		}
		name := strings.TrimSpace(c.Name)
		if name == "" || seen[name] {
			return fmt.Errorf("%w: empty or duplicate column name %q", ErrColumnLayout, c.Name)
		}
		seen[name] = true
	}
	return nil
}
