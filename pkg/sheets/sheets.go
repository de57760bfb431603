// Package sheets reads rows from the spreadsheet that backs the catalog.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Width is the number of columns in a catalog row (A through T).
const Width = 20

// FirstDataRow is the first sheet row holding catalog data; row 1 is a header.
const FirstDataRow = 2

// Reader performs raw reads against a spreadsheet. Every cell is returned as a
// string; rows may be shorter than the requested range.
type Reader interface {
	Values(ctx context.Context, a1 string) ([][]string, error)
	// BatchValues returns one grid per requested range, in request order.
	BatchValues(ctx context.Context, ranges []string) ([][][]string, error)
}

// Row is one sheet row padded to the width of the range it was read from.
type Row struct {
	Address int
	Cells   []string
}

// Cell returns the trimmed value at index i, or "" when out of range.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

// Empty reports whether every cell of the row is blank.
func (r Row) Empty() bool {
	for i := range r.Cells {
		if r.Cell(i) != "" {
			return false
		}
	}
	return true
}

// Accessor turns raw reads into padded, addressed rows of a single tab.
type Accessor struct {
	reader Reader
	tab    string
}

// NewAccessor binds a Reader to one tab. An empty tab targets the first sheet.
func NewAccessor(r Reader, tab string) *Accessor {
	return &Accessor{reader: r, tab: tab}
}

// Range reads rows start..end (inclusive) over columns first..last (0-based).
// An end <= 0 reads to the last populated row. Trailing rows the API omits are
// not returned.
func (a *Accessor) Range(ctx context.Context, first, last, start, end int) ([]Row, error) {
	a1 := a.A1(first, last, start, end)
	grid, err := a.reader.Values(ctx, a1)
	if err != nil {
		return nil, err
	}
	width := last - first + 1
	rows := make([]Row, 0, len(grid))
	for i, cells := range grid {
		rows = append(rows, Row{Address: start + i, Cells: Pad(cells, width)})
	}
	return rows, nil
}

// RowsAt reads the given row addresses over columns first..last in a single
// batch request. The result is aligned with addrs.
func (a *Accessor) RowsAt(ctx context.Context, first, last int, addrs []int) ([]Row, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	ranges := make([]string, len(addrs))
	for i, n := range addrs {
		ranges[i] = a.A1(first, last, n, n)
	}
	grids, err := a.reader.BatchValues(ctx, ranges)
	if err != nil {
		return nil, err
	}
	width := last - first + 1
	rows := make([]Row, len(addrs))
	for i, n := range addrs {
		var cells []string
		if i < len(grids) && len(grids[i]) > 0 {
			cells = grids[i][0]
		}
		rows[i] = Row{Address: n, Cells: Pad(cells, width)}
	}
	return rows, nil
}

// A1 builds an A1 range such as 'Catalog'!A2:T41 for this accessor's tab.
func (a *Accessor) A1(first, last, start, end int) string {
	var b strings.Builder
	if a.tab != "" {
		b.WriteString("'")
		b.WriteString(strings.ReplaceAll(a.tab, "'", "''"))
		b.WriteString("'!")
	}
	b.WriteString(ColumnLetter(first))
	b.WriteString(strconv.Itoa(start))
	b.WriteString(":")
	b.WriteString(ColumnLetter(last))
	if end > 0 {
		b.WriteString(strconv.Itoa(end))
	}
	return b.String()
}

// ColumnLetter converts a 0-based column index into its A1 letters.
func ColumnLetter(i int) string {
	if i < 0 {
		panic(fmt.Sprintf("sheets: negative column index %d", i))
	}
	var out []byte
	for i >= 0 {
		out = append([]byte{byte('A' + i%26)}, out...)
		i = i/26 - 1
	}
	return string(out)
}

// Pad right-pads cells with empty strings up to width. Longer rows are cut.
func Pad(cells []string, width int) []string {
	out := make([]string, width)
	copy(out, cells)
	return out
}
