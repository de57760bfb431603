// Package sheetstest provides an in-memory sheets.Reader for tests.
package sheetstest

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// Grid serves Rows as a spreadsheet whose first entry is sheet row 2. Reads
// behave like the Sheets API: columns are sliced to the range and trailing
// blank rows are left out.
type Grid struct {
	mu      sync.Mutex
	Rows    [][]string
	Err     error // returned by every read while set
	values  []string
	batches int
}

// SetErr changes the error returned by subsequent reads.
func (g *Grid) SetErr(err error) {
	g.mu.Lock()
	g.Err = err
	g.mu.Unlock()
}

func (g *Grid) Values(_ context.Context, a1 string) ([][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values = append(g.values, a1)
	if g.Err != nil {
		return nil, g.Err
	}
	return g.read(a1), nil
}

func (g *Grid) BatchValues(_ context.Context, ranges []string) ([][][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.batches++
	if g.Err != nil {
		return nil, g.Err
	}
	out := make([][][]string, len(ranges))
	for i, r := range ranges {
		out[i] = g.read(r)
	}
	return out, nil
}

// ValueReads returns the A1 ranges requested through Values so far.
func (g *Grid) ValueReads() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.values...)
}

// BatchReads returns the number of BatchValues calls so far.
func (g *Grid) BatchReads() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.batches
}

func (g *Grid) read(a1 string) [][]string {
	if i := strings.LastIndex(a1, "!"); i >= 0 {
		a1 = a1[i+1:]
	}
	parts := strings.SplitN(a1, ":", 2)
	if len(parts) != 2 {
		return nil
	}
	firstCol, start := splitCell(parts[0])
	lastCol, end := splitCell(parts[1])
	if end <= 0 || end > len(g.Rows)+1 {
		end = len(g.Rows) + 1
	}
	if start < sheets.FirstDataRow {
		start = sheets.FirstDataRow
	}

	var out [][]string
	for addr := start; addr <= end; addr++ {
		cells := sheets.Pad(g.Rows[addr-sheets.FirstDataRow], sheets.Width)[firstCol : lastCol+1]
		out = append(out, append([]string(nil), cells...))
	}
	for len(out) > 0 && blank(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func splitCell(ref string) (col, row int) {
	i := strings.IndexFunc(ref, func(r rune) bool { return r >= '0' && r <= '9' })
	letters, digits := ref, ""
	if i >= 0 {
		letters, digits = ref[:i], ref[i:]
	}
	col = -1
	for _, c := range letters {
		col = (col+1)*26 + int(c-'A')
	}
	if digits != "" {
		row, _ = strconv.Atoi(digits)
	}
	return col, row
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
