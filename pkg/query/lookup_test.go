package query

import (
	"testing"

	"github.com/sheetshop/sheetshop/pkg/sheets"
)

func TestResolvePriority(t *testing.T) {
	ix := BuildLookup([]sheets.Row{
		row(2, "p1", "", "Alpha"),
		row(5, "p5", "x", "Five"),
		row(7, "p7", "", "X"),
		row(9, "x", "", "Nine"),
	})

	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"x", 5, true},
		{"X", 5, true},
		{"alpha", 2, true},
		{"Nine", 9, true},
		{"p7", 7, true},
		{"  P1 ", 2, true},
		{"missing", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ix.Resolve(tc.key)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Resolve(%q): want %d,%v got %d,%v", tc.key, tc.want, tc.ok, got, ok)
		}
	}
	if ix.Len() != 4 {
		t.Fatalf("want 4 indexed rows, got %d", ix.Len())
	}
}

func TestResolveTitleBeatsID(t *testing.T) {
	ix := BuildLookup([]sheets.Row{
		row(3, "widget", "", "Other"),
		row(4, "z", "", "Widget"),
	})
	if got, _ := ix.Resolve("widget"); got != 4 {
		t.Fatalf("title match should win over id match, got row %d", got)
	}
}

func TestResolveFirstRowWins(t *testing.T) {
	ix := BuildLookup([]sheets.Row{
		row(3, "", "dup", "One"),
		row(8, "", "dup", "Two"),
	})
	if got, _ := ix.Resolve("dup"); got != 3 {
		t.Fatalf("want first row, got %d", got)
	}
}

func TestResolveNilIndex(t *testing.T) {
	var ix *LookupIndex
	if _, ok := ix.Resolve("x"); ok {
		t.Fatalf("nil index should resolve nothing")
	}
}
