package sheets

import (
	"context"
	"reflect"
	"testing"
)

type gridReader struct {
	grids   map[string][][]string
	batches [][]string
}

func (g *gridReader) Values(ctx context.Context, a1 string) ([][]string, error) {
	return g.grids[a1], nil
}

func (g *gridReader) BatchValues(ctx context.Context, ranges []string) ([][][]string, error) {
	g.batches = append(g.batches, ranges)
	out := make([][][]string, len(ranges))
	for i, r := range ranges {
		out[i] = g.grids[r]
	}
	return out, nil
}

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{0: "A", 2: "C", 19: "T", 25: "Z", 26: "AA", 27: "AB", 701: "ZZ", 702: "AAA"}
	for in, want := range tests {
		if got := ColumnLetter(in); got != want {
			t.Fatalf("ColumnLetter(%d): want %q, got %q", in, want, got)
		}
	}
}

func TestA1(t *testing.T) {
	a := NewAccessor(nil, "Bob's Sheet")
	if got, want := a.A1(0, 19, 2, 41), "'Bob''s Sheet'!A2:T41"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got, want := a.A1(2, 2, 2, 0), "'Bob''s Sheet'!C2:C"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got, want := NewAccessor(nil, "").A1(0, 5, 3, 3), "A3:F3"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRangePadsShortRows(t *testing.T) {
	r := &gridReader{grids: map[string][][]string{
		"A2:C4": {{"1", "a"}, {}, {"3", "c", "x", "overflow"}},
	}}
	rows, err := NewAccessor(r, "").Range(context.Background(), 0, 2, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{
		{Address: 2, Cells: []string{"1", "a", ""}},
		{Address: 3, Cells: []string{"", "", ""}},
		{Address: 4, Cells: []string{"3", "c", "x"}},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("want %#v, got %#v", want, rows)
	}
	if !rows[1].Empty() || rows[0].Empty() {
		t.Fatalf("Empty() misreported")
	}
}

func TestRowsAtKeepsRequestOrder(t *testing.T) {
	r := &gridReader{grids: map[string][][]string{
		"A9:B9": {{"nine", "9"}},
		"A4:B4": {{"four"}},
	}}
	rows, err := NewAccessor(r, "").RowsAt(context.Background(), 0, 1, []int{9, 4, 7})
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{
		{Address: 9, Cells: []string{"nine", "9"}},
		{Address: 4, Cells: []string{"four", ""}},
		{Address: 7, Cells: []string{"", ""}},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("want %#v, got %#v", want, rows)
	}
	if len(r.batches) != 1 {
		t.Fatalf("expected a single batch read, got %d", len(r.batches))
	}
}

func TestRowCellTrims(t *testing.T) {
	row := Row{Cells: []string{"  hi \n"}}
	if row.Cell(0) != "hi" || row.Cell(5) != "" || row.Cell(-1) != "" {
		t.Fatalf("unexpected cell values")
	}
}
