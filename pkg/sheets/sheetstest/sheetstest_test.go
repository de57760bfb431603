package sheetstest

import (
	"context"
	"reflect"
	"testing"
)

func TestGridSlicesRanges(t *testing.T) {
	g := &Grid{Rows: [][]string{
		{"1", "a", "Alpha"},
		{"2", "b", "Beta"},
		{},
	}}
	got, err := g.Values(context.Background(), "'Sheet1'!B2:C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", "Alpha"}, {"b", "Beta"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}

	batch, err := g.BatchValues(context.Background(), []string{"A3:A3", "C2:C2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(batch, [][][]string{{{"2"}}, {{"Alpha"}}}) {
		t.Fatalf("unexpected batch %v", batch)
	}
	if len(g.ValueReads()) != 1 || g.BatchReads() != 1 {
		t.Fatalf("unexpected call counts %v %d", g.ValueReads(), g.BatchReads())
	}
}
