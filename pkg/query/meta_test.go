package query

import (
	"reflect"
	"testing"

	"github.com/sheetshop/sheetshop/pkg/sheets"
)

func TestBuildMetaSkipsUntitledRows(t *testing.T) {
	meta := BuildMeta([]sheets.Row{
		row(2, "1", "", "Air Max", "Nike", "Shoes", "s1"),
		row(3, "2", "custom", "", "Adidas", "Shoes", "s2"),
		row(4, "3", "Hand Made", "Bag", "", "Bags", "s1"),
	})

	want := []MetaRow{
		{RowAddress: 2, ID: "1", Slug: "air-max", Title: "Air Max", Brand: "Nike", Category: "Shoes", Seller: "s1"},
		{RowAddress: 4, ID: "3", Slug: "hand-made", Title: "Bag", Brand: "", Category: "Bags", Seller: "s1"},
	}
	if !reflect.DeepEqual(meta.Rows, want) {
		t.Fatalf("want %#v\ngot  %#v", want, meta.Rows)
	}
	wantFacets := Facets{Brands: []string{"Nike"}, Categories: []string{"Bags", "Shoes"}, Sellers: []string{"s1"}}
	if !reflect.DeepEqual(meta.Facets, wantFacets) {
		t.Fatalf("want %#v\ngot  %#v", wantFacets, meta.Facets)
	}
}
