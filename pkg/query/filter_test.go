package query

import (
	"reflect"
	"testing"
)

func sampleRows() []MetaRow {
	return []MetaRow{
		mr(2, "Air Max 90", "Nike", "Shoes", "sellerA"),
		mr(3, "Crème Hoodie", "Stüssy", "Hoodies", "sellerB"),
		mr(4, "Dunk Low", "Nike", "Shoes", "sellerB"),
		mr(5, "Tote", "nike", "Bags", "sellerA"),
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		spec FilterSpec
		want []int
	}{
		{"no constraints", FilterSpec{}, []int{2, 3, 4, 5}},
		{"all sentinel", FilterSpec{Brand: All, Category: All, Seller: All}, []int{2, 3, 4, 5}},
		{"brand exact", FilterSpec{Brand: "Nike"}, []int{2, 4}},
		{"brand is case sensitive", FilterSpec{Brand: "nike"}, []int{5}},
		{"brand and seller", FilterSpec{Brand: "Nike", Seller: "sellerB"}, []int{4}},
		{"query folds accents", FilterSpec{Query: "creme"}, []int{3}},
		{"query folds case", FilterSpec{Query: "STUSSY"}, []int{3}},
		{"query spans fields", FilterSpec{Query: "sellera"}, []int{2, 5}},
		{"query and category", FilterSpec{Query: "nike", Category: "Shoes"}, []int{2, 4}},
		{"no match", FilterSpec{Category: "Hats"}, []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(sampleRows(), tc.spec)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSignatureNormalizes(t *testing.T) {
	a := FilterSpec{Query: " Crème ", Brand: ""}.Signature()
	b := FilterSpec{Query: "creme", Brand: "all", Category: "  "}.Signature()
	if a != b {
		t.Fatalf("signatures differ: %q vs %q", a, b)
	}
	if a == (FilterSpec{Brand: "Nike"}).Signature() {
		t.Fatalf("different specs share a signature")
	}
}
