package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sheetshop/sheetshop/pkg/catalog"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "snapshot.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func item(addr int, slug, seller string) catalog.Item {
	return catalog.Item{
		RowAddress: addr,
		Slug:       slug,
		Title:      slug,
		Brand:      "acme",
		Seller:     seller,
		Images:     []string{},
		Tags:       []string{},
	}
}

func changeKinds(changes []Change) map[int]string {
	out := make(map[int]string, len(changes))
	for _, c := range changes {
		out[c.RowAddress] = c.ChangeType
	}
	return out
}

func TestSaveSnapshotTracksChanges(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	first := []catalog.Item{item(2, "a", "s1"), item(3, "b", "s1"), item(4, "c", "s2")}
	changes, err := db.SaveSnapshot(ctx, first)
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	want := map[int]string{2: ChangeAdded, 3: ChangeAdded, 4: ChangeAdded}
	if got := changeKinds(changes); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}

	changes, err = db.SaveSnapshot(ctx, first)
	if err != nil {
		t.Fatalf("repeat snapshot: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("identical snapshot should not change anything, got %v", changes)
	}

	renamed := item(3, "b2", "s1")
	changes, err = db.SaveSnapshot(ctx, []catalog.Item{item(2, "a", "s1"), renamed, item(5, "d", "s2")})
	if err != nil {
		t.Fatalf("third snapshot: %v", err)
	}
	want = map[int]string{3: ChangeUpdated, 4: ChangeRemoved, 5: ChangeAdded}
	if got := changeKinds(changes); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}

	items, err := db.ListItems(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var slugs []string
	for _, it := range items {
		slugs = append(slugs, it.Slug)
	}
	if want := []string{"a", "b2", "d"}; !reflect.DeepEqual(slugs, want) {
		t.Fatalf("want %v, got %v", want, slugs)
	}

	recent, err := db.ListRecentChanges(ctx, 3)
	if err != nil {
		t.Fatalf("recent changes: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("want 3 recent changes, got %d", len(recent))
	}
	if recent[0].ChangeType != ChangeRemoved || recent[0].RowAddress != 4 {
		t.Fatalf("newest change should be the removal of row 4, got %+v", recent[0])
	}
}

func TestListItemsFilters(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	price := 12.5
	priced := item(3, "b", "s2")
	priced.PriceConverted = &price
	if _, err := db.SaveSnapshot(ctx, []catalog.Item{item(2, "a", "s1"), priced, item(4, "c", "s2")}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	items, err := db.ListItems(ctx, ListOptions{Seller: "s2", Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].RowAddress != 3 {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].PriceConverted == nil || *items[0].PriceConverted != price {
		t.Fatalf("price did not survive the round trip: %v", items[0].PriceConverted)
	}
}

func TestGetStats(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	price := 1.0
	priced := item(4, "c", "s2")
	priced.PriceConverted = &price
	noSeller := item(5, "d", "")
	if _, err := db.SaveSnapshot(ctx, []catalog.Item{item(2, "a", "s1"), item(3, "b", "s2"), priced, noSeller}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := []SellerStats{
		{Seller: "", ItemCount: 1, Brands: 1},
		{Seller: "s1", ItemCount: 1, Brands: 1},
		{Seller: "s2", ItemCount: 2, Brands: 1, Priced: 1},
	}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("want %+v, got %+v", want, stats)
	}
}
