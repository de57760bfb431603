package storage

import "time"

// Change types recorded in item_changes.
const (
	ChangeAdded   = "added"
	ChangeUpdated = "updated"
	ChangeRemoved = "removed"
)

// Change captures a single change event between two snapshots.
type Change struct {
	OccurredAt time.Time `json:"occurred_at"`
	RowAddress int       `json:"row_address"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Seller     string    `json:"seller"`
	ChangeType string    `json:"change_type"` // added | updated | removed
}

// SellerStats summarizes the stored snapshot for one seller.
type SellerStats struct {
	Seller    string `json:"seller"`
	ItemCount int    `json:"item_count"`
	Brands    int    `json:"brands"`
	Priced    int    `json:"priced"`
}

// ListOptions controls selection when listing stored items.
type ListOptions struct {
	Seller string
	Brand  string
	Since  time.Time
	Limit  int
}
