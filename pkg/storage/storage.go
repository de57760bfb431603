// Package storage keeps a local SQLite snapshot of the catalog and records
// which rows were added, updated or removed between snapshots.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sheetshop/sheetshop/pkg/catalog"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS items (
  row_address     INTEGER PRIMARY KEY,
  item_id         TEXT,
  slug            TEXT NOT NULL,
  title           TEXT NOT NULL,
  brand           TEXT,
  category        TEXT,
  seller          TEXT,
  source_domain   TEXT,
  price_converted REAL,
  payload         TEXT NOT NULL,
  run_id          INTEGER NOT NULL DEFAULT 0,
  first_seen_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_items_seller ON items(seller);
CREATE INDEX IF NOT EXISTS idx_items_slug ON items(slug);
CREATE TABLE IF NOT EXISTS item_changes (
  id          INTEGER PRIMARY KEY,
  occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  row_address INTEGER NOT NULL,
  slug        TEXT NOT NULL,
  title       TEXT NOT NULL,
  seller      TEXT,
  change_type TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON item_changes(occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveSnapshot stores items keyed by row address. Rows that were stored
// before but are missing from items are removed. Every difference is logged
// to item_changes and returned.
func (d *DB) SaveSnapshot(ctx context.Context, items []catalog.Item) (changes []Change, err error) {
	now := time.Now().UTC()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var runID int64
	if err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(run_id), 0) + 1 FROM items").Scan(&runID); err != nil {
		return nil, err
	}

	existing := make(map[int]string)
	rows, err := tx.QueryContext(ctx, "SELECT row_address, payload FROM items")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			addr    int
			payload string
		)
		if err = rows.Scan(&addr, &payload); err != nil {
			rows.Close()
			return nil, err
		}
		existing[addr] = payload
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	for _, it := range items {
		var raw []byte
		if raw, err = json.Marshal(it); err != nil {
			return nil, err
		}
		payload := string(raw)

		prev, existed := existing[it.RowAddress]
		switch {
		case !existed:
			_, err = tx.ExecContext(ctx, `INSERT INTO items(row_address, item_id, slug, title, brand, category, seller, source_domain, price_converted, payload, run_id) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
				it.RowAddress, nullIfEmpty(it.ID), it.Slug, it.Title, nullIfEmpty(it.Brand), nullIfEmpty(it.Category), nullIfEmpty(it.Seller), nullIfEmpty(it.SourceDomain), nullFloat(it.PriceConverted), payload, runID)
			if err != nil {
				return nil, err
			}
			if err = logChange(ctx, tx, it.RowAddress, it.Slug, it.Title, it.Seller, ChangeAdded); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, RowAddress: it.RowAddress, Slug: it.Slug, Title: it.Title, Seller: it.Seller, ChangeType: ChangeAdded})
			existing[it.RowAddress] = payload
		case prev != payload:
			_, err = tx.ExecContext(ctx, `UPDATE items SET item_id = ?, slug = ?, title = ?, brand = ?, category = ?, seller = ?, source_domain = ?, price_converted = ?, payload = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE row_address = ?`,
				nullIfEmpty(it.ID), it.Slug, it.Title, nullIfEmpty(it.Brand), nullIfEmpty(it.Category), nullIfEmpty(it.Seller), nullIfEmpty(it.SourceDomain), nullFloat(it.PriceConverted), payload, runID, it.RowAddress)
			if err != nil {
				return nil, err
			}
			if err = logChange(ctx, tx, it.RowAddress, it.Slug, it.Title, it.Seller, ChangeUpdated); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, RowAddress: it.RowAddress, Slug: it.Slug, Title: it.Title, Seller: it.Seller, ChangeType: ChangeUpdated})
		default:
			_, err = tx.ExecContext(ctx, `UPDATE items SET run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE row_address = ?`, runID, it.RowAddress)
			if err != nil {
				return nil, err
			}
		}
	}

	// Sweep: rows not touched in this run are gone from the sheet.
	stale, err := tx.QueryContext(ctx, "SELECT row_address, slug, title, COALESCE(seller, '') FROM items WHERE run_id != ? ORDER BY row_address", runID)
	if err != nil {
		return nil, err
	}
	var removed []Change
	for stale.Next() {
		c := Change{OccurredAt: now, ChangeType: ChangeRemoved}
		if err = stale.Scan(&c.RowAddress, &c.Slug, &c.Title, &c.Seller); err != nil {
			stale.Close()
			return nil, err
		}
		removed = append(removed, c)
	}
	if err = stale.Close(); err != nil {
		return nil, err
	}

	if len(removed) > 0 {
		if _, err = tx.ExecContext(ctx, `DELETE FROM items WHERE run_id != ?`, runID); err != nil {
			return nil, err
		}
		for _, c := range removed {
			if err = logChange(ctx, tx, c.RowAddress, c.Slug, c.Title, c.Seller, ChangeRemoved); err != nil {
				return nil, err
			}
		}
		changes = append(changes, removed...)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

func logChange(ctx context.Context, tx *sql.Tx, addr int, slug, title, seller, kind string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO item_changes(occurred_at, row_address, slug, title, seller, change_type) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, ?, ?)`, addr, slug, title, nullIfEmpty(seller), kind)
	return err
}

// ListItems returns stored items matching opts in row order.
func (d *DB) ListItems(ctx context.Context, opts ListOptions) ([]catalog.Item, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Seller != "" {
		where += " AND seller = ?"
		args = append(args, opts.Seller)
	}
	if opts.Brand != "" {
		where += " AND brand = ?"
		args = append(args, opts.Brand)
	}
	if !opts.Since.IsZero() {
		where += " AND last_seen_at >= ?"
		args = append(args, opts.Since.UTC().Format(sqliteTime))
	}
	q := "SELECT payload FROM items " + where + " ORDER BY row_address"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []catalog.Item{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var it catalog.Item
		if err := json.Unmarshal([]byte(payload), &it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const sqliteTime = "2006-01-02 15:04:05"

// ListRecentChanges returns the most recent N changes.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, row_address, slug, title, COALESCE(seller, ''), change_type FROM item_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAt string
		if err := rows.Scan(&occurredAt, &c.RowAddress, &c.Slug, &c.Title, &c.Seller, &c.ChangeType); err != nil {
			return nil, err
		}
		// CURRENT_TIMESTAMP format, with RFC3339 as a fallback
		if t, perr := time.Parse(sqliteTime, occurredAt); perr == nil {
			c.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAt); perr2 == nil {
			c.OccurredAt = t2
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

func (d *DB) GetStats(ctx context.Context) ([]SellerStats, error) {
	query := `
		SELECT
			COALESCE(seller, ''),
			COUNT(*),
			COUNT(DISTINCT brand),
			COUNT(price_converted)
		FROM
			items
		GROUP BY
			COALESCE(seller, '')
		ORDER BY
			1;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SellerStats
	for rows.Next() {
		var s SellerStats
		if err := rows.Scan(&s.Seller, &s.ItemCount, &s.Brands, &s.Priced); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
