package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pricescope/pricescope/pkg/product"
)

// historyCap bounds how many price points are kept per identity. Older
// rows past the cap are pruned on append so history cannot grow without
// bound.
const historyCap = 50

var ErrNotFound = errors.New("not found")

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
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS products (
  identity     TEXT PRIMARY KEY,
  title        TEXT NOT NULL,
  thumbnail    TEXT,
  link         TEXT,
  source       TEXT NOT NULL,
  last_price   TEXT,
  last_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS price_history (
  id          INTEGER PRIMARY KEY,
  identity    TEXT NOT NULL,
  price       TEXT NOT NULL,
  recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_history_identity ON price_history(identity, recorded_at);
CREATE TABLE IF NOT EXISTS users (
  id            TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  email         TEXT NOT NULL UNIQUE,
  password_hash BLOB NOT NULL,
  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS wishlist (
  user_id  TEXT NOT NULL,
  identity TEXT NOT NULL,
  added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, identity)
);
CREATE TABLE IF NOT EXISTS cart (
  user_id        TEXT NOT NULL,
  identity       TEXT NOT NULL,
  reminder_price TEXT,
  added_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, identity)
);
    `); err != nil {
		db.Close()
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

// UpsertProduct writes the latest snapshot for a listing. Last write wins;
// this table holds no history.
func (d *DB) UpsertProduct(ctx context.Context, p product.Product, now time.Time) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO products(identity, title, thumbnail, link, source, last_price, last_updated)
VALUES(?,?,?,?,?,?,?)
ON CONFLICT(identity) DO UPDATE SET
  title = excluded.title,
  thumbnail = excluded.thumbnail,
  link = excluded.link,
  source = excluded.source,
  last_price = excluded.last_price,
  last_updated = excluded.last_updated`,
		p.ID, p.Title, nullIfEmpty(p.Thumbnail), nullIfEmpty(p.Link), p.Source, nullIfEmpty(p.Price), now.UTC())
	return err
}

// AppendPricePoint records one observation of a listing's price. The raw
// provider string is stored untouched, so entries under one identity may
// mix currency formatting over time.
func (d *DB) AppendPricePoint(ctx context.Context, identity, price string, now time.Time) error {
	if _, err := d.sql.ExecContext(ctx,
		`INSERT INTO price_history(identity, price, recorded_at) VALUES(?,?,?)`,
		identity, price, now.UTC()); err != nil {
		return err
	}
	// Prune beyond the retention cap.
	_, err := d.sql.ExecContext(ctx, `
DELETE FROM price_history
WHERE identity = ? AND id NOT IN (
  SELECT id FROM price_history WHERE identity = ?
  ORDER BY recorded_at DESC, id DESC LIMIT ?
)`, identity, identity, historyCap)
	return err
}

// RecentPrices returns up to limit price strings for an identity, newest
// first.
func (d *DB) RecentPrices(ctx context.Context, identity string, limit int) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT price FROM price_history WHERE identity = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		identity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListHistory returns every retained price point for an identity, oldest
// first.
func (d *DB) ListHistory(ctx context.Context, identity string) ([]PricePoint, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT price, recorded_at FROM price_history WHERE identity = ? ORDER BY recorded_at ASC, id ASC`,
		identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PricePoint
	for rows.Next() {
		var pp PricePoint
		if err := rows.Scan(&pp.Price, &pp.RecordedAt); err != nil {
			return nil, err
		}
		pp.Identity = identity
		out = append(out, pp)
	}
	return out, rows.Err()
}

// GetProduct loads the stored snapshot for one identity.
func (d *DB) GetProduct(ctx context.Context, identity string) (StoredProduct, error) {
	var (
		sp                     StoredProduct
		thumb, link, lastPrice sql.NullString
	)
	err := d.sql.QueryRowContext(ctx,
		`SELECT identity, title, thumbnail, link, source, last_price, last_updated FROM products WHERE identity = ?`,
		identity).Scan(&sp.Identity, &sp.Title, &thumb, &link, &sp.Source, &lastPrice, &sp.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredProduct{}, ErrNotFound
	}
	if err != nil {
		return StoredProduct{}, err
	}
	sp.Thumbnail = thumb.String
	sp.Link = link.String
	sp.LastPrice = lastPrice.String
	return sp, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
