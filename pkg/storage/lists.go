package storage

import (
	"context"
	"database/sql"
	"time"
)

// AddWishlistEntry inserts a wishlist row if absent. Returns false when
// the pair already existed; duplicate adds are no-ops, not errors.
func (d *DB) AddWishlistEntry(ctx context.Context, userID, identity string, now time.Time) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT OR IGNORE INTO wishlist(user_id, identity, added_at) VALUES(?,?,?)`,
		userID, identity, now.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) RemoveWishlistEntry(ctx context.Context, userID, identity string) error {
	_, err := d.sql.ExecContext(ctx,
		`DELETE FROM wishlist WHERE user_id = ? AND identity = ?`, userID, identity)
	return err
}

func (d *DB) ListWishlist(ctx context.Context, userID string) ([]WishlistEntry, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT w.user_id, w.added_at,
       p.identity, p.title, p.thumbnail, p.link, p.source, p.last_price, p.last_updated
FROM wishlist w
JOIN products p ON p.identity = w.identity
WHERE w.user_id = ?
ORDER BY w.added_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WishlistEntry
	for rows.Next() {
		var (
			e                      WishlistEntry
			thumb, link, lastPrice sql.NullString
		)
		if err := rows.Scan(&e.UserID, &e.AddedAt,
			&e.Product.Identity, &e.Product.Title, &thumb, &link,
			&e.Product.Source, &lastPrice, &e.Product.LastUpdated); err != nil {
			return nil, err
		}
		e.Product.Thumbnail = thumb.String
		e.Product.Link = link.String
		e.Product.LastPrice = lastPrice.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertCartEntry adds a listing to a user's cart, or replaces the
// reminder price and added_at when the pair already exists. An empty
// reminderPrice stores NULL, meaning no active reminder.
func (d *DB) UpsertCartEntry(ctx context.Context, userID, identity, reminderPrice string, now time.Time) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO cart(user_id, identity, reminder_price, added_at)
VALUES(?,?,?,?)
ON CONFLICT(user_id, identity) DO UPDATE SET
  reminder_price = excluded.reminder_price,
  added_at = excluded.added_at`,
		userID, identity, nullIfEmpty(reminderPrice), now.UTC())
	return err
}

func (d *DB) RemoveCartEntry(ctx context.Context, userID, identity string) error {
	_, err := d.sql.ExecContext(ctx,
		`DELETE FROM cart WHERE user_id = ? AND identity = ?`, userID, identity)
	return err
}

func (d *DB) ListCart(ctx context.Context, userID string) ([]CartEntry, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT c.user_id, c.reminder_price, c.added_at,
       p.identity, p.title, p.thumbnail, p.link, p.source, p.last_price, p.last_updated
FROM cart c
JOIN products p ON p.identity = c.identity
WHERE c.user_id = ?
ORDER BY c.added_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CartEntry
	for rows.Next() {
		var (
			e                                CartEntry
			reminder, thumb, link, lastPrice sql.NullString
		)
		if err := rows.Scan(&e.UserID, &reminder, &e.AddedAt,
			&e.Product.Identity, &e.Product.Title, &thumb, &link,
			&e.Product.Source, &lastPrice, &e.Product.LastUpdated); err != nil {
			return nil, err
		}
		e.ReminderPrice = reminder.String
		e.Product.Thumbnail = thumb.String
		e.Product.Link = link.String
		e.Product.LastPrice = lastPrice.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// ReminderRows returns every cart row with an active reminder, joined
// with the product snapshot and the owning account. The numeric
// comparison against last_price happens in the sweep, not here, since
// stored prices are free-form strings.
func (d *DB) ReminderRows(ctx context.Context) ([]Reminder, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT c.user_id, c.identity, c.reminder_price,
       p.title, p.last_price, p.link,
       u.email, u.name
FROM cart c
JOIN products p ON p.identity = c.identity
JOIN users u ON u.id = c.user_id
WHERE c.reminder_price IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Reminder
	for rows.Next() {
		var (
			r               Reminder
			lastPrice, link sql.NullString
		)
		if err := rows.Scan(&r.UserID, &r.Identity, &r.ReminderPrice,
			&r.Title, &lastPrice, &link, &r.Email, &r.Name); err != nil {
			return nil, err
		}
		r.LastPrice = lastPrice.String
		r.Link = link.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClearReminder nulls out a cart row's reminder without removing the row.
func (d *DB) ClearReminder(ctx context.Context, userID, identity string) error {
	_, err := d.sql.ExecContext(ctx,
		`UPDATE cart SET reminder_price = NULL WHERE user_id = ? AND identity = ?`,
		userID, identity)
	return err
}
