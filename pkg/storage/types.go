package storage

import "time"

// StoredProduct is the persistent snapshot of a listing, one row per
// identity. The latest search overwrites prior snapshot fields.
type StoredProduct struct {
	Identity    string    `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Link        string    `json:"link,omitempty"`
	Source      string    `json:"source"`
	LastPrice   string    `json:"last_price,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// PricePoint is one append-only price observation.
type PricePoint struct {
	Identity   string    `json:"id"`
	Price      string    `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// User is a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// WishlistEntry joins a wishlist row with its product snapshot.
type WishlistEntry struct {
	UserID  string        `json:"user_id"`
	Product StoredProduct `json:"product"`
	AddedAt time.Time     `json:"added_at"`
}

// CartEntry joins a cart row with its product snapshot. An empty
// ReminderPrice means no active reminder.
type CartEntry struct {
	UserID        string        `json:"user_id"`
	Product       StoredProduct `json:"product"`
	ReminderPrice string        `json:"reminder_price,omitempty"`
	AddedAt       time.Time     `json:"added_at"`
}

// Reminder is one cart row eligible for the price-drop sweep, joined with
// the product snapshot and the owning account.
type Reminder struct {
	UserID        string
	Identity      string
	ReminderPrice string
	Title         string
	LastPrice     string
	Link          string
	Email         string
	Name          string
}
