package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bounds describes the default and maximum page size of one listing.
type Bounds struct {
	Default int
	Max     int
}

var (
	// Movements pages the inventory movement log.
	Movements = Bounds{Default: 100, Max: 500}
	// Orders pages the order history.
	Orders = Bounds{Default: 50, Max: 500}
	// Ledger pages the accounting journal.
	Ledger = Bounds{Default: 200, Max: 2000}
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the (timestamp, id) position of the last row of a page.
type Cursor struct {
	At time.Time
	ID uuid.UUID
}

// Page is the envelope returned by every cursor-paged listing.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Normalize enforces the default and maximum limits of b.
func (b Bounds) Normalize(limit int) int {
	if limit <= 0 {
		return b.Default
	}
	if limit > b.Max {
		return b.Max
	}
	return limit
}

// LimitWithBuffer returns the normalized limit plus one to detect the next page.
func (b Bounds) LimitWithBuffer(limit int) int {
	return b.Normalize(limit) + 1
}

// Trim cuts rows fetched with LimitWithBuffer down to the page size and
// reports the cursor of the last kept row when more rows exist.
func Trim[T any](rows []T, limit int, position func(T) Cursor) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	if len(rows) <= limit {
		return Page[T]{Items: rows}
	}
	rows = rows[:limit]
	return Page[T]{Items: rows, NextCursor: EncodeCursor(position(rows[len(rows)-1]))}
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.At.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components.
// An empty string means the first page and returns nil.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{At: t, ID: id}, nil
}
