package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EntryCursor is the position after the last ledger entry of a page.
// Entries are ordered by event date, then creation time, then ID, all descending.
type EntryCursor struct {
	EventDate time.Time
	CreatedAt time.Time
	EntryID   string
}

// EncodeEntryCursor creates an opaque base64 token from a cursor.
func EncodeEntryCursor(c EntryCursor) string {
	tokenStr := strings.Join([]string{c.EventDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.EntryID}, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeEntryCursor parses a token produced by EncodeEntryCursor.
func DecodeEntryCursor(token string) (EntryCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	eventDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (event date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return EntryCursor{EventDate: eventDate, CreatedAt: createdAt, EntryID: parts[2]}, nil
}

// After reports whether an entry at (eventDate, createdAt, entryID) sorts after
// the cursor in the descending listing order, i.e. belongs to a later page.
func (c EntryCursor) After(eventDate, createdAt time.Time, entryID string) bool {
	if !eventDate.Equal(c.EventDate) {
		return eventDate.Before(c.EventDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return entryID < c.EntryID
}
