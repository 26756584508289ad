// ABOUTME: Snapshot domain model combines both shelves captured at one point in time
// ABOUTME: Serializes to the persisted cache shape with an epoch-millisecond timestamp

package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is the combined current and recent book data captured at one time.
// CapturedAt is the commit time into the cache; zero means the snapshot was never
// committed (for example the bundled static file) and is not subject to TTL.
type Snapshot struct {
	CurrentBooks []Book
	ReadBooks    []Book
	CapturedAt   time.Time
}

// snapshotJSON is the wire shape shared by the cache entry and the static file
type snapshotJSON struct {
	CurrentBooks []Book `json:"currentBooks"`
	ReadBooks    []Book `json:"readBooks"`
	Timestamp    int64  `json:"timestamp,omitempty"`
}

// IsEmpty reports whether neither shelf holds a record
func (s Snapshot) IsEmpty() bool {
	return len(s.CurrentBooks) == 0 && len(s.ReadBooks) == 0
}

// HasTimestamp reports whether the snapshot carries a capture time
func (s Snapshot) HasTimestamp() bool {
	return !s.CapturedAt.IsZero()
}

// Age returns how long ago the snapshot was captured
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// Clone returns a copy whose shelves do not share backing arrays with s
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{CapturedAt: s.CapturedAt}
	out.CurrentBooks = cloneShelf(s.CurrentBooks)
	out.ReadBooks = cloneShelf(s.ReadBooks)
	return out
}

// cloneShelf keeps nil as nil and empty as empty
func cloneShelf(books []Book) []Book {
	if books == nil {
		return nil
	}
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// MarshalJSON writes the snapshot with the capture time as epoch milliseconds
func (s Snapshot) MarshalJSON() ([]byte, error) {
	wire := snapshotJSON{
		CurrentBooks: s.CurrentBooks,
		ReadBooks:    s.ReadBooks,
	}
	if wire.CurrentBooks == nil {
		wire.CurrentBooks = []Book{}
	}
	if wire.ReadBooks == nil {
		wire.ReadBooks = []Book{}
	}
	if s.HasTimestamp() {
		wire.Timestamp = s.CapturedAt.UnixMilli()
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads the persisted shape; a missing timestamp leaves CapturedAt zero
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var wire snapshotJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	s.CurrentBooks = wire.CurrentBooks
	s.ReadBooks = wire.ReadBooks
	s.CapturedAt = time.Time{}
	if wire.Timestamp > 0 {
		s.CapturedAt = time.UnixMilli(wire.Timestamp)
	}
	return nil
}
