package history

import "github.com/google/uuid"

// DefaultCapacity bounds a store when no explicit capacity is given.
const DefaultCapacity = 1000

// Entry is an immutable snapshot of a submitted line.
type Entry struct {
	// ID uniquely identifies the entry for callers that copy history
	// out (deduplication across stores, on-disk formats, diagnostics).
	ID string

	// Text is the submitted line, newlines included for multiline
	// submissions.
	Text string
}

// Store is a bounded ordered log of submitted lines with a browse
// cursor.
//
// Store is not safe for concurrent use; the session goroutine owns it.
type Store struct {
	capacity int
	entries  []Entry // oldest first

	// browse is the backward offset while browsing: 0 means not
	// browsing, n means n entries back from the newest.
	browse int

	// saved holds the uncommitted line captured on first entry into
	// browse mode.
	saved string
}

// NewStore creates a store bounded by capacity. Non-positive capacities
// fall back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Capacity returns the configured bound.
func (s *Store) Capacity() int {
	return s.capacity
}

// Entries returns a copy of the retained entries, oldest first.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Seed appends lines without applying the submission policy, for callers
// restoring persisted history. Capacity still applies.
func (s *Store) Seed(lines []string) {
	for _, line := range lines {
		s.append(line)
	}
}

// Push records a submitted line. Empty lines and lines equal to the most
// recent entry are rejected. Returns true if the line was retained.
func (s *Store) Push(line string) bool {
	if line == "" {
		return false
	}
	if n := len(s.entries); n > 0 && s.entries[n-1].Text == line {
		return false
	}
	s.append(line)
	return true
}

func (s *Store) append(line string) {
	s.entries = append(s.entries, Entry{ID: uuid.New().String(), Text: line})
	if len(s.entries) > s.capacity {
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
}

// Browsing returns true if a browse offset is active.
func (s *Store) Browsing() bool {
	return s.browse > 0
}

// Prev steps one entry back in time. On the first step it saves current,
// the uncommitted line, for later restoration. Returns the selected
// entry text, or ok=false when the store is empty or the cursor is
// already clamped at the oldest entry.
func (s *Store) Prev(current string) (string, bool) {
	if len(s.entries) == 0 || s.browse >= len(s.entries) {
		return "", false
	}
	if s.browse == 0 {
		s.saved = current
	}
	s.browse++
	return s.entries[len(s.entries)-s.browse].Text, true
}

// Next steps one entry forward in time. Stepping past the newest entry
// restores the line saved on browse entry and clears browse state.
// Returns ok=false when not browsing.
func (s *Store) Next() (string, bool) {
	if s.browse == 0 {
		return "", false
	}
	s.browse--
	if s.browse == 0 {
		restored := s.saved
		s.saved = ""
		return restored, true
	}
	return s.entries[len(s.entries)-s.browse].Text, true
}

// ResetBrowse leaves browse mode without restoring the saved line.
// Called on submit, when the recalled entry is what gets submitted.
func (s *Store) ResetBrowse() {
	s.browse = 0
	s.saved = ""
}
