// Package header holds the ordered "key: value" header lines owned by a
// client. Every read returns a copy, so a snapshot handed to an in-flight
// request never observes later appends.
package header

import (
	"slices"
	"strings"
	"sync"
)

// Store is an ordered, append-only list of header lines.
// Duplicate keys are kept; the last write does not replace earlier ones.
type Store struct {
	mu    sync.RWMutex
	lines []string
}

// New returns a Store seeded with the given lines, in order.
func New(lines ...string) *Store {
	return &Store{lines: slices.Clone(lines)}
}

// Append adds the line "key: value". Neither part is validated.
func (s *Store) Append(key, value string) {
	line := Line(key, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, line)
}

// Snapshot returns an independent copy of the current lines for use in a
// single request.
func (s *Store) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)

	return out
}

// Lines returns the current lines in insertion order.
func (s *Store) Lines() []string {
	return s.Snapshot()
}

// Len reports the number of lines held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.lines)
}

// Has reports whether any line carries the given key, compared
// case-insensitively.
func Has(lines []string, key string) bool {
	for _, line := range lines {
		k, _, ok := Parse(line)
		if ok && strings.EqualFold(k, key) {
			return true
		}
	}

	return false
}

// Line formats a single header line.
func Line(key, value string) string {
	return key + ": " + value
}

// Parse splits a header line at the first colon. The value is trimmed of
// surrounding whitespace. ok is false when the line has no colon or an
// empty key.
func Parse(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, ":")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}

	return key, strings.TrimSpace(value), true
}
