package record

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store is the read-only record access contract the intelligence layer
// consumes. Implementations must not mutate records on read.
type Store interface {
	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Range returns records with start <= timestamp < end, oldest first
	Range(ctx context.Context, start, end time.Time) ([]Record, error)

	// Substring returns records whose title, content, or tags contain text
	// case-insensitively, newest first
	Substring(ctx context.Context, text string) ([]Record, error)

	// Count returns the total number of stored records
	Count(ctx context.Context) (int, error)
}

// SliceStore is a mutex-guarded in-memory Store. It backs tests and
// zero-config runs; production uses the sqlite store.
type SliceStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewSliceStore creates a SliceStore seeded with the given records
func NewSliceStore(records ...Record) *SliceStore {
	s := &SliceStore{}
	s.records = append(s.records, records...)
	return s
}

// Add appends records to the store
func (s *SliceStore) Add(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Recent returns up to limit records, newest first
func (s *SliceStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Range returns records with start <= timestamp < end, oldest first
func (s *SliceStore) Range(ctx context.Context, start, end time.Time) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Substring returns records matching text case-insensitively, newest first
func (s *SliceStore) Substring(ctx context.Context, text string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(text)
	var out []Record
	for _, r := range s.records {
		if matchesSubstring(r, needle) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Count returns the total number of stored records
func (s *SliceStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func matchesSubstring(r Record, needle string) bool {
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Content), needle) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
