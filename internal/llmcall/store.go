package llmcall

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of calls kept when no capacity is configured.
const DefaultCapacity = 500

// Store keeps the most recent calls in memory, newest first on read.
// Older calls are dropped once capacity is reached; nothing survives a restart.
type Store struct {
	mu       sync.RWMutex
	calls    []Call
	next     int
	full     bool
	capacity int
}

// NewStore creates a store holding at most capacity calls.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		calls:    make([]Call, capacity),
		capacity: capacity,
	}
}

// QueryFilter specifies filters for listing calls.
type QueryFilter struct {
	Kind     string
	CardID   string
	Provider string
	After    *time.Time
	Before   *time.Time
	Success  *bool
	Limit    int
	Offset   int
}

// Add stores a call, evicting the oldest when full.
func (s *Store) Add(call Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[s.next] = call
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.full = true
	}
}

// Len returns the number of stored calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.full {
		return s.capacity
	}
	return s.next
}

// Get retrieves a single call by ID. Returns nil if absent.
func (s *Store) Get(id string) *Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.newestFirst() {
		if c.ID == id {
			found := c
			return &found
		}
	}
	return nil
}

// List retrieves calls matching the filter, newest first.
func (s *Store) List(filter QueryFilter) []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Call
	skipped := 0
	for _, c := range s.newestFirst() {
		if !filter.matches(c) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, c)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// CountByKind returns the number of stored calls per kind.
func (s *Store) CountByKind() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, c := range s.newestFirst() {
		counts[c.Kind]++
	}
	return counts
}

// newestFirst must be called with the lock held.
func (s *Store) newestFirst() []Call {
	n := s.next
	if s.full {
		n = s.capacity
	}
	out := make([]Call, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + s.capacity) % s.capacity
		out = append(out, s.calls[idx])
	}
	return out
}

func (f QueryFilter) matches(c Call) bool {
	if f.Kind != "" && c.Kind != f.Kind {
		return false
	}
	if f.CardID != "" && c.CardID != f.CardID {
		return false
	}
	if f.Provider != "" && c.Provider != f.Provider {
		return false
	}
	if f.Success != nil && c.Success != *f.Success {
		return false
	}
	if f.After != nil && !c.Timestamp.After(*f.After) {
		return false
	}
	if f.Before != nil && !c.Timestamp.Before(*f.Before) {
		return false
	}
	return true
}
