package reading

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vitea/chispa/internal/deck"
)

// DefaultMaxSpread is the largest spread accepted when none is configured.
const DefaultMaxSpread = 10

// Key identifies a reading. Questions are compared exactly, without normalization.
type Key struct {
	Question string
	Spread   int
}

// Selector draws cards for readings and remembers every draw for the life of
// the process, so the same (question, spread) always maps to the same cards.
type Selector struct {
	catalog *deck.Catalog

	mu       sync.RWMutex
	readings map[Key][]string

	boundsMu  sync.RWMutex
	minSpread int
	maxSpread int

	// first draw for a key is serialized per key
	group singleflight.Group

	rngMu sync.Mutex
	rng   *rand.Rand
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithSpreadBounds sets the inclusive spread bounds. The upper bound is
// clamped to the catalog size; max <= 0 means the catalog size.
func WithSpreadBounds(minSpread, maxSpread int) SelectorOption {
	return func(s *Selector) {
		s.minSpread, s.maxSpread = minSpread, maxSpread
	}
}

// WithRand sets the random source used for draws.
func WithRand(r *rand.Rand) SelectorOption {
	return func(s *Selector) {
		s.rng = r
	}
}

// NewSelector creates a selector over catalog.
func NewSelector(catalog *deck.Catalog, opts ...SelectorOption) *Selector {
	s := &Selector{
		catalog:   catalog,
		readings:  make(map[Key][]string),
		minSpread: 1,
		maxSpread: DefaultMaxSpread,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	s.SetBounds(s.minSpread, s.maxSpread)
	return s
}

// SetBounds updates the spread bounds. Existing readings are kept.
func (s *Selector) SetBounds(minSpread, maxSpread int) {
	if minSpread < 1 {
		minSpread = 1
	}
	if maxSpread <= 0 || maxSpread > s.catalog.Len() {
		maxSpread = s.catalog.Len()
	}
	if minSpread > maxSpread {
		minSpread = maxSpread
	}
	s.boundsMu.Lock()
	s.minSpread, s.maxSpread = minSpread, maxSpread
	s.boundsMu.Unlock()
}

// Bounds returns the inclusive spread bounds in effect.
func (s *Selector) Bounds() (minSpread, maxSpread int) {
	s.boundsMu.RLock()
	defer s.boundsMu.RUnlock()
	return s.minSpread, s.maxSpread
}

// Catalog returns the deck the selector draws from.
func (s *Selector) Catalog() *deck.Catalog {
	return s.catalog
}

// Resolve returns the cards for (question, spread), drawing them on first use.
// An out-of-bounds spread fails with ErrInvalidSpread and leaves the cache untouched.
func (s *Selector) Resolve(question string, spread int) ([]string, error) {
	if err := s.validate(spread); err != nil {
		return nil, err
	}

	key := Key{Question: question, Spread: spread}
	if cards, ok := s.lookup(key); ok {
		return cards, nil
	}

	v, err, _ := s.group.Do(flightKey(key), func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cards, ok := s.readings[key]; ok {
			return cards, nil
		}
		cards := s.draw(spread)
		s.readings[key] = cards
		return cards, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

// Lookup returns the stored cards for a key without drawing.
func (s *Selector) Lookup(question string, spread int) ([]string, bool) {
	return s.lookup(Key{Question: question, Spread: spread})
}

// Len returns the number of readings drawn so far.
func (s *Selector) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}

func (s *Selector) lookup(key Key) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards, ok := s.readings[key]
	if !ok {
		return nil, false
	}
	return clone(cards), true
}

func (s *Selector) validate(spread int) error {
	lo, hi := s.Bounds()
	if spread < lo || spread > hi {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidSpread, spread, lo, hi)
	}
	return nil
}

// draw samples n distinct cards uniformly without replacement using a
// partial Fisher-Yates shuffle: only the first n positions are settled.
func (s *Selector) draw(n int) []string {
	idx := make([]int, s.catalog.Len())
	for i := range idx {
		idx[i] = i
	}

	s.rngMu.Lock()
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	s.rngMu.Unlock()

	cards := make([]string, n)
	for i := range cards {
		cards[i] = s.catalog.At(idx[i])
	}
	return cards
}

func flightKey(k Key) string {
	return strconv.Itoa(k.Spread) + "\x00" + k.Question
}

func clone(cards []string) []string {
	out := make([]string, len(cards))
	copy(out, cards)
	return out
}
