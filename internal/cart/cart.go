// Package cart holds the in-progress selection of products. Mutations are
// written through to the local store after every change; totals are always
// recomputed from the live items so they cannot drift.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/storage"
)

const storageKey = "cart"

// Item is the product metadata a line is created from.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Line is one cart entry. Quantity is always >= 1; a line that would drop
// to zero is removed instead.
type Line struct {
	Item
	Quantity int `json:"quantity"`
}

type Store struct {
	mu    sync.Mutex
	lines []Line
	index map[string]int

	local  *storage.Store
	logger *slog.Logger

	subs []func()
}

// New restores the persisted cart from local. Absent or corrupt data starts
// an empty cart; corruption is logged, never surfaced.
func New(ctx context.Context, local *storage.Store) *Store {
	logger := logging.FromContext(ctx).With("svc", "cart")
	s := &Store{
		index:  make(map[string]int),
		local:  local,
		logger: logger,
	}

	raw, ok, err := local.Get(ctx, storageKey)
	if err != nil {
		logger.Warn("cart_restore_failed", "error", err)
		return s
	}
	if !ok {
		return s
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		logger.Warn("cart_restore_corrupt", "error", err)
		return s
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if _, dup := s.index[l.ID]; dup {
			continue
		}
		s.index[l.ID] = len(s.lines)
		s.lines = append(s.lines, l)
	}
	return s
}

// Add merges qty into an existing line for item.ID, keeping the metadata of
// the first add, or appends a new line. qty below 1 is clamped to 1.
func (s *Store) Add(ctx context.Context, item Item, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	if i, ok := s.index[item.ID]; ok {
		s.lines[i].Quantity += qty
	} else {
		s.index[item.ID] = len(s.lines)
		s.lines = append(s.lines, Line{Item: item, Quantity: qty})
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// Remove deletes the line for id. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].ID] = j
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// UpdateQuantity sets the quantity of the line for id. A missing id is a
// no-op; qty <= 0 removes the line rather than storing an impossible count.
func (s *Store) UpdateQuantity(ctx context.Context, id string, qty int) {
	if qty <= 0 {
		s.Remove(ctx, id)
		return
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = qty
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// Clear empties the cart and persists the empty state, keeping the storage
// slot itself.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.index = make(map[string]int)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// Lines returns a snapshot of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalItems is the sum of all quantities, recomputed on every call.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of price × quantity, recomputed on every call.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, l := range s.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// Subscribe registers fn to run after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) persistLocked(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.logger.Error("cart_persist_encode_failed", "error", err)
		return
	}
	if err := s.local.Set(ctx, storageKey, string(raw)); err != nil {
		s.logger.Error("cart_persist_failed", "error", err)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
