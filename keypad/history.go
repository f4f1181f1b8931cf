package keypad

import (
	"encoding/json"
	"fmt"
	"sync"
)

const (
	// HistoryKey is the store key under which history is kept.
	HistoryKey = "calculatorHistory"
	// DefaultLimit is the number of entries a history keeps by default.
	DefaultLimit = 50
)

// History is a log of calculations, newest first. It is safe for concurrent
// use. If it has a store, every change is saved there as a JSON array of
// strings under HistoryKey.
type History struct {
	mu      sync.Mutex
	entries []string
	limit   int
	store   Store
}

// NewHistory creates an empty history keeping at most limit entries. If limit
// is not positive, DefaultLimit is used. store may be nil.
func NewHistory(store Store, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit, store: store}
}

// LoadHistory creates a history with the entries saved in store. Entries
// beyond limit are dropped.
func LoadHistory(store Store, limit int) (*History, error) {
	h := NewHistory(store, limit)
	v, ok, err := store.Get(HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if !ok || v == "" {
		return h, nil
	}
	if err := json.Unmarshal([]byte(v), &h.entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return h, nil
}

// Add records an entry as the newest, dropping the oldest if the history is
// full. The entry is kept even if saving it fails.
func (h *History) Add(entry string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries) + 1
	if n > h.limit {
		n = h.limit
	}
	r := make([]string, n)
	r[0] = entry
	copy(r[1:], h.entries)
	h.entries = r
	return h.save()
}

// Entries returns a copy of the entries, newest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Limit returns the maximum number of entries.
func (h *History) Limit() int {
	return h.limit
}

// Clear removes all entries, including saved ones.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	if h.store == nil {
		return nil
	}
	return h.store.Delete(HistoryKey)
}

func (h *History) save() error {
	if h.store == nil {
		return nil
	}
	b, err := json.Marshal(h.entries)
	if err != nil {
		return err
	}
	if err := h.store.Set(HistoryKey, string(b)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
