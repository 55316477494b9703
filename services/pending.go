package services

import (
	"sync"
	"time"

	"coursecart/models"
)

// PendingStore holds payments that have been opened with the gateway but not
// yet confirmed. Entries live until a paid webhook claims them or the TTL
// sweep evicts them.
type PendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]models.PendingPayment
}

func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		ttl:     ttl,
		entries: make(map[string]models.PendingPayment),
	}
}

func (s *PendingStore) Put(p models.PendingPayment) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.mu.Lock()
	s.entries[p.OrderID] = p
	s.mu.Unlock()
}

// Claim removes and returns the entry for orderID. Check and delete happen
// under one lock, so concurrent webhook deliveries for the same order produce
// exactly one winner.
func (s *PendingStore) Claim(orderID string) (models.PendingPayment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.entries[orderID]
	if ok {
		delete(s.entries, orderID)
	}
	return p, ok
}

func (s *PendingStore) Delete(orderID string) {
	s.mu.Lock()
	delete(s.entries, orderID)
	s.mu.Unlock()
}

// Sweep evicts entries older than the TTL and reports how many were removed.
// Orders that never reach a paid status would otherwise accumulate forever.
func (s *PendingStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, p := range s.entries {
		if now.Sub(p.CreatedAt) > s.ttl {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
