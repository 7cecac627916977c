// Package store holds the ephemeral post lists between fetch cycles.
//
// The store is deliberately in-memory: items live for a few days at most and
// a lost process simply refetches. A whole snapshot expires once its
// generation timestamp falls outside the retention window; individual items
// age out on every read.
package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/platform/observability"
)

// DefaultRetention is how long pending and posted items survive.
const DefaultRetention = 4 * 24 * time.Hour

// Store owns the pending/posted post lists for the dashboard.
type Store interface {
	Read() domain.Snapshot
	Save(items []domain.Item) domain.Snapshot
	MarkPosted(id string) domain.Snapshot
	Delete(id string) domain.Snapshot
	ClearHistory() domain.Snapshot
	Stats() domain.Stats
}

type memoryStore struct {
	mu        sync.Mutex
	snapshot  domain.Snapshot
	retention time.Duration
	now       func() time.Time
	logger    *zerolog.Logger
}

// New creates an empty in-memory store.
func New(retention time.Duration, logger *zerolog.Logger) Store {
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &memoryStore{
		snapshot:  domain.Snapshot{GeneratedAt: time.Now()},
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

// Read returns the current snapshot after applying expiry.
func (s *memoryStore) Read() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()

	return s.copyLocked()
}

// Save replaces the pending list with a fresh one, dropping any item whose
// id was already marked posted so re-fetched stories do not resurface.
func (s *memoryStore) Save(items []domain.Item) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()

	postedIDs := make(map[string]struct{}, len(s.snapshot.Posted))
	for _, it := range s.snapshot.Posted {
		postedIDs[it.ID] = struct{}{}
	}

	pending := make([]domain.Item, 0, len(items))

	for _, it := range items {
		if _, done := postedIDs[it.ID]; done {
			continue
		}

		pending = append(pending, it)
	}

	s.snapshot.GeneratedAt = s.now()
	s.snapshot.Pending = pending

	return s.copyLocked()
}

// MarkPosted moves one item from pending to posted, stamping the timestamp.
// Unknown ids are a no-op.
func (s *memoryStore) MarkPosted(id string) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()

	for i, it := range s.snapshot.Pending {
		if it.ID != id {
			continue
		}

		it.PostedAt = s.now()
		s.snapshot.Pending = append(s.snapshot.Pending[:i], s.snapshot.Pending[i+1:]...)
		s.snapshot.Posted = append([]domain.Item{it}, s.snapshot.Posted...)

		break
	}

	return s.copyLocked()
}

// Delete removes one pending item.
func (s *memoryStore) Delete(id string) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()

	pending := s.snapshot.Pending[:0]

	for _, it := range s.snapshot.Pending {
		if it.ID != id {
			pending = append(pending, it)
		}
	}

	s.snapshot.Pending = pending

	return s.copyLocked()
}

// ClearHistory empties the posted list.
func (s *memoryStore) ClearHistory() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	s.snapshot.Posted = nil

	return s.copyLocked()
}

// Stats aggregates posting history counters.
func (s *memoryStore) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()

	now := s.now()
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := domain.Stats{
		ByGroup:  make(map[string]int),
		BySource: make(map[string]int),
	}

	for _, it := range s.snapshot.Posted {
		stats.TotalPosted++

		if it.PostedAt.After(dayAgo) {
			stats.PostedToday++
		}

		if it.PostedAt.After(weekAgo) {
			stats.PostedThisWeek++
		}

		stats.ByGroup[it.Group]++
		stats.BySource[string(it.Source)]++
	}

	return stats
}

// expireLocked resets the whole snapshot once its generation timestamp ages
// out, otherwise drops individual items past retention.
func (s *memoryStore) expireLocked() {
	now := s.now()
	cutoff := now.Add(-s.retention)

	if s.snapshot.GeneratedAt.Before(cutoff) {
		expired := len(s.snapshot.Pending) + len(s.snapshot.Posted)
		if expired > 0 {
			observability.StoreExpiries.Add(float64(expired))
			s.logger.Info().Int("items", expired).Msg("store snapshot expired, resetting")
		}

		s.snapshot = domain.Snapshot{GeneratedAt: now}

		return
	}

	s.snapshot.Pending = s.dropExpiredLocked(s.snapshot.Pending, cutoff)
	s.snapshot.Posted = s.dropExpiredLocked(s.snapshot.Posted, cutoff)
}

func (s *memoryStore) dropExpiredLocked(items []domain.Item, cutoff time.Time) []domain.Item {
	kept := items[:0]

	for _, it := range items {
		ref := it.PostedAt
		if ref.IsZero() {
			ref = time.Unix(it.CreatedAt, 0)
		}

		if ref.After(cutoff) {
			kept = append(kept, it)
		} else {
			observability.StoreExpiries.Inc()
		}
	}

	return kept
}

func (s *memoryStore) copyLocked() domain.Snapshot {
	return domain.Snapshot{
		GeneratedAt: s.snapshot.GeneratedAt,
		Pending:     append([]domain.Item{}, s.snapshot.Pending...),
		Posted:      append([]domain.Item{}, s.snapshot.Posted...),
	}
}
