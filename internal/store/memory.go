package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no observation is available for a given location.
	ErrNotFound = errors.New("no observations for location")
)

// series is the observation history of one location, oldest first.
type series []weather.Snapshot

// insert places snap after every snapshot observed at or before it.
func (s series) insert(snap weather.Snapshot) series {
	i := sort.Search(len(s), func(i int) bool {
		return s[i].ObservedAt.After(snap.ObservedAt)
	})
	s = append(s, weather.Snapshot{})
	copy(s[i+1:], s[i:])
	s[i] = snap
	return s
}

// window returns the sub-slice observed within [from, to].
func (s series) window(from, to time.Time) series {
	lo := sort.Search(len(s), func(i int) bool { return !s[i].ObservedAt.Before(from) })
	hi := sort.Search(len(s), func(i int) bool { return s[i].ObservedAt.After(to) })
	if lo >= hi {
		return nil
	}
	return s[lo:hi]
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]series

	maxHistory int           // max number of snapshots per location
	maxAge     time.Duration // optional max age for snapshots

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]series),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot inserts a snapshot in ObservedAt order and enforces retention.
func (s *MemoryStore) SaveSnapshot(_ context.Context, loc weather.Location, snapshot weather.Snapshot) error {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = s.retain(s.data[key].insert(snapshot))
	return nil
}

// retain drops the oldest snapshots beyond maxHistory and those older than
// maxAge. The newest snapshot always survives.
func (s *MemoryStore) retain(h series) series {
	if s.maxHistory > 0 && len(h) > s.maxHistory {
		h = h[len(h)-s.maxHistory:]
	}
	if s.maxAge > 0 && len(h) > 1 {
		cutoff := s.now().Add(-s.maxAge)
		keep := sort.Search(len(h)-1, func(i int) bool { return !h[i].ObservedAt.Before(cutoff) })
		h = h[keep:]
	}
	return h
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(_ context.Context, loc weather.Location) (weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.data[loc.Key()]
	if len(h) == 0 {
		return weather.Snapshot{}, ErrNotFound
	}
	return h[len(h)-1], nil
}

// GetRange returns all snapshots for a location between from and to (inclusive).
func (s *MemoryStore) GetRange(_ context.Context, loc weather.Location, from, to time.Time) ([]weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w := s.data[loc.Key()].window(from, to)
	if len(w) == 0 {
		return nil, ErrNotFound
	}
	out := make([]weather.Snapshot, len(w))
	copy(out, w)
	return out, nil
}
