package memory

import (
	"context"
	"sync"

	"backtest-analytics/internal/storage"
)

// GroupMetricsStore implements storage.GroupMetricsStore in memory.
type GroupMetricsStore struct {
	mu        sync.RWMutex
	snapshots []storage.GroupMetricsSnapshot
	keys      map[snapshotKey]struct{}
}

type snapshotKey struct {
	fingerprint string
	groupKey    string
	key         string
}

// NewGroupMetricsStore creates a new in-memory GroupMetricsStore.
func NewGroupMetricsStore() *GroupMetricsStore {
	return &GroupMetricsStore{
		keys: make(map[snapshotKey]struct{}),
	}
}

// Compile-time interface check.
var _ storage.GroupMetricsStore = (*GroupMetricsStore)(nil)

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *GroupMetricsStore) InsertBulk(ctx context.Context, snapshots []storage.GroupMetricsSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[snapshotKey]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap.Fingerprint == "" || snap.Metrics.Key == "" {
			return storage.ErrInvalidInput
		}
		k := snapshotKey{snap.Fingerprint, string(snap.Metrics.GroupKey), snap.Metrics.Key}
		if _, ok := s.keys[k]; ok {
			return storage.ErrDuplicateKey
		}
		if _, ok := seen[k]; ok {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, snap := range snapshots {
		k := snapshotKey{snap.Fingerprint, string(snap.Metrics.GroupKey), snap.Metrics.Key}
		s.keys[k] = struct{}{}
		s.snapshots = append(s.snapshots, snap)
	}
	return nil
}

// GetByFingerprint retrieves all snapshots for a dataset fingerprint.
func (s *GroupMetricsStore) GetByFingerprint(ctx context.Context, fingerprint string) ([]storage.GroupMetricsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.GroupMetricsSnapshot
	for _, snap := range s.snapshots {
		if snap.Fingerprint == fingerprint {
			out = append(out, snap)
		}
	}
	return out, nil
}

// GetAll retrieves all snapshots.
func (s *GroupMetricsStore) GetAll(ctx context.Context) ([]storage.GroupMetricsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.GroupMetricsSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out, nil
}
