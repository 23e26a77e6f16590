// Package memory provides in-memory implementations of the storage
// interfaces for tests and fixture runs.
package memory

import (
	"context"
	"sync"

	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore in memory.
type TradeRecordStore struct {
	mu    sync.RWMutex
	byID  map[string]*domain.TradeRecord
	order []*domain.TradeRecord
}

// NewTradeRecordStore creates a new in-memory TradeRecordStore.
func NewTradeRecordStore() *TradeRecordStore {
	return &TradeRecordStore{
		byID: make(map[string]*domain.TradeRecord),
	}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate whole batch before mutating.
	seen := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, ok := s.byID[t.TradeID]; ok {
			return storage.ErrDuplicateKey
		}
		if _, ok := seen[t.TradeID]; ok {
			return storage.ErrDuplicateKey
		}
		seen[t.TradeID] = struct{}{}
	}

	for _, t := range trades {
		c := *t
		s.byID[c.TradeID] = &c
		s.order = append(s.order, &c)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[tradeID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *t
	return &c, nil
}

// GetBySourceFile retrieves all trades from one source file, in insertion order.
func (s *TradeRecordStore) GetBySourceFile(ctx context.Context, sourceFile string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var trades []*domain.TradeRecord
	for _, t := range s.order {
		if t.SourceFile == sourceFile {
			c := *t
			trades = append(trades, &c)
		}
	}
	return trades, nil
}

// GetAll retrieves all trades in insertion order.
func (s *TradeRecordStore) GetAll(ctx context.Context) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := make([]*domain.TradeRecord, 0, len(s.order))
	for _, t := range s.order {
		c := *t
		trades = append(trades, &c)
	}
	return trades, nil
}
