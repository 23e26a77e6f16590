// Package dataset holds the immutable trade collection produced by the
// normalizer, the unique-value index used for selection, and the filter
// engine producing sub-views.
package dataset

import (
	"sort"
	"time"

	"backtest-analytics/internal/domain"
)

// Dataset is an immutable ordered sequence of trade records. It is
// built once per raw-data location and shared freely: all accessors are
// read-only and safe for concurrent use.
type Dataset struct {
	trades      []*domain.TradeRecord
	fingerprint string // base58 content fingerprint of the source location
}

// New builds a Dataset over the given records. The slice is owned by
// the Dataset after the call; callers must not mutate it.
func New(trades []*domain.TradeRecord, fingerprint string) *Dataset {
	return &Dataset{trades: trades, fingerprint: fingerprint}
}

// Trades returns the underlying records in insertion order. The
// returned slice must be treated as read-only.
func (d *Dataset) Trades() []*domain.TradeRecord {
	if d == nil {
		return nil
	}
	return d.trades
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.trades)
}

// Fingerprint returns the base58 content fingerprint of the location
// the dataset was built from. Filtered views keep the parent's
// fingerprint since they reference the same load.
func (d *Dataset) Fingerprint() string {
	if d == nil {
		return ""
	}
	return d.fingerprint
}

// Symbols returns the distinct symbols, sorted lexicographically.
func (d *Dataset) Symbols() []string {
	return d.distinct(func(t *domain.TradeRecord) string { return t.Symbol })
}

// Strategies returns the distinct strategy names, sorted
// lexicographically.
func (d *Dataset) Strategies() []string {
	return d.distinct(func(t *domain.TradeRecord) string { return t.StrategyName })
}

// DateRange returns the minimum and maximum OpenedAt over all records.
// ok is false for an empty dataset, in which case both times are zero.
func (d *Dataset) DateRange() (min, max time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}

	min = d.trades[0].OpenedAt
	max = d.trades[0].OpenedAt
	for _, t := range d.trades[1:] {
		if t.OpenedAt.Before(min) {
			min = t.OpenedAt
		}
		if t.OpenedAt.After(max) {
			max = t.OpenedAt
		}
	}
	return min, max, true
}

func (d *Dataset) distinct(key func(*domain.TradeRecord) string) []string {
	if d.Len() == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(d.trades))
	var values []string
	for _, t := range d.trades {
		k := key(t)
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}
