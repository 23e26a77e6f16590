package dataset

import (
	"backtest-analytics/internal/domain"
)

// Filter applies the criteria conjunctively and returns a new view over
// the matching records. The original dataset is untouched; record
// pointers are shared, never copied or mutated. An empty result is a
// valid dataset, not an error.
//
// Rules (AND, evaluation order does not affect the result):
//   - symbol in criteria.Symbols, when the set is non-empty
//   - strategy_name in criteria.Strategies, when the set is non-empty
//   - OpenedAt >= start of criteria.Start's day, when set
//   - OpenedAt < start of the day after criteria.End, when set
//
// Returns domain.ErrInvalidRange when Start falls after End.
func (d *Dataset) Filter(criteria domain.FilterCriteria) (*Dataset, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	symbols := toSet(criteria.Symbols)
	strategies := toSet(criteria.Strategies)

	var matched []*domain.TradeRecord
	for _, t := range d.Trades() {
		if len(symbols) > 0 {
			if _, ok := symbols[t.Symbol]; !ok {
				continue
			}
		}
		if len(strategies) > 0 {
			if _, ok := strategies[t.StrategyName]; !ok {
				continue
			}
		}
		if !criteria.Start.IsZero() && t.OpenedAt.Before(domain.DayStart(criteria.Start)) {
			continue
		}
		if !criteria.End.IsZero() {
			// Inclusive through the end of the end date.
			endExclusive := domain.DayStart(criteria.End).AddDate(0, 0, 1)
			if !t.OpenedAt.Before(endExclusive) {
				continue
			}
		}
		matched = append(matched, t)
	}

	return New(matched, d.Fingerprint()), nil
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
