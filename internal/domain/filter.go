package domain

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when filter criteria carry a start date
// after the end date. The engine reports the condition; it never swaps
// the bounds on the caller's behalf.
var ErrInvalidRange = errors.New("filter start date is after end date")

// FilterCriteria restricts a dataset view. A zero value on any
// dimension means no restriction on that dimension. Dates are
// date-granular: Start is inclusive from the start of its calendar day,
// End is inclusive through the end of its calendar day.
type FilterCriteria struct {
	Symbols    []string
	Strategies []string
	Start      time.Time
	End        time.Time
}

// IsEmpty reports whether the criteria restrict nothing.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Symbols) == 0 && len(c.Strategies) == 0 && c.Start.IsZero() && c.End.IsZero()
}

// Validate checks the date range. Returns ErrInvalidRange when both
// bounds are set and Start falls after End (compared at day
// granularity).
func (c FilterCriteria) Validate() error {
	if c.Start.IsZero() || c.End.IsZero() {
		return nil
	}
	if DayStart(c.Start).After(DayStart(c.End)) {
		return ErrInvalidRange
	}
	return nil
}

// DayStart truncates t to the start of its calendar day in UTC.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
