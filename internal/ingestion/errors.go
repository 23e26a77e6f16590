package ingestion

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a load yields zero trades across all
// files in a location. It is distinct from partial-parse failures:
// callers must not proceed to metrics computation on it.
var ErrNoData = errors.New("no trade data found in location")

// MissingFieldError marks a required trade field absent from a source
// file. Fatal for the file being processed; the file's trades are
// skipped and the error joins the warning list. Fields are never
// coerced or defaulted.
type MissingFieldError struct {
	File  string
	Index int // position of the trade entry within the file
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: trade %d: missing required field %q", e.File, e.Index, e.Field)
}

// FileWarning records a recoverable per-file failure (unreadable or
// malformed file, missing field). The file is skipped and loading
// continues with the remaining files.
type FileWarning struct {
	File string
	Err  error
}

func (w FileWarning) String() string {
	return fmt.Sprintf("skipped %s: %v", w.File, w.Err)
}
