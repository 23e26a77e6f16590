// Package ingestion turns raw backtest result files into normalized,
// strictly-typed datasets. Dynamic JSON shapes are parsed and rejected
// at this boundary; nothing loosely-typed leaks into the metrics
// engine.
package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"backtest-analytics/internal/dataset"
	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/idhash"
)

// rawFile is the on-disk shape of one backtest result file.
type rawFile struct {
	Trades                []rawTrade `json:"trades"`
	ConsideringTimeframes []string   `json:"considering_timeframes"`
}

// rawTrade uses pointer fields so an absent key is distinguishable
// from a zero value. Presence of every field is required.
type rawTrade struct {
	Symbol        *string  `json:"symbol"`
	StrategyName  *string  `json:"strategy_name"`
	Type          *string  `json:"type"`
	EntryPrice    *float64 `json:"entry_price"`
	ExitPrice     *float64 `json:"exit_price"`
	PnL           *float64 `json:"PNL"`
	PnLPercentage *float64 `json:"PNL_percentage"`
	Fee           *float64 `json:"fee"`
	HoldingPeriod *int64   `json:"holding_period"`
	OpenedAt      *int64   `json:"opened_at"` // milliseconds since epoch
	ClosedAt      *int64   `json:"closed_at"` // milliseconds since epoch
}

// LoadResult is the output of a successful load: the dataset plus the
// non-fatal per-file warnings collected along the way.
type LoadResult struct {
	Dataset  *dataset.Dataset
	Warnings []FileWarning
}

// sourceFile pairs a file name with its content read at load time.
type sourceFile struct {
	name    string
	content []byte
}

// LoadDirectory reads every *.json file in dir and builds a dataset.
// Files are processed in lexicographic name order so insertion order
// is deterministic. Per-file failures become warnings; ErrNoData is
// returned when no file yields any trade.
func LoadDirectory(dir string) (*LoadResult, error) {
	files, err := readSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	return buildDataset(files)
}

// readSourceFiles reads the content of every *.json file in dir,
// sorted by name. Unreadable files are carried through with nil
// content and surface as warnings during the build.
func readSourceFiles(dir string) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := make([]sourceFile, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			files = append(files, sourceFile{name: name, content: nil})
			continue
		}
		files = append(files, sourceFile{name: name, content: content})
	}
	return files, nil
}

// buildDataset normalizes all source files into a dataset.
func buildDataset(files []sourceFile) (*LoadResult, error) {
	var (
		trades   []*domain.TradeRecord
		warnings []FileWarning
		digests  []idhash.FileDigest
	)

	seq := 0
	for _, f := range files {
		if f.content == nil {
			warnings = append(warnings, FileWarning{File: f.name, Err: fmt.Errorf("unreadable file")})
			continue
		}
		digests = append(digests, idhash.ComputeFileDigest(f.name, f.content))

		fileTrades, err := normalizeFile(f.name, f.content, seq)
		if err != nil {
			warnings = append(warnings, FileWarning{File: f.name, Err: err})
			continue
		}
		trades = append(trades, fileTrades...)
		seq += len(fileTrades)
	}

	if len(trades) == 0 {
		return nil, ErrNoData
	}

	fingerprint := idhash.ComputeFingerprint(digests)
	return &LoadResult{
		Dataset:  dataset.New(trades, fingerprint),
		Warnings: warnings,
	}, nil
}

// normalizeFile parses one source file into trade records. Any parse
// failure or missing required field is fatal for the whole file.
func normalizeFile(name string, content []byte, seqBase int) ([]*domain.TradeRecord, error) {
	var raw rawFile
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	trades := make([]*domain.TradeRecord, 0, len(raw.Trades))
	for i, rt := range raw.Trades {
		if field, ok := rt.missingField(); ok {
			return nil, &MissingFieldError{File: name, Index: i, Field: field}
		}

		trades = append(trades, &domain.TradeRecord{
			TradeID:      idhash.ComputeTradeID(name, i, *rt.Symbol, *rt.StrategyName, *rt.ClosedAt),
			Symbol:       *rt.Symbol,
			StrategyName: *rt.StrategyName,
			TradeType:    domain.TradeType(*rt.Type),

			EntryPrice:       *rt.EntryPrice,
			ExitPrice:        *rt.ExitPrice,
			PnL:              *rt.PnL,
			PnLPercentage:    *rt.PnLPercentage,
			Fee:              *rt.Fee,
			HoldingPeriodSec: *rt.HoldingPeriod,

			OpenedAt: fromMillis(*rt.OpenedAt),
			ClosedAt: fromMillis(*rt.ClosedAt),

			SourceFile:           name,
			ConsideredTimeframes: raw.ConsideringTimeframes,

			Seq: seqBase + i,
		})
	}
	return trades, nil
}

// missingField returns the first absent required field, in the order
// the source format documents them.
func (rt rawTrade) missingField() (string, bool) {
	checks := []struct {
		name    string
		present bool
	}{
		{"symbol", rt.Symbol != nil},
		{"strategy_name", rt.StrategyName != nil},
		{"type", rt.Type != nil},
		{"entry_price", rt.EntryPrice != nil},
		{"exit_price", rt.ExitPrice != nil},
		{"PNL", rt.PnL != nil},
		{"PNL_percentage", rt.PnLPercentage != nil},
		{"fee", rt.Fee != nil},
		{"holding_period", rt.HoldingPeriod != nil},
		{"opened_at", rt.OpenedAt != nil},
		{"closed_at", rt.ClosedAt != nil},
	}
	for _, c := range checks {
		if !c.present {
			return c.name, true
		}
	}
	return "", false
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
