package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"backtest-analytics/internal/analytics"
	"backtest-analytics/internal/dataset"
	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/ingestion"
)

// Report file names written by the generator.
const (
	ReportFileName      = "REPORT.md"
	StrategyCSVFileName = "STRATEGY_METRICS.csv"
	SymbolCSVFileName   = "SYMBOL_METRICS.csv"
	SeriesCSVFileName   = "CUMULATIVE_PNL.csv"
)

// Generator produces reports from a dataset view.
type Generator struct {
	dataDir  string
	topN     int
	warnings []ingestion.FileWarning
	now      func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator. topN bounds the "top
// strategies by total PnL" section; 0 disables it.
func NewGenerator(dataDir string, topN int, warnings []ingestion.FileWarning) *Generator {
	return &Generator{
		dataDir:  dataDir,
		topN:     topN,
		warnings: warnings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate computes all metrics over the dataset view and assembles the
// report. Display rounding is applied here, at the output boundary.
func (g *Generator) Generate(ds *dataset.Dataset) *Report {
	trades := ds.Trades()

	longs := 0
	for _, t := range trades {
		if t.IsLong() {
			longs++
		}
	}

	minDate, maxDate, _ := ds.DateRange()

	warnings := make([]string, len(g.warnings))
	for i, w := range g.warnings {
		warnings[i] = w.String()
	}

	strategyMetrics := roundGroups(analytics.GroupBy(trades, domain.GroupByStrategy))
	symbolMetrics := roundGroups(analytics.GroupBy(trades, domain.GroupBySymbol))

	return &Report{
		GeneratedAt: g.now(),
		DataDir:     g.dataDir,
		Fingerprint: ds.Fingerprint(),
		Warnings:    warnings,

		DataSummary: DataSummary{
			TotalTrades:    ds.Len(),
			SymbolCount:    len(ds.Symbols()),
			StrategyCount:  len(ds.Strategies()),
			LongTrades:     longs,
			ShortTrades:    ds.Len() - longs,
			DateRangeStart: minDate,
			DateRangeEnd:   maxDate,
		},

		Overall: analytics.RoundSummary(analytics.Summarize(trades)),

		StrategyMetrics: strategyMetrics,
		SymbolMetrics:   symbolMetrics,
		TopStrategies:   analytics.TopByTotalPnL(strategyMetrics, g.topN),

		Series: analytics.CumulativeSeries(trades),
	}
}

// WriteFiles renders the report and writes all report files into
// outputDir, creating it if needed.
func (g *Generator) WriteFiles(r *Report, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	files := map[string]string{
		ReportFileName:      RenderMarkdown(r),
		StrategyCSVFileName: RenderGroupCSV(r.StrategyMetrics),
		SymbolCSVFileName:   RenderGroupCSV(r.SymbolMetrics),
		SeriesCSVFileName:   RenderSeriesCSV(r.Series),
	}

	for name, content := range files {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func roundGroups(groups []domain.GroupMetrics) []domain.GroupMetrics {
	rounded := make([]domain.GroupMetrics, len(groups))
	for i, g := range groups {
		rounded[i] = analytics.RoundGroup(g)
	}
	return rounded
}
