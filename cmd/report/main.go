// Command report loads trade files from a directory, applies optional
// filters and writes the performance report. When export DSNs are
// given, normalized trades go to Postgres and group metrics to
// ClickHouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"backtest-analytics/internal/analytics"
	"backtest-analytics/internal/dataset"
	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/ingestion"
	"backtest-analytics/internal/observability"
	"backtest-analytics/internal/reporting"
	"backtest-analytics/internal/storage"
	chstore "backtest-analytics/internal/storage/clickhouse"
	"backtest-analytics/internal/storage/migrations"
	pgstore "backtest-analytics/internal/storage/postgres"
)

func main() {
	dataDir := flag.String("data-dir", "", "Directory containing *.json trade files (required)")
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	symbols := flag.String("symbols", "", "Comma-separated symbol filter")
	strategies := flag.String("strategies", "", "Comma-separated strategy filter")
	start := flag.String("start", "", "Start date filter, YYYY-MM-DD (inclusive)")
	end := flag.String("end", "", "End date filter, YYYY-MM-DD (inclusive)")
	topN := flag.Int("top", 5, "Number of top strategies by total PnL in the report (0 disables)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for trade export (optional)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for group-metrics export (optional)")
	flag.Parse()

	ctx := context.Background()

	if *dataDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --data-dir is required")
		os.Exit(1)
	}

	criteria, err := buildCriteria(*symbols, *strategies, *start, *end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := ingestion.LoadDirectory(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trade files: %v\n", err)
		os.Exit(1)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w.String())
	}

	view, err := result.Dataset.Filter(criteria)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error applying filter: %v\n", err)
		os.Exit(1)
	}

	gen := reporting.NewGenerator(*dataDir, *topN, result.Warnings)
	report := gen.Generate(view)
	if err := gen.WriteFiles(report, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report files: %v\n", err)
		os.Exit(1)
	}

	if *postgresDSN != "" {
		if err := exportTrades(ctx, *postgresDSN, view); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting trades to postgres: %v\n", err)
			os.Exit(1)
		}
	}
	if *clickhouseDSN != "" {
		if err := exportGroupMetrics(ctx, *clickhouseDSN, view); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting group metrics to clickhouse: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Report generated successfully:")
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.ReportFileName)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.StrategyCSVFileName)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.SymbolCSVFileName)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.SeriesCSVFileName)
}

// buildCriteria assembles filter criteria from flag values.
func buildCriteria(symbols, strategies, start, end string) (domain.FilterCriteria, error) {
	var criteria domain.FilterCriteria

	criteria.Symbols = splitList(symbols)
	criteria.Strategies = splitList(strategies)

	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return criteria, fmt.Errorf("parse --start: %w", err)
		}
		criteria.Start = t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return criteria, fmt.Errorf("parse --end: %w", err)
		}
		criteria.End = t
	}

	if err := criteria.Validate(); err != nil {
		return criteria, err
	}
	return criteria, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// exportTrades migrates the postgres schema and bulk-inserts the
// filtered trades.
func exportTrades(ctx context.Context, dsn string, view *dataset.Dataset) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		observability.RecordExport("postgres", "error")
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		observability.RecordExport("postgres", "error")
		return err
	}

	store := pgstore.NewTradeRecordStore(pool)
	if err := store.InsertBulk(ctx, view.Trades()); err != nil {
		observability.RecordExport("postgres", "error")
		return err
	}

	observability.RecordExport("postgres", "ok")
	return nil
}

// exportGroupMetrics migrates the clickhouse schema and bulk-inserts
// strategy and symbol group metrics for the dataset fingerprint.
func exportGroupMetrics(ctx context.Context, dsn string, view *dataset.Dataset) error {
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		observability.RecordExport("clickhouse", "error")
		return err
	}
	defer conn.Close()

	computedAt := time.Now().UTC()
	var snapshots []storage.GroupMetricsSnapshot
	for _, key := range []domain.GroupKey{domain.GroupByStrategy, domain.GroupBySymbol} {
		for _, g := range analytics.GroupBy(view.Trades(), key) {
			snapshots = append(snapshots, storage.GroupMetricsSnapshot{
				Fingerprint: view.Fingerprint(),
				ComputedAt:  computedAt,
				Metrics:     g,
			})
		}
	}

	store := chstore.NewGroupMetricsStore(conn)
	if err := store.InsertBulk(ctx, snapshots); err != nil {
		observability.RecordExport("clickhouse", "error")
		return err
	}

	observability.RecordExport("clickhouse", "ok")
	return nil
}
