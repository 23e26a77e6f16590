package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Backtest Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Data: %s (fingerprint %s)\n\n", r.DataDir, r.Fingerprint))

	// Warnings
	if len(r.Warnings) > 0 {
		sb.WriteString("## Load Warnings\n\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.DataSummary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Symbols | %d |\n", r.DataSummary.SymbolCount))
	sb.WriteString(fmt.Sprintf("| Strategies | %d |\n", r.DataSummary.StrategyCount))
	sb.WriteString(fmt.Sprintf("| Long Trades | %d |\n", r.DataSummary.LongTrades))
	sb.WriteString(fmt.Sprintf("| Short Trades | %d |\n", r.DataSummary.ShortTrades))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| First Open | %s |\n", r.DataSummary.DateRangeStart.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("| Last Open | %s |\n", r.DataSummary.DateRangeEnd.Format(time.RFC3339)))
	}
	sb.WriteString("\n")

	// Overall Metrics
	sb.WriteString("## Overall Metrics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total PnL | %s |\n", formatPnL(r.Overall.TotalPnL)))
	sb.WriteString(fmt.Sprintf("| Avg PnL | %s |\n", formatRatio(r.Overall.AvgPnL)))
	sb.WriteString(fmt.Sprintf("| Median PnL | %s |\n", formatRatio(r.Overall.MedianPnL)))
	sb.WriteString(fmt.Sprintf("| Std PnL | %s |\n", formatRatio(r.Overall.StdPnL)))
	sb.WriteString(fmt.Sprintf("| Win Rate | %s%% |\n", formatPnL(r.Overall.WinRate)))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", formatProfitFactor(r.Overall.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("| Expected Value | %s |\n", formatRatio(r.Overall.ExpectedValue)))
	sb.WriteString(fmt.Sprintf("| Max Profit | %s |\n", formatPnL(r.Overall.MaxProfit)))
	sb.WriteString(fmt.Sprintf("| Max Loss | %s |\n", formatPnL(r.Overall.MaxLoss)))
	sb.WriteString(fmt.Sprintf("| Gross Profit | %s |\n", formatPnL(r.Overall.GrossProfit)))
	sb.WriteString(fmt.Sprintf("| Gross Loss | %s |\n", formatPnL(r.Overall.GrossLoss)))
	sb.WriteString(fmt.Sprintf("| Reward/Variability | %s |\n", formatRatio(r.Overall.RewardVariability)))
	sb.WriteString("\n")

	// Top strategies
	if len(r.TopStrategies) > 0 {
		sb.WriteString(fmt.Sprintf("## Top %d Strategies by Total PnL\n\n", len(r.TopStrategies)))
		writeGroupTable(&sb, ToTable(r.TopStrategies))
	}

	// Per-strategy metrics
	sb.WriteString("## Strategy Metrics\n\n")
	if len(r.StrategyMetrics) > 0 {
		writeGroupTable(&sb, ToTable(r.StrategyMetrics))
	} else {
		sb.WriteString("No strategy metrics available.\n\n")
	}

	// Per-symbol metrics
	sb.WriteString("## Symbol Metrics\n\n")
	if len(r.SymbolMetrics) > 0 {
		writeGroupTable(&sb, ToTable(r.SymbolMetrics))
	} else {
		sb.WriteString("No symbol metrics available.\n\n")
	}

	return sb.String()
}

// writeGroupTable renders a Table as a markdown table.
func writeGroupTable(sb *strings.Builder, table Table) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(table.Columns, " | "))
	sb.WriteString(" |\n|")
	for range table.Columns {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	for _, row := range table.Rows {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString(" |\n")
	}
	sb.WriteString("\n")
}
