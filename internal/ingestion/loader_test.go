package ingestion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFile = `{
	"trades": [
		{
			"symbol": "BTCUSDT",
			"strategy_name": "breakout",
			"type": "long",
			"entry_price": 62000.5,
			"exit_price": 63100.0,
			"PNL": 1099.5,
			"PNL_percentage": 1.77,
			"fee": 12.4,
			"holding_period": 5400,
			"opened_at": 1709280000000,
			"closed_at": 1709285400000
		},
		{
			"symbol": "ETHUSDT",
			"strategy_name": "meanrev",
			"type": "short",
			"entry_price": 3400.0,
			"exit_price": 3450.0,
			"PNL": -50.0,
			"PNL_percentage": -1.47,
			"fee": 3.1,
			"holding_period": 3600,
			"opened_at": 1709290800000,
			"closed_at": 1709294400000
		}
	],
	"considering_timeframes": ["1h", "4h"]
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadDirectory_Success(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "results.json", validFile)

	result, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.Equal(t, 2, result.Dataset.Len())

	first := result.Dataset.Trades()[0]
	assert.Equal(t, "BTCUSDT", first.Symbol)
	assert.Equal(t, "breakout", first.StrategyName)
	assert.Equal(t, "results.json", first.SourceFile)
	assert.Equal(t, []string{"1h", "4h"}, first.ConsideredTimeframes)
	assert.Equal(t, 0, first.Seq)
	assert.NotEmpty(t, first.TradeID)

	// Millisecond epochs become UTC times
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), first.OpenedAt)
	assert.Equal(t, time.UTC, first.ClosedAt.Location())

	second := result.Dataset.Trades()[1]
	assert.Equal(t, 1, second.Seq)
	assert.Equal(t, -50.0, second.PnL)

	assert.NotEmpty(t, result.Dataset.Fingerprint())
}

func TestLoadDirectory_MalformedFileBecomesWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", "{not json")
	writeFile(t, dir, "good.json", validFile)

	result, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "bad.json", result.Warnings[0].File)
	assert.Contains(t, result.Warnings[0].String(), "bad.json")
	assert.Equal(t, 2, result.Dataset.Len())
}

func TestLoadDirectory_MissingFieldSkipsWholeFile(t *testing.T) {
	dir := t.TempDir()
	// Second trade has no fee key: the whole file is rejected, including
	// the valid first trade.
	writeFile(t, dir, "partial.json", `{
		"trades": [
			{"symbol": "BTCUSDT", "strategy_name": "s", "type": "long",
			 "entry_price": 1, "exit_price": 2, "PNL": 1, "PNL_percentage": 1,
			 "fee": 0.1, "holding_period": 60, "opened_at": 1709280000000, "closed_at": 1709280060000},
			{"symbol": "ETHUSDT", "strategy_name": "s", "type": "long",
			 "entry_price": 1, "exit_price": 2, "PNL": 1, "PNL_percentage": 1,
			 "holding_period": 60, "opened_at": 1709280000000, "closed_at": 1709280060000}
		]
	}`)
	writeFile(t, dir, "valid.json", validFile)

	result, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)

	var missing *MissingFieldError
	require.ErrorAs(t, result.Warnings[0].Err, &missing)
	assert.Equal(t, "partial.json", missing.File)
	assert.Equal(t, 1, missing.Index)
	assert.Equal(t, "fee", missing.Field)

	assert.Equal(t, 2, result.Dataset.Len())
}

func TestLoadDirectory_NoData(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDirectory(dir)
	assert.ErrorIs(t, err, ErrNoData)

	// Files that all fail still end in ErrNoData
	writeFile(t, dir, "bad.json", "not json at all")
	_, err = LoadDirectory(dir)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLoadDirectory_MissingDirectory(t *testing.T) {
	_, err := LoadDirectory(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestLoadDirectory_IgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "results.json", validFile)
	writeFile(t, dir, "notes.txt", "not a trade file")
	writeFile(t, dir, "data.csv", "a,b,c")

	result, err := LoadDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 2, result.Dataset.Len())
}

func TestLoadDirectory_DeterministicFileOrder(t *testing.T) {
	dir := t.TempDir()
	// Written out of lexical order; loading must still process a.json first.
	writeFile(t, dir, "b.json", validFile)
	writeFile(t, dir, "a.json", `{
		"trades": [
			{"symbol": "SOLUSDT", "strategy_name": "s", "type": "long",
			 "entry_price": 1, "exit_price": 2, "PNL": 1, "PNL_percentage": 1,
			 "fee": 0.1, "holding_period": 60, "opened_at": 1709280000000, "closed_at": 1709280060000}
		]
	}`)

	result, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Equal(t, 3, result.Dataset.Len())

	trades := result.Dataset.Trades()
	assert.Equal(t, "a.json", trades[0].SourceFile)
	assert.Equal(t, 0, trades[0].Seq)
	assert.Equal(t, "b.json", trades[1].SourceFile)
	assert.Equal(t, 1, trades[1].Seq)
	assert.Equal(t, 2, trades[2].Seq)
}

func TestLoadDirectory_ZeroFeeIsNotMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zero.json", `{
		"trades": [
			{"symbol": "BTCUSDT", "strategy_name": "s", "type": "long",
			 "entry_price": 1, "exit_price": 2, "PNL": 0, "PNL_percentage": 0,
			 "fee": 0, "holding_period": 0, "opened_at": 1709280000000, "closed_at": 1709280000000}
		]
	}`)

	result, err := LoadDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	require.Equal(t, 1, result.Dataset.Len())
	assert.Equal(t, 0.0, result.Dataset.Trades()[0].Fee)
}
