package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(source_file|index|symbol|strategy_name|closed_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(
	sourceFile string,
	index int,
	symbol string,
	strategyName string,
	closedAtMs int64,
) string {
	data := fmt.Sprintf("%s|%d|%s|%s|%d",
		sourceFile,
		index,
		symbol,
		strategyName,
		closedAtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
