package digest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"daily-fee-digest/internal/logger"
	"daily-fee-digest/internal/trades"
)

// Trade timestamps arrive as MM/DD/YYYY-HH:MM:SS, e.g. 02/12/2026-03:10:20.
const tradeTimeLayout = "01/02/2006-15:04:05"

// Instrument class names as they appear in summaries.
const (
	ClassOptions = "options"
	ClassFutures = "futures"
)

// Summary aggregates the trades of one instrument class.
type Summary struct {
	Class          string
	TradeCount     int
	TotalContracts int
	TotalFees      float64
}

// Result is the terminal artifact of a run: both class summaries plus
// grand totals.
type Result struct {
	Options        Summary
	Futures        Summary
	TotalTrades    int
	TotalContracts int
	TotalFees      float64
}

// SessionStart returns the start of the trading session for a processing
// date: 17:00:00 on the previous calendar day. The session has no upper
// bound here; the caller is responsible for requesting the correct
// processing date each run.
func SessionStart(processDate time.Time) time.Time {
	return time.Date(processDate.Year(), processDate.Month(), processDate.Day(),
		17, 0, 0, 0, processDate.Location()).AddDate(0, 0, -1)
}

// FilterSession keeps trades from the last trading session. A record is
// retained when its trade source is not EXPIRATION (any case), it has a
// timestamp, and that timestamp parses and is at or after the session
// start. Records with a missing or unparseable timestamp are dropped with
// a warning.
func FilterSession(ctx context.Context, records []trades.Record, processDate time.Time) []trades.Record {
	sessionStart := SessionStart(processDate)

	var kept []trades.Record
	for _, r := range records {
		if strings.EqualFold(r.Source, "EXPIRATION") {
			continue
		}
		if r.Timestamp == "" {
			continue
		}
		tradeTime, err := time.ParseInLocation(tradeTimeLayout, r.Timestamp, processDate.Location())
		if err != nil {
			logger.Warn(ctx, "Error parsing trade timestamp", "timestamp", r.Timestamp, "error", err)
			continue
		}
		if !tradeTime.Before(sessionStart) {
			kept = append(kept, r)
		}
	}
	return kept
}

// classify maps an instrument type to its class. Case-insensitive,
// accepting singular and plural spellings. Anything else is excluded from
// both aggregates.
func classify(instrument string) (string, bool) {
	switch strings.ToLower(instrument) {
	case "option", "options":
		return ClassOptions, true
	case "future", "futures":
		return ClassFutures, true
	}
	return "", false
}

// Aggregate buckets records by instrument class and totals contract counts
// and fees. A row whose quantity column is present but not an integer
// fails the whole run; a row without a quantity column counts as zero
// contracts.
func Aggregate(records []trades.Record, rates RateSet) (Result, error) {
	options := Summary{Class: ClassOptions}
	futures := Summary{Class: ClassFutures}

	for i, r := range records {
		class, ok := classify(r.Instrument)
		if !ok {
			continue
		}

		contracts := 0
		if raw, present := r.Quantity(); present {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return Result{}, fmt.Errorf("record %d (%s): invalid quantity %q", i+1, class, raw)
			}
			contracts = n
		}

		switch class {
		case ClassOptions:
			options.TradeCount++
			options.TotalContracts += contracts
		case ClassFutures:
			futures.TradeCount++
			futures.TotalContracts += contracts
		}
	}

	options.TotalFees = float64(options.TotalContracts) * rates.Options.TotalPerContract()
	futures.TotalFees = float64(futures.TotalContracts) * rates.Futures.TotalPerContract()

	return Result{
		Options:        options,
		Futures:        futures,
		TotalTrades:    options.TradeCount + futures.TradeCount,
		TotalContracts: options.TotalContracts + futures.TotalContracts,
		TotalFees:      options.TotalFees + futures.TotalFees,
	}, nil
}
