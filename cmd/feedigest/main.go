package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"daily-fee-digest/internal/digest"
	"daily-fee-digest/internal/logger"
	"daily-fee-digest/internal/report"
	"daily-fee-digest/internal/runlog"
	"daily-fee-digest/internal/storage"
	"daily-fee-digest/internal/store"
	"daily-fee-digest/internal/trades"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dateStr := flag.String("date", "", "date to process (YYYY-MM-DD, default: today)")
	dryRun := flag.Bool("dry-run", false, "print the payload without sending the webhook")
	mode := flag.String("mode", "", "delivery shape: card or summary (default: from config)")
	titleSuffix := flag.String("title-suffix", "", "suffix appended to the card title")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if v := os.Getenv("FEEDIGEST_WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	if v := os.Getenv("FEEDIGEST_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		_ = runlog.CompressOlder(n)
	}

	processDate := time.Now()
	if *dateStr != "" {
		processDate, err = time.ParseInLocation("2006-01-02", *dateStr, time.Local)
		if err != nil {
			fmt.Printf("Error: invalid -date %q, want YYYY-MM-DD\n", *dateStr)
			os.Exit(1)
		}
	}

	deliveryMode := cfg.Webhook.Mode
	if *mode != "" {
		if *mode != "card" && *mode != "summary" {
			fmt.Printf("Error: invalid -mode %q, want card or summary\n", *mode)
			os.Exit(1)
		}
		deliveryMode = *mode
	}

	rates := digest.RateSet{
		Options: digest.FeeRate{
			ExchangeFee:   cfg.Fees.Options.ExchangeFee,
			ClearingFee:   cfg.Fees.Options.ClearingFee,
			RegulatoryFee: cfg.Fees.Options.RegulatoryFee,
		},
		Futures: digest.FeeRate{
			ExchangeFee:   cfg.Fees.Futures.ExchangeFee,
			ClearingFee:   cfg.Fees.Futures.ClearingFee,
			RegulatoryFee: cfg.Fees.Futures.RegulatoryFee,
		},
	}

	fmt.Printf("Processing trades for: %s\n", processDate.Format("2006-01-02"))
	fmt.Printf("Options fee per contract: %s\n", digest.FormatCurrency(rates.Options.TotalPerContract()))
	fmt.Printf("Futures fee per contract: %s\n", digest.FormatCurrency(rates.Futures.TotalPerContract()))

	ctx := context.Background()

	objStore, err := storage.NewS3Store(ctx, cfg.S3.Region)
	if err != nil {
		fmt.Printf("Error initializing storage client: %v\n", err)
		os.Exit(1)
	}
	loader := trades.NewLoader(objStore, cfg.S3.Bucket, cfg.S3.Prefix)

	fmt.Printf("Fetching: s3://%s/%s\n", cfg.S3.Bucket, trades.ObjectKey(cfg.S3.Prefix, processDate))

	allTrades, err := loader.Load(ctx, processDate)
	if errors.Is(err, storage.ErrObjectNotFound) {
		fmt.Println("No trade file found for this date. Exiting.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error downloading trade file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d trades from file\n", len(allTrades))

	sessionTrades := digest.FilterSession(ctx, allTrades, processDate)
	fmt.Printf("Filtered to %d trades from last trading session (since 5pm previous day)\n", len(sessionTrades))

	res, err := digest.Aggregate(sessionTrades, rates)
	if err != nil {
		fmt.Printf("Error aggregating trades: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n--- Fee Summary ---")
	fmt.Printf("Options: %d trades, %d contracts, %s fees\n",
		res.Options.TradeCount, res.Options.TotalContracts, digest.FormatCurrency(res.Options.TotalFees))
	fmt.Printf("Futures: %d trades, %d contracts, %s fees\n",
		res.Futures.TradeCount, res.Futures.TotalContracts, digest.FormatCurrency(res.Futures.TotalFees))
	fmt.Printf("Total Fees: %s\n", digest.FormatCurrency(res.TotalFees))
	fmt.Println("-------------------")
	fmt.Println()

	message := report.BuildMessage(res, rates)
	now := time.Now()

	var payload any
	if deliveryMode == "summary" {
		payload = report.BuildSummaryPayload(processDate, res, rates, now)
	} else {
		payload = report.BuildCard(report.CardTitle(now, *titleSuffix), message, now)
	}

	if *dryRun {
		fmt.Println("Dry run - webhook payload:")
		if deliveryMode == "summary" {
			b, _ := json.MarshalIndent(payload, "", "  ")
			fmt.Println(string(b))
		} else {
			fmt.Println(message)
		}
		_ = runlog.Append(runEntry(processDate, res, false, true))
		_ = logger.Shutdown(ctx)
		return
	}

	if cfg.Webhook.URL == "" {
		fmt.Println("Error: no webhook URL configured")
		os.Exit(1)
	}

	reporter := report.NewReporter(cfg.Webhook.URL, cfg.Webhook.Headers,
		time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second)

	if err := reporter.Send(ctx, payload); err != nil {
		fmt.Printf("Error sending webhook: %v\n", err)
		_ = runlog.Append(runEntry(processDate, res, false, false))
		os.Exit(1)
	}

	_ = runlog.Append(runEntry(processDate, res, true, false))
	_ = logger.Shutdown(ctx)
}

func runEntry(processDate time.Time, res digest.Result, delivered, dryRun bool) runlog.Entry {
	return runlog.Entry{
		Date:           processDate.Format("2006-01-02"),
		TotalTrades:    res.TotalTrades,
		TotalContracts: res.TotalContracts,
		TotalFees:      res.TotalFees,
		Delivered:      delivered,
		DryRun:         dryRun,
	}
}
