package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"daily-fee-digest/internal/digest"
)

func sampleResult() (digest.Result, digest.RateSet) {
	rates := digest.RateSet{
		Options: digest.FeeRate{ExchangeFee: 0.02, ClearingFee: 0.01, RegulatoryFee: 0.01},
		Futures: digest.FeeRate{ExchangeFee: 0.85, ClearingFee: 0.10, RegulatoryFee: 0.05},
	}
	res := digest.Result{
		Options:        digest.Summary{Class: digest.ClassOptions, TradeCount: 3, TotalContracts: 20, TotalFees: 0.80},
		Futures:        digest.Summary{Class: digest.ClassFutures, TradeCount: 2, TotalContracts: 2, TotalFees: 2.00},
		TotalTrades:    5,
		TotalContracts: 22,
		TotalFees:      2.80,
	}
	return res, rates
}

func TestBuildMessage(t *testing.T) {
	res, rates := sampleResult()
	msg := BuildMessage(res, rates)

	for _, want := range []string{
		"**Total Fees: $2.80**",
		"**Options**",
		"• Trades: 3",
		"• Contracts: 20",
		"$0.80 @ $0.04/contract",
		"**Futures**",
		"$2.00 @ $1.00/contract",
		"**Totals:** 5 trades, 22 contracts",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected message to contain %q\nmessage:\n%s", want, msg)
		}
	}
}

func TestCardTitle(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := CardTitle(now, ""); got != "Daily Fee Digest 2024-01-15" {
		t.Errorf("Unexpected title %q", got)
	}
	if got := CardTitle(now, "rerun"); got != "Daily Fee Digest 2024-01-15 (rerun)" {
		t.Errorf("Unexpected suffixed title %q", got)
	}
}

func TestBuildCard(t *testing.T) {
	now := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)
	card := BuildCard("Daily Fee Digest 2024-01-15", "body text", now)

	b, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(b)

	for _, want := range []string{
		`"type":"message"`,
		`"contentType":"application/vnd.microsoft.card.adaptive"`,
		`"contentUrl":null`,
		`"$schema":"http://adaptivecards.io/schemas/adaptive-card.json"`,
		`"version":"1.4"`,
		`"text":"Daily Fee Digest 2024-01-15"`,
		`"wrap":true`,
		`"text":"Timestamp (UTC): 2024-01-15 18:30:00"`,
		`"isSubtle":true`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected card JSON to contain %s\njson: %s", want, s)
		}
	}

	body := card.Attachments[0].Content.Body
	if len(body) != 3 {
		t.Fatalf("Expected 3 text blocks, got %d", len(body))
	}
	if body[0].Size != "Large" || body[0].Weight != "Bolder" {
		t.Errorf("Expected bold large title block, got %+v", body[0])
	}
}

func TestBuildSummaryPayload(t *testing.T) {
	res, rates := sampleResult()
	processDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)

	p := BuildSummaryPayload(processDate, res, rates, now)

	if p.Date != "2024-01-15" {
		t.Errorf("Expected date 2024-01-15, got %q", p.Date)
	}
	if p.TotalFees != 2.80 || p.TotalFeesFormatted != "$2.80" {
		t.Errorf("Unexpected totals: %v / %q", p.TotalFees, p.TotalFeesFormatted)
	}
	if p.TotalTrades != 5 || p.TotalContracts != 22 {
		t.Errorf("Unexpected counts: %d trades, %d contracts", p.TotalTrades, p.TotalContracts)
	}
	if p.Options.FeePerContract != rates.Options.TotalPerContract() {
		t.Errorf("Unexpected options fee per contract: %v", p.Options.FeePerContract)
	}
	if p.Options.TotalFeesFormatted != "$0.80" {
		t.Errorf("Expected formatted options fees $0.80, got %q", p.Options.TotalFeesFormatted)
	}
	if p.Futures.TradeCount != 2 || p.Futures.TotalContracts != 2 {
		t.Errorf("Unexpected futures breakdown: %+v", p.Futures)
	}
	if p.GeneratedAt != "2024-01-15T18:30:00Z" {
		t.Errorf("Expected UTC RFC3339 generated_at, got %q", p.GeneratedAt)
	}
}
