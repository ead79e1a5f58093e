package report

import (
	"fmt"
	"strings"
	"time"

	"daily-fee-digest/internal/digest"
)

// BuildMessage renders the narrative fee summary: bold grand total, then a
// bullet breakdown per class with currency-formatted amounts.
func BuildMessage(res digest.Result, rates digest.RateSet) string {
	lines := []string{
		fmt.Sprintf("**Total Fees: %s**", digest.FormatCurrency(res.TotalFees)),
		"",
		"📊 **Options**",
		fmt.Sprintf("  • Trades: %d", res.Options.TradeCount),
		fmt.Sprintf("  • Contracts: %d", res.Options.TotalContracts),
		fmt.Sprintf("  • Fees: %s @ %s/contract",
			digest.FormatCurrency(res.Options.TotalFees),
			digest.FormatCurrency(rates.Options.TotalPerContract())),
		"",
		"📈 **Futures**",
		fmt.Sprintf("  • Trades: %d", res.Futures.TradeCount),
		fmt.Sprintf("  • Contracts: %d", res.Futures.TotalContracts),
		fmt.Sprintf("  • Fees: %s @ %s/contract",
			digest.FormatCurrency(res.Futures.TotalFees),
			digest.FormatCurrency(rates.Futures.TotalPerContract())),
		"",
		fmt.Sprintf("**Totals:** %d trades, %d contracts", res.TotalTrades, res.TotalContracts),
	}
	return strings.Join(lines, "\n")
}

// CardEnvelope is the chat-webhook message wrapper around an Adaptive Card.
type CardEnvelope struct {
	Type        string       `json:"type"`
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	ContentType string       `json:"contentType"`
	ContentURL  *string      `json:"contentUrl"`
	Content     AdaptiveCard `json:"content"`
}

type AdaptiveCard struct {
	Schema  string      `json:"$schema"`
	Type    string      `json:"type"`
	Version string      `json:"version"`
	Body    []TextBlock `json:"body"`
}

type TextBlock struct {
	Type     string `json:"type"`
	Size     string `json:"size,omitempty"`
	Weight   string `json:"weight,omitempty"`
	Text     string `json:"text"`
	Wrap     bool   `json:"wrap,omitempty"`
	IsSubtle bool   `json:"isSubtle,omitempty"`
	Spacing  string `json:"spacing,omitempty"`
}

// CardTitle builds the card title from the current calendar date and an
// optional suffix.
func CardTitle(now time.Time, suffix string) string {
	title := "Daily Fee Digest " + now.Format("2006-01-02")
	if suffix != "" {
		title += " (" + suffix + ")"
	}
	return title
}

// BuildCard wraps a narrative message in an Adaptive Card envelope with a
// titled header and a UTC timestamp footer.
func BuildCard(title, message string, now time.Time) CardEnvelope {
	return CardEnvelope{
		Type: "message",
		Attachments: []Attachment{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			ContentURL:  nil,
			Content: AdaptiveCard{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.4",
				Body: []TextBlock{
					{Type: "TextBlock", Size: "Large", Weight: "Bolder", Text: title},
					{Type: "TextBlock", Text: message, Wrap: true},
					{
						Type:     "TextBlock",
						Text:     "Timestamp (UTC): " + now.UTC().Format("2006-01-02 15:04:05"),
						IsSubtle: true,
						Spacing:  "Small",
					},
				},
			},
		}},
	}
}

// ClassBreakdown is the per-class section of the structured payload.
type ClassBreakdown struct {
	TradeCount         int     `json:"trade_count"`
	TotalContracts     int     `json:"total_contracts"`
	TotalFees          float64 `json:"total_fees"`
	TotalFeesFormatted string  `json:"total_fees_formatted"`
	FeePerContract     float64 `json:"fee_per_contract"`
}

// SummaryPayload is the structured delivery shape: processing date, grand
// totals and per-class breakdowns, with a UTC generation timestamp.
type SummaryPayload struct {
	Date               string         `json:"date"`
	TotalFees          float64        `json:"total_fees"`
	TotalFeesFormatted string         `json:"total_fees_formatted"`
	TotalTrades        int            `json:"total_trades"`
	TotalContracts     int            `json:"total_contracts"`
	Options            ClassBreakdown `json:"options"`
	Futures            ClassBreakdown `json:"futures"`
	GeneratedAt        string         `json:"generated_at"`
}

// BuildSummaryPayload assembles the structured payload for a run.
func BuildSummaryPayload(processDate time.Time, res digest.Result, rates digest.RateSet, now time.Time) SummaryPayload {
	return SummaryPayload{
		Date:               processDate.Format("2006-01-02"),
		TotalFees:          res.TotalFees,
		TotalFeesFormatted: digest.FormatCurrency(res.TotalFees),
		TotalTrades:        res.TotalTrades,
		TotalContracts:     res.TotalContracts,
		Options:            breakdown(res.Options, rates.Options),
		Futures:            breakdown(res.Futures, rates.Futures),
		GeneratedAt:        now.UTC().Format(time.RFC3339),
	}
}

func breakdown(s digest.Summary, rate digest.FeeRate) ClassBreakdown {
	return ClassBreakdown{
		TradeCount:         s.TradeCount,
		TotalContracts:     s.TotalContracts,
		TotalFees:          s.TotalFees,
		TotalFeesFormatted: digest.FormatCurrency(s.TotalFees),
		FeePerContract:     rate.TotalPerContract(),
	}
}
