package digest

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as a dollar string with two decimals
// and thousands separators, e.g. 12345.6 -> "$12,345.60". Ties round half
// to even.
func FormatCurrency(amount float64) string {
	return usd.Sprintf("$%.2f", amount)
}
