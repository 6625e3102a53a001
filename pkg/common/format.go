package common

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as en-US USD, e.g. 1234.5 -> "$1,234.50".
func FormatCurrency(amount float64) string {
	return usPrinter.Sprintf("$%.2f", amount)
}
