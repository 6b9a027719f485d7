/*
format.go - Currency display formatting

PURPOSE:
  The one presentation helper in the engine's public surface: render a
  monetary amount as a localized string ("$1,234.50"). Pure formatting,
  no protocol concern.

IMPLEMENTATION:
  Uses golang.org/x/text: language.Parse for the locale, currency.ParseISO
  to validate the unit, and message.Printer for locale-aware digit
  grouping. Symbols come from a small table of the currencies the app
  supports; valid ISO codes without a known symbol render as
  "<CODE> <amount>". Unknown currency codes fall back to the same plain
  rendering rather than erroring (zero-default input handling, like the
  rest of the engine).
*/
package progress

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// currencySymbols covers the currencies the product is offered in.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "$",
	"AUD": "$",
	"JPY": "¥",
}

// FormatAmount renders an amount in the given ISO-4217 currency for the
// given BCP-47 locale. Unparseable locales fall back to English.
func FormatAmount(amount decimal.Decimal, currencyCode, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	code := strings.ToUpper(currencyCode)
	value, _ := amount.Float64()
	grouped := message.NewPrinter(tag).Sprintf("%.2f", value)

	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, amount.StringFixed(2))
	}
	if symbol, ok := currencySymbols[unit.String()]; ok {
		return symbol + grouped
	}
	return fmt.Sprintf("%s %s", unit.String(), grouped)
}

// FormatUSD is shorthand for the app's default display currency.
func FormatUSD(amount decimal.Decimal) string {
	return FormatAmount(amount, "USD", "en")
}
