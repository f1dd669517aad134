package compose

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol is appended to every displayed amount.
const CurrencySymbol = "€"

var printer = message.NewPrinter(language.Spanish)

// FormatMoney renders an amount with two decimals and Spanish separators,
// e.g. "1.234,50 €". This is the only place amounts are rounded.
func FormatMoney(v float64) string {
	if math.Abs(v) < 0.005 {
		v = 0 // no "-0,00"
	}
	return printer.Sprintf("%.2f %s", v, CurrencySymbol)
}

// FormatQuantity renders a quantity without trailing zeros.
func FormatQuantity(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatPercent renders a rate such as 0.21 as "21%".
func FormatPercent(rate float64) string {
	return printer.Sprintf("%.0f%%", rate*100)
}

// FormatDate renders an ISO date as dd/mm/yyyy. Unparseable input is
// returned unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
