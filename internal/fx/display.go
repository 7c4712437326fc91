package fx

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ValidCode reports whether code is a recognised ISO 4217 currency.
func ValidCode(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// FormatAmount renders an amount with its currency symbol for API labels,
// e.g. "USD 1,204.50". Unknown codes fall back to a plain number.
func FormatAmount(amount float64, code string) string {
	printer := message.NewPrinter(language.English)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return printer.Sprintf("%.2f", amount)
	}
	return printer.Sprintf("%v %.2f", unit, amount)
}
