package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders an amount with its currency symbol for receipts,
// e.g. "$ 12.50".
func FormatAmount(amount decimal.Decimal, unit currency.Unit) string {
	value, _ := amount.Float64()
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(unit.Amount(value)))
}

// ParseCurrency resolves an ISO 4217 code, falling back to USD for anything
// unrecognized so a misconfigured register still formats receipts.
func ParseCurrency(code string) currency.Unit {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.USD
	}
	return unit
}
