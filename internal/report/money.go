package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a configured code is not an ISO 4217 currency.
const DefaultCurrency = money.USD

// Formatter renders amounts in one currency.
type Formatter struct {
	currency *money.Currency
}

// NewFormatter creates a Formatter for an ISO 4217 code such as "EUR".
// Unknown codes fall back to DefaultCurrency.
func NewFormatter(code string) *Formatter {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	return &Formatter{currency: cur}
}

// Currency returns the ISO code amounts are rendered in.
func (f *Formatter) Currency() string {
	return f.currency.Code
}

// Money formats an amount in major units, rounded to the currency's minor unit.
func (f *Formatter) Money(amount decimal.Decimal) string {
	minor := amount.Shift(int32(f.currency.Fraction)).Round(0).IntPart()
	return money.New(minor, f.currency.Code).Display()
}

// Signed is Money with an explicit plus sign on gains.
func (f *Formatter) Signed(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + f.Money(amount)
	}
	return f.Money(amount)
}

// Percent formats a value already expressed in percent.
func Percent(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// Rate formats a fraction such as 0.04 as a percentage.
func Rate(fraction decimal.Decimal) string {
	return Percent(fraction.Shift(2))
}
