package cashbook

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in a given currency. It is the display companion of the
// raw decimal amounts stored on accounts and transactions.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money from any integer, float or decimal value.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	var d decimal.Decimal
	switch v := any(value).(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case decimal.Decimal:
		d = v
	}
	return Money{value: d, cur: currency}
}

// currency returns the money's currency definition. Codes unknown to go-money
// are handled as two decimals currencies.
func (m Money) currency() (cur money.Currency, known bool) {
	if c := money.GetCurrency(m.cur); c != nil {
		return *c, true
	}
	return money.Currency{Code: m.cur, Fraction: 2}, false
}

// String returns the amount formatted with its currency symbol and separators.
func (m Money) String() string {
	cur, known := m.currency()
	if !known {
		return strings.TrimSpace(m.Fixed() + " " + m.cur)
	}
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

func (m Money) Currency() string       { return m.cur }
func (m Money) Value() decimal.Decimal { return m.value }

// Round returns the value rounded to the currency's minor unit.
func (m Money) Round() Money {
	cur, _ := m.currency()
	return Money{value: m.value.Round(int32(cur.Fraction)), cur: m.cur}
}

// Fixed formats the bare amount with the currency's number of decimals, e.g. "102.00".
func (m Money) Fixed() string {
	cur, _ := m.currency()
	return m.value.StringFixed(int32(cur.Fraction))
}

// currencySymbol returns the display symbol of an ISO code, the code itself when unknown.
func currencySymbol(code string) string {
	if c := money.GetCurrency(code); c != nil && c.Grapheme != "" {
		return c.Grapheme
	}
	return code
}
