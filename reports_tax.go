package cashbook

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

// TaxCurrency is the only currency taken into account by the tax estimate.
const TaxCurrency = "EUR"

// FiscalPeriod is an installment period of the corporate tax. Every period
// starts on January 1st.
type FiscalPeriod int

const (
	P1 FiscalPeriod = iota + 1 // up to March 31
	P2                         // up to September 30
	P3                         // up to November 30
)

func (p FiscalPeriod) String() string {
	if p < P1 || p > P3 {
		return fmt.Sprintf("FiscalPeriod(%d)", int(p))
	}
	return fmt.Sprintf("%dP", int(p))
}

// ParseFiscalPeriod parses "1P", "2P" or "3P".
func ParseFiscalPeriod(s string) (FiscalPeriod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1P":
		return P1, nil
	case "2P":
		return P2, nil
	case "3P":
		return P3, nil
	default:
		return 0, fmt.Errorf("unknown fiscal period %q, want 1P, 2P or 3P", s)
	}
}

// Range returns the dates covered by the period in year.
func (p FiscalPeriod) Range(year int) date.Range {
	end := map[FiscalPeriod]date.Date{
		P1: date.New(year, time.March, 31),
		P2: date.New(year, time.September, 30),
		P3: date.New(year, time.November, 30),
	}[p]
	return date.Range{From: date.New(year, time.January, 1), To: end}
}

// TaxQuery selects the scope of the tax estimate. An empty Accounts list
// takes every account into account.
type TaxQuery struct {
	Year     int
	Period   FiscalPeriod
	Accounts []string
}

// TaxEstimate is the simplified corporate tax installment.
type TaxEstimate struct {
	Year              int
	Period            FiscalPeriod
	Range             date.Range
	Accounts          []string
	Income            decimal.Decimal
	Expense           decimal.Decimal
	ResultadoContable decimal.Decimal // income - expense
	Rate              decimal.Decimal // percent
	PagoACuenta       decimal.Decimal // max(result, 0) × rate / 100, 2 decimals
	Transactions      []Transaction
}

// GenerateTaxReport computes the tax estimate and keeps it as the active
// report. It only takes non-initial transactions of part DefaultPart in
// TaxCurrency.
func (l *Ledger) GenerateTaxReport(q TaxQuery) (*Report, error) {
	if q.Period < P1 || q.Period > P3 {
		return nil, invalid("period", q.Period.String(), "must be 1P, 2P or 3P")
	}
	if q.Year < 1 {
		return nil, invalid("year", fmt.Sprint(q.Year), "is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	x := &TaxEstimate{
		Year:     q.Year,
		Period:   q.Period,
		Range:    q.Period.Range(q.Year),
		Accounts: slices.Clone(q.Accounts),
		Income:   decimal.Zero,
		Expense:  decimal.Zero,
		Rate:     l.state.Settings.FiscalParameters.CorporateTaxRate,
	}
	for _, tx := range l.state.Transactions {
		switch {
		case tx.InitialBalance, !x.Range.Contains(tx.Date):
		case tx.Part != DefaultPart, tx.Currency != TaxCurrency:
		case len(q.Accounts) > 0 && !slices.Contains(q.Accounts, tx.Account):
		default:
			x.Transactions = append(x.Transactions, tx)
			if tx.Type == Income {
				x.Income = x.Income.Add(tx.Amount)
			} else {
				x.Expense = x.Expense.Add(tx.Amount)
			}
		}
	}
	slices.SortStableFunc(x.Transactions, byDate)
	x.ResultadoContable = x.Income.Sub(x.Expense)
	x.PagoACuenta = decimal.Max(x.ResultadoContable, decimal.Zero).Mul(x.Rate).Div(decimal.NewFromInt(100)).Round(2)

	r := &Report{
		Type:         Sociedades,
		Title:        fmt.Sprintf("Sociedades %d %s", q.Year, q.Period),
		Range:        x.Range,
		Transactions: x.Transactions,
		Tax:          x,
	}
	l.active = r
	l.log.Debug().Str("report", r.Title).Str("result", x.ResultadoContable.String()).Str("payment", x.PagoACuenta.String()).Msg("tax estimate generated")
	return r, nil
}
