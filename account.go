package cashbook

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Account is a named cash ledger in a single currency.
//
// Balance is a cached projection of the account's transactions, see Reconcile.
type Account struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Currency    string          `json:"currency"`
	Symbol      string          `json:"symbol"`
	Balance     decimal.Decimal `json:"balance"`
	DisplayMeta map[string]any  `json:"displayMeta,omitempty"`
}

// Money returns the account balance with the account currency.
func (a Account) Money() Money { return M(a.Balance, a.Currency) }

// AccountInput describes a new account. InitialBalance is optional raw text, a
// negative value opens the account overdrawn.
type AccountInput struct {
	Name           string
	Currency       string
	Symbol         string
	InitialBalance string
	DisplayMeta    map[string]any
}

func normalizeCurrency(c string) string { return strings.ToUpper(strings.TrimSpace(c)) }
