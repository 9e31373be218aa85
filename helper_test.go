package cashbook

import (
	"errors"
	"testing"

	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// dec parses a decimal constant.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// day parses an ISO date.
func day(s string) date.Date { return date.MustParse(s) }

// newBook returns a ledger holding the given accounts, without initial balance.
func newBook(t *testing.T, accounts ...AccountInput) *Ledger {
	t.Helper()
	l := NewLedger()
	for _, a := range accounts {
		if _, err := l.AddAccount(a); err != nil {
			t.Fatalf("AddAccount(%q) error = %v", a.Name, err)
		}
	}
	return l
}

func eurAccount(name string) AccountInput { return AccountInput{Name: name, Currency: "EUR"} }

func mustCreate(t *testing.T, l *Ledger, in TransactionInput) Transaction {
	t.Helper()
	tx, err := l.CreateTransaction(in)
	if err != nil {
		t.Fatalf("CreateTransaction(%+v) error = %v", in, err)
	}
	return tx
}

// balanceOf returns the cached balance of an account.
func balanceOf(t *testing.T, l *Ledger, name string) decimal.Decimal {
	t.Helper()
	a, ok := l.Account(name)
	if !ok {
		t.Fatalf("Account(%q) not found", name)
	}
	return a.Balance
}

func assertBalance(t *testing.T, l *Ledger, name, want string) {
	t.Helper()
	if got := balanceOf(t, l, name); !got.Equal(dec(want)) {
		t.Errorf("balance of %q = %v, want %v", name, got, want)
	}
}

// memSaver records every snapshot it is given.
type memSaver struct {
	saves [][]byte
	err   error
}

func (m *memSaver) Save(data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.saves = append(m.saves, data)
	return nil
}

var errDiskFull = errors.New("disk full")
