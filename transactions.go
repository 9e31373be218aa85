package cashbook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/cashbook/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxType is the direction of a transaction.
type TxType int

const (
	Income TxType = iota
	Expense
)

func (t TxType) String() string {
	switch t {
	case Income:
		return "Ingreso"
	case Expense:
		return "Gasto"
	default:
		return fmt.Sprintf("TxType(%d)", int(t))
	}
}

// ParseTxType accepts the persisted spanish names and their english equivalent.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ingreso", "income":
		return Income, nil
	case "gasto", "expense":
		return Expense, nil
	default:
		return Income, fmt.Errorf("unknown transaction type %q", s)
	}
}

func (t TxType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TxType) UnmarshalText(text []byte) error {
	v, err := ParseTxType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Sign returns +1 for Income and -1 for Expense.
func (t TxType) Sign() decimal.Decimal {
	if t == Expense {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// DefaultPart is the accounting part used by transfers and the tax estimate.
const DefaultPart = "A"

// Transaction is a single cash movement against one account.
//
// Amount is always positive, the sign comes from Type.
type Transaction struct {
	ID             string          `json:"id"`
	Date           date.Date       `json:"date"`
	Description    string          `json:"description"`
	Type           TxType          `json:"type"`
	Account        string          `json:"account"`
	Category       string          `json:"category"`
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	Part           string          `json:"part"`
	InitialBalance bool            `json:"isInitialBalance,omitempty"`
}

// Delta is the signed effect of the transaction on its account balance.
func (t Transaction) Delta() decimal.Decimal { return t.Amount.Mul(t.Type.Sign()) }

// Money returns the unsigned amount with the transaction currency.
func (t Transaction) Money() Money { return M(t.Amount, t.Currency) }

// TransactionInput is the form-like description of a transaction to create
// or the new values of a transaction to update. Amount is the raw text as
// typed by the user.
type TransactionInput struct {
	Date           date.Date
	Description    string
	Type           TxType
	Account        string
	Category       string
	Amount         string
	Part           string
	InitialBalance bool
}

// parseAmount parses a user supplied amount. The amount must be a finite
// decimal number, strictly positive unless allowZero is set. An empty text is
// zero when allowZero is set.
func parseAmount(field, text string, allowZero bool) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		if allowZero {
			return decimal.Zero, nil
		}
		return decimal.Zero, invalid(field, text, "is required")
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(text, ",", "."))
	if err != nil {
		return decimal.Zero, invalid(field, text, "is not a number")
	}
	switch {
	case v.IsNegative():
		return decimal.Zero, invalid(field, text, "must not be negative")
	case v.IsZero() && !allowZero:
		return decimal.Zero, invalid(field, text, "must be greater than zero")
	}
	return v, nil
}

// byDate sorts transactions chronologically, initial balances first on a given day.
func byDate(a, b Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	switch {
	case a.InitialBalance && !b.InitialBalance:
		return -1
	case !a.InitialBalance && b.InitialBalance:
		return 1
	}
	return 0
}

// validate checks in against the book and returns the transaction it
// describes, without id. Caller holds the lock.
func (l *Ledger) validate(in TransactionInput) (Transaction, error) {
	amount, err := parseAmount("amount", in.Amount, false)
	if err != nil {
		return Transaction{}, err
	}
	if in.Type != Income && in.Type != Expense {
		return Transaction{}, invalid("type", in.Type.String(), "must be Ingreso or Gasto")
	}
	i := l.accountIndex(in.Account)
	if i < 0 {
		return Transaction{}, fmt.Errorf("account %q: %w", in.Account, ErrAccountNotFound)
	}
	kind := KindOf(in.Type)
	if !slices.Contains(*l.registry(kind), in.Category) {
		return Transaction{}, invalid("category", in.Category, fmt.Sprintf("is not a registered %s category", kind))
	}
	d := in.Date
	if d.IsZero() {
		d = date.Today()
	}
	part := strings.TrimSpace(in.Part)
	if part == "" {
		part = DefaultPart
	}
	return Transaction{
		Date:           d,
		Description:    strings.TrimSpace(in.Description),
		Type:           in.Type,
		Account:        in.Account,
		Category:       in.Category,
		Currency:       l.state.Accounts[i].Currency,
		Amount:         amount,
		Part:           part,
		InitialBalance: in.InitialBalance,
	}, nil
}

// hasInitialBalance reports whether account already has an initial-balance
// transaction other than the one with id except.
func (l *Ledger) hasInitialBalance(account, except string) bool {
	return slices.ContainsFunc(l.state.Transactions, func(tx Transaction) bool {
		return tx.InitialBalance && tx.Account == account && tx.ID != except
	})
}

// CreateTransaction validates in, records it and updates the account balance.
func (l *Ledger) CreateTransaction(in TransactionInput) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, err := l.validate(in)
	if err != nil {
		return Transaction{}, err
	}
	if tx.InitialBalance && l.hasInitialBalance(tx.Account, "") {
		return Transaction{}, fmt.Errorf("account %q: %w", tx.Account, ErrDuplicateInitialBalance)
	}
	tx.ID = uuid.NewString()
	l.state.Transactions = append(l.state.Transactions, tx)
	l.applyDelta(tx.Account, tx.Delta())
	l.log.Info().Str("id", tx.ID).Str("account", tx.Account).Str("type", tx.Type.String()).Str("amount", tx.Amount.String()).Msg("transaction created")
	l.commit()
	return tx, nil
}

// UpdateTransaction replaces the transaction id with the values of in.
//
// The old effect is reverted on the old account (skipped when that account
// no longer exists) and the new one applied on the new account. The id and
// the initial-balance flag are kept.
func (l *Ledger) UpdateTransaction(id string, in TransactionInput) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.transactionIndex(id)
	if i < 0 {
		return Transaction{}, fmt.Errorf("transaction %q: %w", id, ErrTransactionNotFound)
	}
	old := l.state.Transactions[i]
	in.InitialBalance = old.InitialBalance
	tx, err := l.validate(in)
	if err != nil {
		return Transaction{}, err
	}
	if tx.InitialBalance && tx.Account != old.Account && l.hasInitialBalance(tx.Account, id) {
		return Transaction{}, fmt.Errorf("account %q: %w", tx.Account, ErrDuplicateInitialBalance)
	}
	tx.ID = id
	if !l.applyDelta(old.Account, old.Delta().Neg()) {
		l.log.Debug().Str("id", id).Str("account", old.Account).Msg("previous account is gone, nothing to revert")
	}
	l.applyDelta(tx.Account, tx.Delta())
	l.state.Transactions[i] = tx
	l.log.Info().Str("id", id).Str("account", tx.Account).Str("amount", tx.Amount.String()).Msg("transaction updated")
	l.commit()
	return tx, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the
// account balance. Deleting an unknown id is a no-op.
func (l *Ledger) DeleteTransaction(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.transactionIndex(id)
	if i < 0 {
		return nil
	}
	tx := l.state.Transactions[i]
	l.state.Transactions = slices.Delete(l.state.Transactions, i, i+1)
	l.applyDelta(tx.Account, tx.Delta().Neg())
	l.log.Info().Str("id", id).Str("account", tx.Account).Msg("transaction deleted")
	l.commit()
	return nil
}
