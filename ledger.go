package cashbook

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/cashbook/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Saver receives the encoded snapshot after every mutation.
type Saver interface {
	Save(data []byte) error
}

// Ledger is the in-memory book: accounts, transactions, documents,
// registries and settings.
//
// Every operation runs under a single lock and, when it mutates the book,
// hands the new snapshot to the Saver before returning.
type Ledger struct {
	mu          sync.Mutex
	state       State
	active      *Report
	saver       Saver
	log         zerolog.Logger
	lastSaveErr error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used to trace mutations and fallbacks.
func WithLogger(log zerolog.Logger) Option { return func(l *Ledger) { l.log = log } }

// WithSaver sets where snapshots are written.
func WithSaver(s Saver) Option { return func(l *Ledger) { l.saver = s } }

// NewLedger creates an empty book.
func NewLedger(opts ...Option) *Ledger {
	return Open(DefaultState(), opts...)
}

// Open creates a ledger from a decoded snapshot and reconciles every balance.
func Open(s State, opts ...Option) *Ledger {
	l := &Ledger{state: s.clone(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	l.state.ensureEssentials()
	for _, tx := range l.state.archiveExtraInitialBalances() {
		l.log.Warn().Str("id", tx.ID).Str("account", tx.Account).Str("amount", tx.Amount.String()).
			Msg("account already has an initial balance, extra one archived")
	}
	l.state.Accounts = Reconcile(l.state.Accounts, l.state.Transactions)
	if n := len(l.orphans()); n > 0 {
		l.log.Warn().Int("count", n).Msg("transactions reference missing accounts")
	}
	return l
}

// commit writes the snapshot. Caller holds the lock.
//
// A failed save is logged and kept for LastSaveError, the in-memory book stays
// authoritative.
func (l *Ledger) commit() {
	if l.saver == nil {
		return
	}
	data, err := EncodeState(l.state)
	if err == nil {
		err = l.saver.Save(data)
	}
	l.lastSaveErr = err
	if err != nil {
		l.log.Error().Err(err).Msg("cannot save snapshot")
	}
}

// LastSaveError returns the error of the last save, nil if it succeeded.
func (l *Ledger) LastSaveError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSaveErr
}

// State returns a copy of the snapshot.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

// Accounts returns a copy of all accounts, in creation order.
func (l *Ledger) Accounts() []Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone().Accounts
}

// Account returns the account with this name.
func (l *Ledger) Account(name string) (Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.accountIndex(name)
	if i < 0 {
		return Account{}, false
	}
	a := l.state.Accounts[i]
	a.DisplayMeta = maps.Clone(a.DisplayMeta)
	return a, true
}

// Transactions returns the general ledger view: every transaction except
// initial balances, sorted by date.
func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var txs []Transaction
	for _, tx := range l.state.Transactions {
		if !tx.InitialBalance {
			txs = append(txs, tx)
		}
	}
	slices.SortStableFunc(txs, byDate)
	return txs
}

// Transaction returns the transaction with this id.
func (l *Ledger) Transaction(id string) (Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.transactionIndex(id)
	if i < 0 {
		return Transaction{}, false
	}
	return l.state.Transactions[i], true
}

// AccountHistory returns every transaction of one account, initial balance
// included, sorted by date.
func (l *Ledger) AccountHistory(name string) ([]Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.accountIndex(name) < 0 {
		return nil, fmt.Errorf("account %q: %w", name, ErrAccountNotFound)
	}
	var txs []Transaction
	for _, tx := range l.state.Transactions {
		if tx.Account == name {
			txs = append(txs, tx)
		}
	}
	slices.SortStableFunc(txs, byDate)
	return txs, nil
}

// Orphans returns the transactions whose account does not exist.
func (l *Ledger) Orphans() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orphans()
}

func (l *Ledger) orphans() []Transaction {
	var txs []Transaction
	for _, tx := range l.state.Transactions {
		if l.accountIndex(tx.Account) < 0 {
			txs = append(txs, tx)
		}
	}
	return txs
}

// Totals is the income and expense of one currency over a range.
type Totals struct {
	Currency string
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

// Net is income minus expense.
func (t Totals) Net() decimal.Decimal { return t.Income.Sub(t.Expense) }

// Totals sums non-initial transactions within r, per currency, sorted by currency.
func (l *Ledger) Totals(r date.Range) []Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	byCur := make(map[string]*Totals)
	for _, tx := range l.state.Transactions {
		if tx.InitialBalance || !r.Contains(tx.Date) {
			continue
		}
		t, ok := byCur[tx.Currency]
		if !ok {
			t = &Totals{Currency: tx.Currency, Income: decimal.Zero, Expense: decimal.Zero}
			byCur[tx.Currency] = t
		}
		if tx.Type == Income {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	out := make([]Totals, 0, len(byCur))
	for _, cur := range slices.Sorted(maps.Keys(byCur)) {
		out = append(out, *byCur[cur])
	}
	return out
}

// AddAccount creates an account. A non-zero initial balance is recorded as the
// account's initial-balance transaction, dated today, in the adjustment category.
func (l *Ledger) AddAccount(in AccountInput) (Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Account{}, invalid("name", in.Name, "is required")
	}
	cur := normalizeCurrency(in.Currency)
	if len(cur) != 3 {
		return Account{}, invalid("currency", in.Currency, "must be a 3 letter ISO code")
	}
	initial := decimal.Zero
	if text := strings.TrimSpace(in.InitialBalance); text != "" {
		v, err := decimal.NewFromString(strings.ReplaceAll(text, ",", "."))
		if err != nil {
			return Account{}, invalid("initialBalance", in.InitialBalance, "is not a number")
		}
		initial = v
	}
	symbol := in.Symbol
	if symbol == "" {
		symbol = currencySymbol(cur)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.accountIndex(name) >= 0 {
		return Account{}, fmt.Errorf("account %q: %w", name, ErrDuplicateAccount)
	}
	if !initial.IsZero() && l.hasInitialBalance(name, "") {
		return Account{}, fmt.Errorf("account %q: %w", name, ErrDuplicateInitialBalance)
	}
	acc := Account{
		ID:          uuid.NewString(),
		Name:        name,
		Currency:    cur,
		Symbol:      symbol,
		DisplayMeta: maps.Clone(in.DisplayMeta),
	}
	// Orphan transactions left by a deleted account of the same name are adopted.
	acc = Reconcile([]Account{acc}, l.state.Transactions)[0]
	if !acc.Balance.IsZero() {
		l.log.Warn().Str("account", name).Str("balance", acc.Balance.String()).Msg("account adopts existing transactions")
	}
	l.state.Accounts = append(l.state.Accounts, acc)
	if !initial.IsZero() {
		typ := Income
		if initial.IsNegative() {
			typ = Expense
		}
		tx := Transaction{
			ID:             uuid.NewString(),
			Date:           date.Today(),
			Description:    "Saldo inicial",
			Type:           typ,
			Account:        name,
			Category:       CategoryAdjustment,
			Currency:       cur,
			Amount:         initial.Abs(),
			Part:           DefaultPart,
			InitialBalance: true,
		}
		l.state.Transactions = append(l.state.Transactions, tx)
		l.applyDelta(name, tx.Delta())
	}
	l.log.Info().Str("account", name).Str("currency", cur).Str("initial", initial.String()).Msg("account added")
	l.commit()
	return l.state.Accounts[len(l.state.Accounts)-1], nil
}

// DeleteAccount removes an account. While transactions reference it the
// deletion is refused with ErrAccountInUse, unless cascade is set in which
// case those transactions are removed too.
func (l *Ledger) DeleteAccount(name string, cascade bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.accountIndex(name)
	if i < 0 {
		return fmt.Errorf("account %q: %w", name, ErrAccountNotFound)
	}
	uses := func(tx Transaction) bool { return tx.Account == name }
	n := 0
	for _, tx := range l.state.Transactions {
		if uses(tx) {
			n++
		}
	}
	if n > 0 && !cascade {
		return fmt.Errorf("account %q is used by %d transactions: %w", name, n, ErrAccountInUse)
	}
	l.state.Transactions = slices.DeleteFunc(l.state.Transactions, uses)
	l.state.Accounts = slices.Delete(l.state.Accounts, i, i+1)
	l.log.Info().Str("account", name).Int("transactions", n).Msg("account deleted")
	l.commit()
	return nil
}

func (l *Ledger) accountIndex(name string) int {
	return slices.IndexFunc(l.state.Accounts, func(a Account) bool { return a.Name == name })
}

func (l *Ledger) transactionIndex(id string) int {
	return slices.IndexFunc(l.state.Transactions, func(tx Transaction) bool { return tx.ID == id })
}

// applyDelta adds delta to the named account balance, if it exists.
func (l *Ledger) applyDelta(name string, delta decimal.Decimal) bool {
	i := l.accountIndex(name)
	if i < 0 {
		return false
	}
	l.state.Accounts[i].Balance = l.state.Accounts[i].Balance.Add(delta)
	return true
}
