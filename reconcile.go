package cashbook

import (
	"github.com/shopspring/decimal"
)

// Reconcile recomputes every account balance from the transactions.
//
// Each account is seeded by its first initial-balance transaction (zero if
// none) and then every other transaction of the account is folded in. Further
// initial-balance transactions of the same account are ignored. Transactions
// of unknown accounts are ignored. Reconcile does not modify its arguments and
// running it again on its own result yields the same balances.
func Reconcile(accounts []Account, txs []Transaction) []Account {
	seeded := make(map[string]bool, len(accounts))
	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, tx := range txs {
		if !tx.InitialBalance || seeded[tx.Account] {
			continue
		}
		seeded[tx.Account] = true
		balances[tx.Account] = tx.Delta()
	}
	for _, tx := range txs {
		if tx.InitialBalance {
			continue
		}
		balances[tx.Account] = balances[tx.Account].Add(tx.Delta())
	}

	out := make([]Account, len(accounts))
	for i, a := range accounts {
		a.Balance = balances[a.Name] // zero value is 0
		out[i] = a
	}
	return out
}

// Reconcile recomputes all balances from history and returns the accounts
// whose cached balance was wrong.
func (l *Ledger) Reconcile() []Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	before := l.state.Accounts
	after := Reconcile(before, l.state.Transactions)
	var fixed []Account
	for i := range after {
		if !after[i].Balance.Equal(before[i].Balance) {
			fixed = append(fixed, after[i])
			l.log.Warn().Str("account", after[i].Name).
				Str("cached", before[i].Balance.String()).
				Str("computed", after[i].Balance.String()).
				Msg("balance drift repaired")
		}
	}
	l.state.Accounts = after
	if len(fixed) > 0 {
		l.commit()
	}
	return fixed
}
