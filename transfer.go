package cashbook

import (
	"fmt"
	"strings"

	"github.com/etnz/cashbook/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferInput moves Amount from one account to another.
//
// SourceFee is an optional fee charged on the source account. Destination is
// the amount received when the accounts have different currencies, and is
// then required. Between accounts of the same currency it is an optional fee
// charged on the destination account.
type TransferInput struct {
	From        string
	To          string
	Amount      string
	SourceFee   string
	Destination string
	Date        date.Date
	Description string
}

// Transfer records a transfer as two to four transactions, all with part
// DefaultPart and the same date. Everything is validated before the book is
// touched: either all transactions are recorded or none.
func (l *Ledger) Transfer(in TransferInput) ([]Transaction, error) {
	amount, err := parseAmount("amount", in.Amount, false)
	if err != nil {
		return nil, err
	}
	fee, err := parseAmount("sourceFee", in.SourceFee, true)
	if err != nil {
		return nil, err
	}
	if in.From == in.To {
		return nil, invalid("to", in.To, "must differ from the source account")
	}
	d := in.Date
	if d.IsZero() {
		d = date.Today()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fi, ti := l.accountIndex(in.From), l.accountIndex(in.To)
	if fi < 0 {
		return nil, fmt.Errorf("account %q: %w", in.From, ErrAccountNotFound)
	}
	if ti < 0 {
		return nil, fmt.Errorf("account %q: %w", in.To, ErrAccountNotFound)
	}
	from, to := l.state.Accounts[fi], l.state.Accounts[ti]

	received := amount
	destFee := decimal.Zero
	if from.Currency != to.Currency {
		received, err = parseAmount("destination", in.Destination, false)
		if err != nil {
			return nil, fmt.Errorf("transfer from %s to %s: %w", from.Currency, to.Currency, err)
		}
	} else {
		destFee, err = parseAmount("destination", in.Destination, true)
		if err != nil {
			return nil, err
		}
	}

	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		desc = fmt.Sprintf("Transferencia %s → %s", from.Name, to.Name)
	}
	mk := func(typ TxType, acc Account, category string, amount decimal.Decimal, desc string) Transaction {
		return Transaction{
			ID:          uuid.NewString(),
			Date:        d,
			Description: desc,
			Type:        typ,
			Account:     acc.Name,
			Category:    category,
			Currency:    acc.Currency,
			Amount:      amount,
			Part:        DefaultPart,
		}
	}
	txs := []Transaction{mk(Expense, from, CategoryTransfer, amount, desc)}
	if fee.IsPositive() {
		txs = append(txs, mk(Expense, from, CategoryFees, fee, "Comisión: "+desc))
	}
	txs = append(txs, mk(Income, to, CategoryTransfer, received, desc))
	if destFee.IsPositive() {
		txs = append(txs, mk(Expense, to, CategoryFees, destFee, "Comisión: "+desc))
	}

	for _, tx := range txs {
		l.state.Transactions = append(l.state.Transactions, tx)
		l.applyDelta(tx.Account, tx.Delta())
	}
	l.log.Info().Str("from", from.Name).Str("to", to.Name).Str("amount", amount.String()).
		Str("received", received.String()).Int("transactions", len(txs)).Msg("transfer recorded")
	l.commit()
	return txs, nil
}
