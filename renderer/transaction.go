package renderer

import (
	"fmt"

	"github.com/etnz/cashbook"
)

// Transaction renders a transaction on one line.
func Transaction(tx cashbook.Transaction) string {
	amount := tx.Money().String()
	switch {
	case tx.InitialBalance:
		return fmt.Sprintf("Saldo inicial de %s: %s", tx.Account, cashbook.M(tx.Delta(), tx.Currency))
	case tx.Type == cashbook.Income:
		return fmt.Sprintf("%s: ingreso de %s en %s (%s)", tx.Date, amount, tx.Account, tx.Category)
	default:
		return fmt.Sprintf("%s: gasto de %s en %s (%s)", tx.Date, amount, tx.Account, tx.Category)
	}
}

// Document renders a document on one line.
func Document(d cashbook.Document) string {
	return fmt.Sprintf("%s %s para %s: %s (%s)", d.Type, d.Number, d.Client, d.Money(), d.Status)
}
