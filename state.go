package cashbook

import (
	"maps"
	"slices"
)

// State is the whole persisted book. It is written as one snapshot after every
// mutation. The active report is not part of it.
type State struct {
	Accounts              []Account      `json:"accounts"`
	Transactions          []Transaction  `json:"transactions"`
	Documents             []Document     `json:"documents"`
	IncomeCategories      []string       `json:"incomeCategories"`
	ExpenseCategories     []string       `json:"expenseCategories"`
	InvoiceOperationTypes []string       `json:"invoiceOperationTypes"`
	Modules               []any          `json:"modules"`
	ArchivedData          map[string]any `json:"archivedData"`
	Settings              Settings       `json:"settings"`
}

func defaultModules() []any {
	return []any{"cuentas", "movimientos", "documentos", "informes", "sociedades"}
}

// DefaultState returns an empty book with the built-in registries and settings.
func DefaultState() State {
	return State{
		Accounts:              []Account{},
		Transactions:          []Transaction{},
		Documents:             []Document{},
		IncomeCategories:      defaultIncomeCategories(),
		ExpenseCategories:     defaultExpenseCategories(),
		InvoiceOperationTypes: defaultOperationTypes(),
		Modules:               defaultModules(),
		ArchivedData:          map[string]any{},
		Settings:              defaultSettings(),
	}
}

// clone returns a copy that shares no slice or map with s.
func (s State) clone() State {
	c := s
	c.Accounts = make([]Account, len(s.Accounts))
	for i, a := range s.Accounts {
		a.DisplayMeta = maps.Clone(a.DisplayMeta)
		c.Accounts[i] = a
	}
	c.Transactions = slices.Clone(s.Transactions)
	c.Documents = cloneDocuments(s.Documents)
	c.IncomeCategories = slices.Clone(s.IncomeCategories)
	c.ExpenseCategories = slices.Clone(s.ExpenseCategories)
	c.InvoiceOperationTypes = slices.Clone(s.InvoiceOperationTypes)
	c.Modules = slices.Clone(s.Modules)
	c.ArchivedData = maps.Clone(s.ArchivedData)
	if c.Transactions == nil {
		c.Transactions = []Transaction{}
	}
	if c.ArchivedData == nil {
		c.ArchivedData = map[string]any{}
	}
	return c
}

// archivedInitialBalances is the ArchivedData key of the initial balances
// removed by archiveExtraInitialBalances.
const archivedInitialBalances = "initialBalances"

// archiveExtraInitialBalances keeps the first initial-balance transaction of
// each account and moves the others to ArchivedData. Reconcile ignores them
// anyway; once they are gone every incremental update agrees with it.
func (s *State) archiveExtraInitialBalances() (archived []Transaction) {
	seen := map[string]bool{}
	kept := make([]Transaction, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		if tx.InitialBalance {
			if seen[tx.Account] {
				archived = append(archived, tx)
				continue
			}
			seen[tx.Account] = true
		}
		kept = append(kept, tx)
	}
	if len(archived) == 0 {
		return nil
	}
	s.Transactions = kept
	if s.ArchivedData == nil {
		s.ArchivedData = map[string]any{}
	}
	prev, _ := s.ArchivedData[archivedInitialBalances].([]any)
	prev = slices.Clone(prev)
	for _, tx := range archived {
		prev = append(prev, tx)
	}
	s.ArchivedData[archivedInitialBalances] = prev
	return archived
}

// ensureEssentials adds back the essential categories and operation types a
// hand-edited snapshot may have lost.
func (s *State) ensureEssentials() (added []string) {
	need := func(list *[]string, names ...string) {
		for _, n := range names {
			if !slices.Contains(*list, n) {
				*list = append(*list, n)
				added = append(added, n)
			}
		}
	}
	need(&s.IncomeCategories, CategoryTransfer, CategoryAdjustment, CategoryInvestment, CategoryOtherIncome)
	need(&s.ExpenseCategories, CategoryTransfer, CategoryFees, CategoryAdjustment, CategoryInvestment, CategoryOtherExpenses)
	need(&s.InvoiceOperationTypes, essentialOperations...)
	return added
}
