package cashbook

import (
	"fmt"
	"slices"
	"strings"
)

// CategoryKind selects one of the three category registries.
type CategoryKind int

const (
	IncomeCategories CategoryKind = iota
	ExpenseCategories
	OperationTypes
)

func (k CategoryKind) String() string {
	switch k {
	case IncomeCategories:
		return "income"
	case ExpenseCategories:
		return "expense"
	case OperationTypes:
		return "operation"
	default:
		return fmt.Sprintf("CategoryKind(%d)", int(k))
	}
}

// ParseCategoryKind parses "income", "expense" or "operation" (and their spanish names).
func ParseCategoryKind(s string) (CategoryKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "ingreso", "ingresos":
		return IncomeCategories, nil
	case "expense", "gasto", "gastos":
		return ExpenseCategories, nil
	case "operation", "operacion", "operación", "operations":
		return OperationTypes, nil
	default:
		return IncomeCategories, fmt.Errorf("unknown category kind %q", s)
	}
}

// KindOf returns the registry a transaction of type t must take its category from.
func KindOf(t TxType) CategoryKind {
	if t == Expense {
		return ExpenseCategories
	}
	return IncomeCategories
}

// Categories used by the engine itself.
const (
	CategoryTransfer      = "Transferencia"
	CategoryFees          = "Comisiones"
	CategoryAdjustment    = "Ajuste de Saldo"
	CategoryInvestment    = "Inversión"
	CategoryOtherIncome   = "Otros Ingresos"
	CategoryOtherExpenses = "Otros Gastos"

	OperationDomestic = "Nacional / Intracomunitaria"
	OperationExport   = "Exportación (fuera UE)"
)

var essentialCategories = []string{
	CategoryTransfer,
	CategoryFees,
	CategoryAdjustment,
	CategoryInvestment,
	CategoryOtherIncome,
	CategoryOtherExpenses,
}

var essentialOperations = []string{OperationDomestic, OperationExport}

// IsEssential reports whether name cannot be removed from the registry of kind k.
func IsEssential(k CategoryKind, name string) bool {
	if k == OperationTypes {
		return slices.Contains(essentialOperations, name)
	}
	return slices.Contains(essentialCategories, name)
}

func defaultIncomeCategories() []string {
	return []string{"Ventas", "Servicios", "Subvenciones", CategoryTransfer, CategoryAdjustment, CategoryInvestment, CategoryOtherIncome}
}

func defaultExpenseCategories() []string {
	return []string{"Alquiler", "Suministros", "Nóminas", "Impuestos", "Software", CategoryTransfer, CategoryFees, CategoryAdjustment, CategoryInvestment, CategoryOtherExpenses}
}

func defaultOperationTypes() []string {
	return []string{OperationDomestic, OperationExport}
}

// isExportOperation reports whether an invoice operation type bears no VAT.
func isExportOperation(op string) bool {
	return strings.Contains(strings.ToLower(op), "export")
}

// registry returns a pointer to the list backing kind k. Caller holds the lock.
func (l *Ledger) registry(k CategoryKind) *[]string {
	switch k {
	case ExpenseCategories:
		return &l.state.ExpenseCategories
	case OperationTypes:
		return &l.state.InvoiceOperationTypes
	default:
		return &l.state.IncomeCategories
	}
}

// Categories returns a copy of the registry of kind k.
func (l *Ledger) Categories(k CategoryKind) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(*l.registry(k))
}

// HasCategory reports whether name is registered in kind k.
func (l *Ledger) HasCategory(k CategoryKind, name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(*l.registry(k), name)
}

// AddCategory appends name to the registry of kind k.
func (l *Ledger) AddCategory(k CategoryKind, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("category", name, "is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.registry(k)
	if slices.Contains(*list, name) {
		return fmt.Errorf("%s category %q: %w", k, name, ErrDuplicateCategory)
	}
	*list = append(*list, name)
	l.log.Info().Str("kind", k.String()).Str("category", name).Msg("category added")
	l.commit()
	return nil
}

// DeleteCategory removes name from the registry of kind k. Essential entries
// are refused and the registry is left unchanged. Deleting an unknown name is
// a no-op. Transactions already using the category are not modified.
func (l *Ledger) DeleteCategory(k CategoryKind, name string) error {
	if IsEssential(k, name) {
		return fmt.Errorf("%s category %q: %w", k, name, ErrEssentialCategory)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.registry(k)
	i := slices.Index(*list, name)
	if i < 0 {
		return nil
	}
	*list = slices.Delete(*list, i, i+1)
	l.log.Info().Str("kind", k.String()).Str("category", name).Msg("category deleted")
	l.commit()
	return nil
}
