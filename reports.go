package cashbook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/cashbook/date"
)

// ReportType selects what a report lists.
type ReportType int

const (
	Movimientos ReportType = iota // non-initial transactions
	Documentos                    // proformas and invoices
	Inversiones                   // investment transactions
	Sociedades                    // corporate tax estimate
)

func (t ReportType) String() string {
	switch t {
	case Movimientos:
		return "movimientos"
	case Documentos:
		return "documentos"
	case Inversiones:
		return "inversiones"
	case Sociedades:
		return "sociedades"
	default:
		return fmt.Sprintf("ReportType(%d)", int(t))
	}
}

// ParseReportType accepts the spanish report names and their english equivalent.
func ParseReportType(s string) (ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movimientos", "transactions":
		return Movimientos, nil
	case "documentos", "documents":
		return Documentos, nil
	case "inversiones", "investments":
		return Inversiones, nil
	case "sociedades", "tax":
		return Sociedades, nil
	default:
		return Movimientos, fmt.Errorf("unknown report type %q", s)
	}
}

// ReportQuery selects the content of a period report. Account and Part are
// optional filters, ignored by Documentos.
type ReportQuery struct {
	Type    ReportType
	Range   date.Range
	Account string
	Part    string
}

// Report is an immutable snapshot of a filtered view of the book.
type Report struct {
	Type         ReportType
	Title        string
	Range        date.Range
	Account      string
	Part         string
	Transactions []Transaction
	Documents    []Document
	Tax          *TaxEstimate
}

// GenerateReport filters the book and keeps the result as the active report.
// The tax estimate has its own entry point, GenerateTaxReport.
func (l *Ledger) GenerateReport(q ReportQuery) (*Report, error) {
	if q.Type == Sociedades {
		return nil, invalid("type", q.Type.String(), "use the tax report")
	}
	if q.Range.From.IsZero() || q.Range.To.IsZero() {
		return nil, invalid("range", q.Range.String(), "is required")
	}
	q.Range = date.Between(q.Range.From, q.Range.To)

	l.mu.Lock()
	defer l.mu.Unlock()
	r := &Report{
		Type:    q.Type,
		Range:   q.Range,
		Account: q.Account,
		Part:    q.Part,
		Title:   reportTitle(q),
	}
	switch q.Type {
	case Documentos:
		for _, d := range l.state.Documents {
			if q.Range.Contains(d.Date) {
				r.Documents = append(r.Documents, d)
			}
		}
		r.Documents = cloneDocuments(r.Documents)
		slices.SortStableFunc(r.Documents, func(a, b Document) int { return a.Date.Compare(b.Date) })
	default:
		for _, tx := range l.state.Transactions {
			switch {
			case tx.InitialBalance, !q.Range.Contains(tx.Date):
			case q.Account != "" && tx.Account != q.Account:
			case q.Part != "" && tx.Part != q.Part:
			case q.Type == Inversiones && tx.Category != CategoryInvestment:
			default:
				r.Transactions = append(r.Transactions, tx)
			}
		}
		slices.SortStableFunc(r.Transactions, byDate)
	}
	l.active = r
	l.log.Debug().Str("report", r.Title).Int("transactions", len(r.Transactions)).Int("documents", len(r.Documents)).Msg("report generated")
	return r, nil
}

func reportTitle(q ReportQuery) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(q.Type.String()[:1]) + q.Type.String()[1:])
	b.WriteString(" ")
	b.WriteString(q.Range.Identifier())
	if q.Account != "" && q.Type != Documentos {
		fmt.Fprintf(&b, " · %s", q.Account)
	}
	if q.Part != "" && q.Type != Documentos {
		fmt.Fprintf(&b, " · parte %s", q.Part)
	}
	return b.String()
}

// ActiveReport returns the last generated report, if any.
func (l *Ledger) ActiveReport() (*Report, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active, l.active != nil
}

// ClearActiveReport forgets the active report.
func (l *Ledger) ClearActiveReport() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = nil
}

// Table is a report shaped for export: a title, headers and text cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table has no row.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Table shapes the report as headers and rows.
func (r *Report) Table() Table {
	t := Table{Title: r.Title}
	switch r.Type {
	case Documentos:
		t.Headers = []string{"Fecha", "Número", "Tipo", "Cliente", "NIF", "Importe", "Estado"}
		for _, d := range r.Documents {
			t.Rows = append(t.Rows, []string{
				d.Date.String(), d.Number, d.Type.String(), d.Client, d.NIF, d.Money().String(), d.Status.String(),
			})
		}
	case Sociedades:
		t.Headers = []string{"Concepto", "Importe"}
		// An estimate without fiscal transactions has nothing to export.
		if x := r.Tax; x != nil && len(x.Transactions) > 0 {
			t.Rows = [][]string{
				{"Ingresos", M(x.Income, TaxCurrency).String()},
				{"Gastos", M(x.Expense, TaxCurrency).String()},
				{"Resultado contable", M(x.ResultadoContable, TaxCurrency).String()},
				{"Tipo impositivo", x.Rate.String() + " %"},
				{"Pago a cuenta", M(x.PagoACuenta, TaxCurrency).String()},
			}
		}
	default:
		t.Headers = []string{"Fecha", "Descripción", "Cuenta", "Categoría", "Parte", "Tipo", "Importe"}
		for _, tx := range r.Transactions {
			t.Rows = append(t.Rows, []string{
				tx.Date.String(), tx.Description, tx.Account, tx.Category, tx.Part, tx.Type.String(), M(tx.Delta(), tx.Currency).String(),
			})
		}
	}
	return t
}
