// Package renderer renders the cashbook reports as Markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"cell": Cell,
	"join": strings.Join,
}

// Cell escapes s for a Markdown table cell.
func Cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return " "
	}
	return s
}

// RenderTable renders a table under its title.
func RenderTable(t cashbook.Table) string {
	return renderTemplate("table", "table.md", map[string]string{"table_body": "table_body.md"}, t)
}

// RenderReport renders a report. The tax estimate has its own layout.
func RenderReport(r *cashbook.Report) string {
	if r.Type == cashbook.Sociedades && r.Tax != nil {
		return RenderTax(r)
	}
	return RenderTable(r.Table())
}

// RenderTax renders the corporate tax estimate followed by the transactions
// it is based on.
func RenderTax(r *cashbook.Report) string {
	data := struct {
		*cashbook.Report
		Summary cashbook.Table
		Details cashbook.Table
	}{Report: r, Summary: r.Table(), Details: transactionTable(r.Transactions)}
	return renderTemplate("tax", "tax.md", map[string]string{"table_body": "table_body.md"}, data)
}

// RenderAccounts renders the accounts with their balance.
func RenderAccounts(accounts []cashbook.Account) string {
	t := cashbook.Table{Title: "Cuentas", Headers: []string{"Cuenta", "Divisa", "Saldo"}}
	for _, a := range accounts {
		t.Rows = append(t.Rows, []string{a.Name, a.Currency, a.Money().String()})
	}
	return renderTemplate("accounts", "accounts.md", map[string]string{"table_body": "table_body.md"}, t)
}

// RenderTotals renders the income and expense totals of a range, one row per currency.
func RenderTotals(r date.Range, totals []cashbook.Totals) string {
	t := cashbook.Table{Title: "Totales " + r.Identifier(), Headers: []string{"Divisa", "Ingresos", "Gastos", "Neto"}}
	for _, tot := range totals {
		t.Rows = append(t.Rows, []string{
			tot.Currency,
			cashbook.M(tot.Income, tot.Currency).String(),
			cashbook.M(tot.Expense, tot.Currency).String(),
			cashbook.M(tot.Net(), tot.Currency).String(),
		})
	}
	return RenderTable(t)
}

// RenderTransactions renders a list of transactions.
func RenderTransactions(title string, txs []cashbook.Transaction) string {
	t := transactionTable(txs)
	t.Title = title
	return RenderTable(t)
}

// RenderCategories renders a category registry, essential entries are marked with a lock.
func RenderCategories(kind cashbook.CategoryKind, names []string) string {
	type entry struct {
		Name      string
		Essential bool
	}
	data := struct {
		Kind    string
		Entries []entry
	}{Kind: kind.String()}
	for _, n := range names {
		data.Entries = append(data.Entries, entry{n, cashbook.IsEssential(kind, n)})
	}
	return renderTemplate("categories", "categories.md", nil, data)
}

func transactionTable(txs []cashbook.Transaction) cashbook.Table {
	t := cashbook.Table{Headers: []string{"ID", "Fecha", "Descripción", "Cuenta", "Categoría", "Parte", "Importe"}}
	for _, tx := range txs {
		t.Rows = append(t.Rows, []string{
			shortID(tx.ID), tx.Date.String(), tx.Description, tx.Account, tx.Category, tx.Part,
			cashbook.M(tx.Delta(), tx.Currency).String(),
		})
	}
	return t
}

// shortID keeps the first block of a uuid, enough to tell rows apart on screen.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
