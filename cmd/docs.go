package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type docsCmd struct{}

func (*docsCmd) Name() string     { return "docs" }
func (*docsCmd) Synopsis() string { return "list proformas and invoices" }
func (*docsCmd) Usage() string {
	return `cashbook docs

  Lists the documents with their id, number, client, amount and status.
`
}

func (*docsCmd) SetFlags(f *flag.FlagSet) {}

func (*docsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		docs := b.Documents()
		if len(docs) == 0 {
			fmt.Fprintln(stdout, "No documents.")
			return nil
		}
		var md strings.Builder
		md.WriteString("# Documentos\n\n")
		for _, d := range docs {
			fmt.Fprintf(&md, "* `%s` %s %s\n", d.ID, d.Date, renderer.Document(d))
		}
		printMarkdown(md.String())
		return nil
	})
}

// itemsFlag collects repeated -item flags.
type itemsFlag []cashbook.ItemInput

func (i *itemsFlag) String() string {
	var s []string
	for _, it := range *i {
		s = append(s, it.Description+";"+it.Quantity+";"+it.Price)
	}
	return strings.Join(s, ",")
}

// Set parses "description;quantity;price".
func (i *itemsFlag) Set(v string) error {
	parts := strings.Split(v, ";")
	if len(parts) != 3 {
		return fmt.Errorf("item %q: expected description;quantity;price", v)
	}
	*i = append(*i, cashbook.ItemInput{
		Description: strings.TrimSpace(parts[0]),
		Quantity:    strings.TrimSpace(parts[1]),
		Price:       strings.TrimSpace(parts[2]),
	})
	return nil
}

type addDocCmd struct {
	typ       string
	date      string
	number    string
	client    string
	nif       string
	amount    string
	currency  string
	operation string
	items     itemsFlag
}

func (*addDocCmd) Name() string     { return "add-doc" }
func (*addDocCmd) Synopsis() string { return "create a proforma or an invoice" }
func (*addDocCmd) Usage() string {
	return `cashbook add-doc -type <proforma|factura> -client <name> [-nif <nif>] [-item <desc;qty;price>]... [-amount <amount>] [-operation <type>] [-date <date>] [-number <number>]

  Creates a document. An invoice needs at least one item, its VAT and total
  are computed once. A proforma without items takes -amount.

Usage Examples:
$ cashbook add-doc -type factura -client ACME -nif B12345678 -item "Consultoría;10;50"
`
}

func (c *addDocCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "proforma", "proforma or factura.")
	f.StringVar(&c.date, "date", "", "Document date. Defaults to today.")
	f.StringVar(&c.number, "number", "", "Document number. Generated when empty.")
	f.StringVar(&c.client, "client", "", "Client name.")
	f.StringVar(&c.nif, "nif", "", "Client tax id.")
	f.StringVar(&c.amount, "amount", "", "Amount of a proforma without items.")
	f.StringVar(&c.currency, "currency", "EUR", "Currency code.")
	f.StringVar(&c.operation, "operation", "", "Invoice operation type. Defaults to "+cashbook.OperationDomestic+".")
	f.Var(&c.items, "item", "An item as description;quantity;price, repeatable.")
}

func (c *addDocCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := cashbook.ParseDocType(c.typ)
	if err != nil {
		return fail(&cashbook.ValidationError{Field: "type", Value: c.typ, Reason: "expected proforma or factura"})
	}
	d, err := parseDate("date", c.date)
	if err != nil {
		return fail(err)
	}
	return run(func(b *book) error {
		doc, err := b.AddDocument(cashbook.DocumentInput{
			Type:          typ,
			Date:          d,
			Number:        c.number,
			Client:        c.client,
			NIF:           c.nif,
			Amount:        c.amount,
			Currency:      c.currency,
			Items:         c.items,
			OperationType: c.operation,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s [%s]\n", renderer.Document(doc), doc.ID)
		return nil
	})
}

type toggleDocCmd struct {
	id string
}

func (*toggleDocCmd) Name() string     { return "toggle-doc" }
func (*toggleDocCmd) Synopsis() string { return "mark a document as collected or owed" }
func (*toggleDocCmd) Usage() string {
	return `cashbook toggle-doc -id <id>

  Switches a document between Adeudada and Cobrada.
`
}

func (c *toggleDocCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Document id or unique id prefix.")
}

func (c *toggleDocCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		id, err := resolveDoc(b, c.id)
		if err != nil {
			return err
		}
		status, err := b.ToggleDocumentStatus(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Document %s is now %s\n", id, status)
		return nil
	})
}

type deleteDocCmd struct {
	id  string
	yes bool
}

func (*deleteDocCmd) Name() string     { return "delete-doc" }
func (*deleteDocCmd) Synopsis() string { return "delete a document" }
func (*deleteDocCmd) Usage() string {
	return `cashbook delete-doc -id <id> -yes

  Deletes a document. The deletion must be confirmed with -yes.
`
}

func (c *deleteDocCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Document id or unique id prefix.")
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion.")
}

func (c *deleteDocCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		id, err := resolveDoc(b, c.id)
		if err != nil {
			return err
		}
		if err := b.DeleteDocument(id, c.yes); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Document %s deleted\n", id)
		return nil
	})
}

func resolveDoc(b *book, prefix string) (string, error) {
	var ids []string
	for _, d := range b.Documents() {
		ids = append(ids, d.ID)
	}
	return resolveID(prefix, ids, cashbook.ErrDocumentNotFound)
}
