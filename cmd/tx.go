package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	rng     rangeFlags
	account string
	part    string
	head    int
	tail    int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions" }
func (*txCmd) Usage() string {
	return `cashbook tx [-p <period> [-d <date>] | -from <date> [-to <date>]] [-account <name>] [-part <part>] [-head <n>] [-tail <n>]

  Lists the transactions, most recent last. Without any range flag, all
  transactions are listed.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	c.rng.SetFlags(f, "")
	f.StringVar(&c.account, "account", "", "Only the transactions of this account.")
	f.StringVar(&c.part, "part", "", "Only the transactions of this part.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		return fail(&cashbook.ValidationError{Field: "head", Reason: "-head and -tail cannot be used together"})
	}
	return run(func(b *book) error {
		txs := b.Transactions()
		title := "Movimientos"
		if c.rng.isSet() {
			if c.rng.period == "" && c.rng.from == "" {
				c.rng.period = "month"
			}
			r, err := c.rng.Range()
			if err != nil {
				return err
			}
			title += " " + r.Identifier()
			var in []cashbook.Transaction
			for _, tx := range txs {
				if r.Contains(tx.Date) {
					in = append(in, tx)
				}
			}
			txs = in
		}
		var kept []cashbook.Transaction
		for _, tx := range txs {
			if (c.account == "" || tx.Account == c.account) && (c.part == "" || tx.Part == c.part) {
				kept = append(kept, tx)
			}
		}
		txs = kept
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		if c.tail > 0 && len(txs) > c.tail {
			txs = txs[len(txs)-c.tail:]
		}
		printMarkdown(renderer.RenderTransactions(title, txs))
		return nil
	})
}

// txFlags are the fields of a transaction on the command line.
type txFlags struct {
	typ         string
	account     string
	category    string
	amount      string
	date        string
	description string
	part        string
}

func (t *txFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.typ, "type", "", "income or expense.")
	f.StringVar(&t.account, "account", "", "Account name.")
	f.StringVar(&t.category, "category", "", "Category, from the income or expense list.")
	f.StringVar(&t.amount, "amount", "", "Positive amount, '.' or ',' as decimal separator.")
	f.StringVar(&t.date, "date", "", "Transaction date. Defaults to today.")
	f.StringVar(&t.description, "desc", "", "Description.")
	f.StringVar(&t.part, "part", "", "Accounting part. Defaults to "+cashbook.DefaultPart+".")
}

// apply overrides in with the flags that were given.
func (t *txFlags) apply(in *cashbook.TransactionInput) error {
	if t.typ != "" {
		typ, err := cashbook.ParseTxType(t.typ)
		if err != nil {
			return &cashbook.ValidationError{Field: "type", Value: t.typ, Reason: "expected income or expense"}
		}
		in.Type = typ
	}
	if t.date != "" {
		d, err := parseDate("date", t.date)
		if err != nil {
			return err
		}
		in.Date = d
	}
	setString(&in.Account, t.account)
	setString(&in.Category, t.category)
	setString(&in.Amount, t.amount)
	setString(&in.Description, t.description)
	setString(&in.Part, t.part)
	return nil
}

// setString sets *dst to v unless v is empty.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

type addTxCmd struct {
	txFlags
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "record an income or an expense" }
func (*addTxCmd) Usage() string {
	return `cashbook add-tx -type <income|expense> -account <name> -category <category> -amount <amount> [-date <date>] [-desc <text>] [-part <part>]

  Records a transaction and updates the account balance.

Usage Examples:
$ cashbook add-tx -type expense -account Banco -category Alquiler -amount 650,50
`
}

func (c *addTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.typ == "" {
		return fail(&cashbook.ValidationError{Field: "type", Reason: "required"})
	}
	return run(func(b *book) error {
		var in cashbook.TransactionInput
		if err := c.apply(&in); err != nil {
			return err
		}
		tx, err := b.CreateTransaction(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s [%s]\n", renderer.Transaction(tx), tx.ID)
		return nil
	})
}

type editTxCmd struct {
	id string
	txFlags
}

func (*editTxCmd) Name() string     { return "edit-tx" }
func (*editTxCmd) Synopsis() string { return "change a transaction" }
func (*editTxCmd) Usage() string {
	return `cashbook edit-tx -id <id> [-type <type>] [-account <name>] [-category <category>] [-amount <amount>] [-date <date>] [-desc <text>] [-part <part>]

  Changes the given fields of a transaction, the others are kept. The id may
  be shortened to any unique prefix.
`
}

func (c *editTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id or unique id prefix.")
	c.txFlags.SetFlags(f)
}

func (c *editTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		id, err := resolveTx(b, c.id)
		if err != nil {
			return err
		}
		old, _ := b.Transaction(id)
		in := cashbook.TransactionInput{
			Date:           old.Date,
			Description:    old.Description,
			Type:           old.Type,
			Account:        old.Account,
			Category:       old.Category,
			Amount:         old.Amount.String(),
			Part:           old.Part,
			InitialBalance: old.InitialBalance,
		}
		if err := c.apply(&in); err != nil {
			return err
		}
		tx, err := b.UpdateTransaction(id, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s [%s]\n", renderer.Transaction(tx), tx.ID)
		return nil
	})
}

type deleteTxCmd struct {
	id string
}

func (*deleteTxCmd) Name() string     { return "delete-tx" }
func (*deleteTxCmd) Synopsis() string { return "delete a transaction" }
func (*deleteTxCmd) Usage() string {
	return `cashbook delete-tx -id <id>

  Deletes a transaction and reverses its effect on the account balance.
`
}

func (c *deleteTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id or unique id prefix.")
}

func (c *deleteTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		id, err := resolveTx(b, c.id)
		if err != nil {
			return err
		}
		if err := b.DeleteTransaction(id); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Transaction %s deleted\n", id)
		return nil
	})
}

// resolveTx resolves a transaction id prefix, the initial balances included.
func resolveTx(b *book, prefix string) (string, error) {
	var ids []string
	for _, tx := range b.State().Transactions {
		ids = append(ids, tx.ID)
	}
	return resolveID(prefix, ids, cashbook.ErrTransactionNotFound)
}
