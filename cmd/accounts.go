package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct {
	rng rangeFlags
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts with their balance" }
func (*accountsCmd) Usage() string {
	return `cashbook accounts [-p <period> [-d <date>] | -from <date> [-to <date>]]

  Lists the accounts and their current balance, followed by the income and
  expense totals of the period, the current month by default.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) { c.rng.SetFlags(f, "month") }

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.rng.Range()
	if err != nil {
		return fail(err)
	}
	return run(func(b *book) error {
		printMarkdown(renderer.RenderAccounts(b.Accounts()) + "\n" + renderer.RenderTotals(r, b.Totals(r)))
		return nil
	})
}

type addAccountCmd struct {
	name     string
	currency string
	symbol   string
	initial  string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `cashbook add-account -name <name> -currency <code> [-symbol <symbol>] [-initial <amount>]

  Creates an account. A non zero -initial records the opening balance, a
  negative one opens the account overdrawn.

Usage Examples:
$ cashbook add-account -name Banco -currency EUR -initial 1500
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name, unique.")
	f.StringVar(&c.currency, "currency", "EUR", "ISO 4217 currency code.")
	f.StringVar(&c.symbol, "symbol", "", "Currency symbol to display. Defaults to the currency's.")
	f.StringVar(&c.initial, "initial", "", "Opening balance.")
}

func (c *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		a, err := b.AddAccount(cashbook.AccountInput{
			Name:           c.name,
			Currency:       c.currency,
			Symbol:         c.symbol,
			InitialBalance: c.initial,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Account %q created with balance %s\n", a.Name, a.Money())
		return nil
	})
}

type deleteAccountCmd struct {
	name    string
	cascade bool
}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete an account" }
func (*deleteAccountCmd) Usage() string {
	return `cashbook delete-account -name <name> [-cascade]

  Deletes an account. An account with transactions is only deleted with
  -cascade, which deletes its transactions too.
`
}

func (c *deleteAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account to delete.")
	f.BoolVar(&c.cascade, "cascade", false, "Also delete the account's transactions.")
}

func (c *deleteAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		if err := b.DeleteAccount(c.name, c.cascade); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Account %q deleted\n", c.name)
		return nil
	})
}

type historyCmd struct {
	account string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the transactions of an account" }
func (*historyCmd) Usage() string {
	return `cashbook history -account <name>

  Lists every transaction of an account, the opening balance first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account name.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		txs, err := b.AccountHistory(c.account)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderTransactions("Movimientos de "+c.account, txs))
		return nil
	})
}

type reconcileCmd struct{}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "recompute the account balances from their transactions" }
func (*reconcileCmd) Usage() string {
	return `cashbook reconcile

  Recomputes every balance from the transactions and saves the fixes.
`
}

func (*reconcileCmd) SetFlags(f *flag.FlagSet) {}

func (*reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(b *book) error {
		fixed := b.Reconcile()
		fmt.Fprintf(stdout, "%d balances fixed\n", len(fixed))
		if orphans := b.Orphans(); len(orphans) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d transactions reference a missing account\n", len(orphans))
		}
		printMarkdown(renderer.RenderAccounts(b.Accounts()))
		return nil
	})
}
