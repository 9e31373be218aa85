package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type transferCmd struct {
	from        string
	to          string
	amount      string
	fee         string
	received    string
	destFee     string
	date        string
	description string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `cashbook transfer -from <account> -to <account> -amount <amount> [-fee <amount>] [-received <amount> | -dest-fee <amount>] [-date <date>] [-desc <text>]

  Debits the source account and credits the destination account. Fees are
  recorded as separate expenses.

  Between accounts of different currencies, -received is the amount that
  arrived on the destination account and is required. Between accounts of the
  same currency, -dest-fee is the fee charged on the destination account.

Usage Examples:
$ cashbook transfer -from Banco -to "Caja USD" -amount 100 -received 108,70
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account.")
	f.StringVar(&c.to, "to", "", "Destination account.")
	f.StringVar(&c.amount, "amount", "", "Amount debited from the source, fee excluded.")
	f.StringVar(&c.fee, "fee", "", "Fee charged on the source account.")
	f.StringVar(&c.received, "received", "", "Amount credited on a destination of another currency.")
	f.StringVar(&c.destFee, "dest-fee", "", "Fee charged on a destination of the same currency.")
	f.StringVar(&c.date, "date", "", "Transfer date. Defaults to today.")
	f.StringVar(&c.description, "desc", "", "Description.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.received != "" && c.destFee != "" {
		return fail(&cashbook.ValidationError{Field: "received", Reason: "-received and -dest-fee cannot be used together"})
	}
	d, err := parseDate("date", c.date)
	if err != nil {
		return fail(err)
	}
	destination := c.received
	if destination == "" {
		destination = c.destFee
	}
	return run(func(b *book) error {
		txs, err := b.Transfer(cashbook.TransferInput{
			From:        c.from,
			To:          c.to,
			Amount:      c.amount,
			SourceFee:   c.fee,
			Destination: destination,
			Date:        d,
			Description: c.description,
		})
		if err != nil {
			return err
		}
		for _, tx := range txs {
			fmt.Fprintln(stdout, renderer.Transaction(tx))
		}
		return nil
	})
}
