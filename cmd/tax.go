package cmd

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/config"
	"github.com/google/subcommands"
)

type taxCmd struct {
	year     int
	period   string
	accounts string
	output   string
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "estimate the corporate tax installment" }
func (*taxCmd) Usage() string {
	return `cashbook tax [-year <year>] -period <1P|2P|3P> [-accounts <a,b,...>] [-o <file>]

  Estimates the "pago a cuenta" of the Impuesto de Sociedades from the EUR
  transactions of part A, on the fiscal accounts, since January 1st. Fiscal
  accounts come from -accounts, or from the fiscal profile, or are all the
  accounts.

Usage Examples:
$ cashbook tax -year 2024 -period 1P -accounts Banco,Caja
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().Year(), "Fiscal year.")
	f.StringVar(&c.period, "period", "1P", "Installment period: 1P, 2P or 3P.")
	f.StringVar(&c.accounts, "accounts", "", "Comma separated fiscal accounts. Overrides the fiscal profile.")
	f.StringVar(&c.output, "o", "", "Export to this file.")
}

func (c *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := cashbook.ParseFiscalPeriod(c.period)
	if err != nil {
		return fail(&cashbook.ValidationError{Field: "period", Value: c.period, Reason: "expected 1P, 2P or 3P"})
	}
	return run(func(b *book) error {
		accounts, err := c.fiscalAccounts(b.cfg)
		if err != nil {
			return err
		}
		report, err := b.GenerateTaxReport(cashbook.TaxQuery{Year: c.year, Period: period, Accounts: accounts})
		if err != nil {
			return err
		}
		return show(report, c.output)
	})
}

// fiscalAccounts returns the account whitelist, empty means all accounts.
func (c *taxCmd) fiscalAccounts(cfg *config.Config) ([]string, error) {
	if c.accounts != "" {
		var accounts []string
		for _, a := range strings.Split(c.accounts, ",") {
			if a = strings.TrimSpace(a); a != "" {
				accounts = append(accounts, a)
			}
		}
		return accounts, nil
	}
	if cfg.FiscalProfile == "" {
		return nil, nil
	}
	profile, err := config.LoadFiscalProfile(cfg.FiscalProfile)
	if err != nil {
		return nil, err
	}
	return profile.FiscalAccounts, nil
}
