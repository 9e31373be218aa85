package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/cashbook"
	"github.com/google/subcommands"
)

type settingsCmd struct {
	taxRate  string
	aeat     string
	certPath string
	certPass string
	endpoint string
	apiKey   string
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change the book settings" }
func (*settingsCmd) Usage() string {
	return `cashbook settings [-tax-rate <percent>] [-aeat-endpoint <url>] [-aeat-cert <path>] [-aeat-pass <pass>] [-aeat-key <key>] [-aeat on|off]

  Without flags, shows the settings. The AEAT module can only be activated
  once its endpoint is set.

Usage Examples:
$ cashbook settings -tax-rate 23
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.taxRate, "tax-rate", "", "Corporate tax rate in percent, 0 to 100.")
	f.StringVar(&c.aeat, "aeat", "", "Activate (on) or deactivate (off) the AEAT module.")
	f.StringVar(&c.certPath, "aeat-cert", "", "Path of the AEAT certificate.")
	f.StringVar(&c.certPass, "aeat-pass", "", "Password of the AEAT certificate.")
	f.StringVar(&c.endpoint, "aeat-endpoint", "", "AEAT endpoint.")
	f.StringVar(&c.apiKey, "aeat-key", "", "AEAT API key.")
}

func (c *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var active *bool
	switch c.aeat {
	case "":
	case "on", "true":
		active = new(bool)
		*active = true
	case "off", "false":
		active = new(bool)
	default:
		return fail(&cashbook.ValidationError{Field: "aeat", Value: c.aeat, Reason: "expected on or off"})
	}
	return run(func(b *book) error {
		if c.taxRate != "" {
			if err := b.SetCorporateTaxRate(c.taxRate); err != nil {
				return err
			}
		}
		if c.certPath != "" || c.certPass != "" || c.endpoint != "" || c.apiKey != "" {
			cfg := b.Settings().AEATConfig
			setString(&cfg.CertPath, c.certPath)
			setString(&cfg.CertPass, c.certPass)
			setString(&cfg.Endpoint, c.endpoint)
			setString(&cfg.APIKey, c.apiKey)
			if err := b.SetAEATConfig(cfg); err != nil {
				return err
			}
		}
		if active != nil {
			if err := b.SetAEATModuleActive(*active); err != nil {
				return err
			}
		}
		s := b.Settings()
		fmt.Fprintf(stdout, "Corporate tax rate: %s%%\n", s.FiscalParameters.CorporateTaxRate)
		fmt.Fprintf(stdout, "AEAT module active: %t\n", s.AEATModuleActive)
		fmt.Fprintf(stdout, "AEAT endpoint: %s\n", s.AEATConfig.Endpoint)
		return nil
	})
}
