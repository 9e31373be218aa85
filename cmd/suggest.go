package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/internal/logger"
	"github.com/etnz/cashbook/suggest"
	"github.com/google/subcommands"
)

type suggestCmd struct {
	typ string
}

func (*suggestCmd) Name() string     { return "suggest" }
func (*suggestCmd) Synopsis() string { return "suggest a category for a transaction description" }
func (*suggestCmd) Usage() string {
	return `cashbook suggest [-type <income|expense>] <description>

  Asks the configured Gemini model for the category that best fits the
  description. Requires GEMINI_API_KEY.

Usage Examples:
$ cashbook suggest -type expense "Recibo luz enero"
`
}

func (c *suggestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "expense", "income or expense.")
}

func (c *suggestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	description := strings.Join(f.Args(), " ")
	if description == "" {
		return fail(&cashbook.ValidationError{Field: "description", Reason: "required"})
	}
	typ, err := cashbook.ParseTxType(c.typ)
	if err != nil {
		return fail(&cashbook.ValidationError{Field: "type", Value: c.typ, Reason: "expected income or expense"})
	}
	return run(func(b *book) error {
		if b.cfg.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set")
		}
		gen, err := suggest.NewGemini(ctx, b.cfg.GeminiAPIKey, b.cfg.Model)
		if err != nil {
			return err
		}
		ctx = logger.WithContext(ctx, b.log)
		s, err := suggest.New(gen).Suggest(ctx, description, typ, b.Categories(cashbook.KindOf(typ)))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, s.Category)
		return nil
	})
}
