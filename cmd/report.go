package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/export"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	typ     string
	rng     rangeFlags
	account string
	part    string
	output  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "report the transactions or documents of a period" }
func (*reportCmd) Usage() string {
	return `cashbook report [-type <movimientos|documentos|inversiones>] [-p <period> [-d <date>] | -from <date> [-to <date>]] [-account <name>] [-part <part>] [-o <file>]

  Generates a report for a period. With -o, the report is exported to a file
  whose extension selects the format: .xlsx, .pdf, .html or .md.

Usage Examples:
$ cashbook report -type movimientos -p month -d 2024-01-15
$ cashbook report -type documentos -p year -o documentos.pdf
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "movimientos", "Report type: movimientos, documentos or inversiones.")
	c.rng.SetFlags(f, "month")
	f.StringVar(&c.account, "account", "", "Only this account.")
	f.StringVar(&c.part, "part", "", "Only this part.")
	f.StringVar(&c.output, "o", "", "Export to this file.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := cashbook.ParseReportType(c.typ)
	if err != nil {
		return fail(&cashbook.ValidationError{Field: "type", Value: c.typ, Reason: err.Error()})
	}
	if typ == cashbook.Sociedades {
		fmt.Fprintln(os.Stderr, "Error: use 'cashbook tax' for the corporate tax estimate")
		return subcommands.ExitUsageError
	}
	r, err := c.rng.Range()
	if err != nil {
		return fail(err)
	}
	return run(func(b *book) error {
		report, err := b.GenerateReport(cashbook.ReportQuery{Type: typ, Range: r, Account: c.account, Part: c.part})
		if err != nil {
			return err
		}
		return show(report, c.output)
	})
}

// show prints the report, or exports it when output is set.
func show(r *cashbook.Report, output string) error {
	if output == "" {
		printMarkdown(renderer.RenderReport(r))
		return nil
	}
	if err := exportFile(output, r.Table()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Report %q exported to %s\n", r.Title, output)
	return nil
}

// exportFile writes t to name, in the format given by its extension. Nothing
// is written when the export fails.
func exportFile(name string, t cashbook.Table) error {
	format, err := export.FormatFromFilename(name)
	if err != nil {
		return &cashbook.ValidationError{Field: "o", Value: name, Reason: err.Error()}
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, t); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0644)
}
