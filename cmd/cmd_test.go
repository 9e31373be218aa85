package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/config"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// setupBook points the global flags to a fresh book in a temporary folder
// and captures the command output.
func setupBook(t *testing.T) (path string, out *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, env := range []string{config.EnvState, config.EnvStore, config.EnvLogLevel, config.EnvFiscalProfile} {
		t.Setenv(env, "")
	}
	path = filepath.Join(dir, "book.json")

	oldState, oldLevel, oldOut := *stateFile, *logLevel, stdout
	*stateFile, *logLevel = path, "error"
	out = &bytes.Buffer{}
	stdout = out
	t.Cleanup(func() { *stateFile, *logLevel, stdout = oldState, oldLevel, oldOut })
	return path, out
}

// execute runs a command with args as its command line.
func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

// mustExecute runs a command that must succeed.
func mustExecute(t *testing.T, c subcommands.Command, args ...string) {
	t.Helper()
	if status := execute(t, c, args...); status != subcommands.ExitSuccess {
		t.Fatalf("%s %v = %v, want ExitSuccess", c.Name(), args, status)
	}
}

// readState decodes the book saved at path.
func readState(t *testing.T, path string) cashbook.State {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read the book: %v", err)
	}
	s, err := cashbook.DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState() error = %v", err)
	}
	return s
}

func balance(t *testing.T, s cashbook.State, name string) decimal.Decimal {
	t.Helper()
	for _, a := range s.Accounts {
		if a.Name == name {
			return a.Balance
		}
	}
	t.Fatalf("account %q not found", name)
	return decimal.Zero
}

func TestAccountAndTransactionCommands(t *testing.T) {
	path, _ := setupBook(t)

	mustExecute(t, &addAccountCmd{}, "-name", "Banco", "-currency", "EUR", "-initial", "1000")
	mustExecute(t, &addTxCmd{}, "-type", "expense", "-account", "Banco", "-category", "Alquiler", "-amount", "200,50", "-date", "2024-01-31")
	mustExecute(t, &addTxCmd{}, "-type", "income", "-account", "Banco", "-category", "Ventas", "-amount", "100")

	s := readState(t, path)
	if got, want := balance(t, s, "Banco"), decimal.RequireFromString("899.5"); !got.Equal(want) {
		t.Errorf("balance = %s, want %s", got, want)
	}
	if len(s.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(s.Transactions))
	}

	var rent cashbook.Transaction
	for _, tx := range s.Transactions {
		if tx.Category == "Alquiler" {
			rent = tx
		}
	}
	mustExecute(t, &editTxCmd{}, "-id", rent.ID[:8], "-amount", "250")
	s = readState(t, path)
	if got, want := balance(t, s, "Banco"), decimal.NewFromInt(850); !got.Equal(want) {
		t.Errorf("balance after edit = %s, want %s", got, want)
	}
	for _, tx := range s.Transactions {
		if tx.ID == rent.ID && (tx.Description != rent.Description || tx.Date != rent.Date) {
			t.Errorf("edit changed unrelated fields: %+v", tx)
		}
	}

	mustExecute(t, &deleteTxCmd{}, "-id", rent.ID)
	s = readState(t, path)
	if got, want := balance(t, s, "Banco"), decimal.NewFromInt(1100); !got.Equal(want) {
		t.Errorf("balance after delete = %s, want %s", got, want)
	}
}

func TestCommandErrors(t *testing.T) {
	setupBook(t)
	mustExecute(t, &addAccountCmd{}, "-name", "Banco", "-initial", "10")

	testCases := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{name: "missing type", cmd: &addTxCmd{}, args: []string{"-account", "Banco", "-category", "Ventas", "-amount", "1"}, want: subcommands.ExitUsageError},
		{name: "negative amount", cmd: &addTxCmd{}, args: []string{"-type", "income", "-account", "Banco", "-category", "Ventas", "-amount", "-1"}, want: subcommands.ExitUsageError},
		{name: "bad date", cmd: &addTxCmd{}, args: []string{"-type", "income", "-account", "Banco", "-category", "Ventas", "-amount", "1", "-date", "31/01/2024"}, want: subcommands.ExitUsageError},
		{name: "unknown account", cmd: &addTxCmd{}, args: []string{"-type", "income", "-account", "Caja", "-category", "Ventas", "-amount", "1"}, want: subcommands.ExitFailure},
		{name: "duplicate account", cmd: &addAccountCmd{}, args: []string{"-name", "Banco"}, want: subcommands.ExitFailure},
		{name: "account in use", cmd: &deleteAccountCmd{}, args: []string{"-name", "Banco"}, want: subcommands.ExitFailure},
		{name: "essential category", cmd: &categoriesCmd{}, args: []string{"-kind", "expense", "-delete", cashbook.CategoryFees}, want: subcommands.ExitFailure},
		{name: "unknown transaction", cmd: &deleteTxCmd{}, args: []string{"-id", "nope"}, want: subcommands.ExitFailure},
		{name: "aeat without endpoint", cmd: &settingsCmd{}, args: []string{"-aeat", "on"}, want: subcommands.ExitUsageError},
		{name: "tax report type", cmd: &reportCmd{}, args: []string{"-type", "sociedades"}, want: subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := execute(t, tc.cmd, tc.args...); got != tc.want {
				t.Errorf("%s %v = %v, want %v", tc.cmd.Name(), tc.args, got, tc.want)
			}
		})
	}
}

func TestDeleteAccountCascade(t *testing.T) {
	path, _ := setupBook(t)
	mustExecute(t, &addAccountCmd{}, "-name", "Banco", "-initial", "10")
	mustExecute(t, &deleteAccountCmd{}, "-name", "Banco", "-cascade")

	s := readState(t, path)
	if len(s.Accounts) != 0 || len(s.Transactions) != 0 {
		t.Errorf("cascade left %d accounts and %d transactions", len(s.Accounts), len(s.Transactions))
	}
}

func TestTransferCommand(t *testing.T) {
	path, _ := setupBook(t)
	mustExecute(t, &addAccountCmd{}, "-name", "Banco", "-initial", "1000")
	mustExecute(t, &addAccountCmd{}, "-name", "Caja USD", "-currency", "USD")

	mustExecute(t, &transferCmd{}, "-from", "Banco", "-to", "Caja USD", "-amount", "100", "-fee", "2", "-received", "108,70")

	s := readState(t, path)
	if got, want := balance(t, s, "Banco"), decimal.NewFromInt(898); !got.Equal(want) {
		t.Errorf("source balance = %s, want %s", got, want)
	}
	if got, want := balance(t, s, "Caja USD"), decimal.RequireFromString("108.7"); !got.Equal(want) {
		t.Errorf("destination balance = %s, want %s", got, want)
	}

	if got := execute(t, &transferCmd{}, "-from", "Banco", "-to", "Caja USD", "-amount", "1", "-received", "1", "-dest-fee", "1"); got != subcommands.ExitUsageError {
		t.Errorf("transfer with -received and -dest-fee = %v, want ExitUsageError", got)
	}
}

func TestDocumentCommands(t *testing.T) {
	path, out := setupBook(t)
	mustExecute(t, &addDocCmd{}, "-type", "factura", "-client", "ACME", "-nif", "b123", "-item", "Consultoría;10;50", "-item", "Licencia;1;250", "-date", "2024-02-01")

	s := readState(t, path)
	if len(s.Documents) != 1 {
		t.Fatalf("got %d documents, want 1", len(s.Documents))
	}
	doc := s.Documents[0]
	if doc.Number != "F-2024-001" || !doc.Total.Equal(decimal.RequireFromString("907.5")) {
		t.Errorf("invoice = %s total %s, want F-2024-001 total 907.5", doc.Number, doc.Total)
	}

	mustExecute(t, &toggleDocCmd{}, "-id", doc.ID[:6])
	if got := readState(t, path).Documents[0].Status; got != cashbook.Cobrada {
		t.Errorf("status after toggle = %v, want Cobrada", got)
	}
	if !strings.Contains(out.String(), "Cobrada") {
		t.Errorf("toggle-doc output = %q, want the new status", out.String())
	}

	if got := execute(t, &deleteDocCmd{}, "-id", doc.ID); got != subcommands.ExitFailure {
		t.Errorf("delete-doc without -yes = %v, want ExitFailure", got)
	}
	mustExecute(t, &deleteDocCmd{}, "-id", doc.ID, "-yes")
	if got := len(readState(t, path).Documents); got != 0 {
		t.Errorf("got %d documents after delete, want 0", got)
	}

	if got := execute(t, &addDocCmd{}, "-type", "factura", "-client", "ACME"); got != subcommands.ExitUsageError {
		t.Errorf("invoice without items = %v, want ExitUsageError", got)
	}
}

func TestReportExport(t *testing.T) {
	_, _ = setupBook(t)
	mustExecute(t, &addAccountCmd{}, "-name", "Banco")
	mustExecute(t, &addTxCmd{}, "-type", "income", "-account", "Banco", "-category", "Ventas", "-amount", "100", "-date", "2024-01-10")

	dir := t.TempDir()
	xlsx := filepath.Join(dir, "enero.xlsx")
	mustExecute(t, &reportCmd{}, "-p", "month", "-d", "2024-01-20", "-o", xlsx)
	if info, err := os.Stat(xlsx); err != nil || info.Size() == 0 {
		t.Errorf("report was not exported to %s: %v", xlsx, err)
	}

	empty := filepath.Join(dir, "marzo.pdf")
	if got := execute(t, &reportCmd{}, "-p", "month", "-d", "2024-03-20", "-o", empty); got != subcommands.ExitFailure {
		t.Errorf("empty report export = %v, want ExitFailure", got)
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Errorf("empty report created %s", empty)
	}

	if got := execute(t, &reportCmd{}, "-o", filepath.Join(dir, "enero.txt")); got != subcommands.ExitUsageError {
		t.Errorf("unknown export format = %v, want ExitUsageError", got)
	}
}

func TestTaxCommand(t *testing.T) {
	path, out := setupBook(t)
	mustExecute(t, &addAccountCmd{}, "-name", "Banco")
	mustExecute(t, &addAccountCmd{}, "-name", "Caja")
	mustExecute(t, &addTxCmd{}, "-type", "income", "-account", "Banco", "-category", "Ventas", "-amount", "1000", "-date", "2024-02-01")
	mustExecute(t, &addTxCmd{}, "-type", "expense", "-account", "Banco", "-category", "Alquiler", "-amount", "400", "-date", "2024-02-02")
	mustExecute(t, &addTxCmd{}, "-type", "income", "-account", "Caja", "-category", "Ventas", "-amount", "5000", "-date", "2024-02-03")
	mustExecute(t, &settingsCmd{}, "-tax-rate", "17")
	if got := readState(t, path).Settings.FiscalParameters.CorporateTaxRate; !got.Equal(decimal.NewFromInt(17)) {
		t.Fatalf("tax rate = %s, want 17", got)
	}

	profile := filepath.Join(t.TempDir(), "fiscal.yaml")
	if err := os.WriteFile(profile, []byte("fiscalAccounts:\n  - Banco\n"), 0644); err != nil {
		t.Fatal(err)
	}
	old := *profileFile
	*profileFile = profile
	defer func() { *profileFile = old }()

	xlsx := filepath.Join(t.TempDir(), "1P.xlsx")
	out.Reset()
	mustExecute(t, &taxCmd{}, "-year", "2024", "-period", "1P", "-o", xlsx)
	if !strings.Contains(out.String(), "Sociedades 2024 1P") {
		t.Errorf("tax output = %q, want the report title", out.String())
	}

	c := &taxCmd{accounts: "Banco, Caja"}
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	accounts, err := c.fiscalAccounts(cfg)
	if err != nil || strings.Join(accounts, ",") != "Banco,Caja" {
		t.Errorf("fiscalAccounts() = %v, %v, want the -accounts list", accounts, err)
	}
	c.accounts = ""
	accounts, err = c.fiscalAccounts(cfg)
	if err != nil || strings.Join(accounts, ",") != "Banco" {
		t.Errorf("fiscalAccounts() = %v, %v, want the profile accounts", accounts, err)
	}

	if got := execute(t, &taxCmd{}, "-period", "4P"); got != subcommands.ExitUsageError {
		t.Errorf("tax -period 4P = %v, want ExitUsageError", got)
	}
}

func TestBoltStore(t *testing.T) {
	path, _ := setupBook(t)
	old := *storeKind
	*storeKind = "bolt"
	defer func() { *storeKind = old }()

	mustExecute(t, &addAccountCmd{}, "-name", "Banco", "-initial", "10")
	mustExecute(t, &addAccountCmd{}, "-name", "Caja")

	b, err := openBook()
	if err != nil {
		t.Fatalf("openBook() error = %v", err)
	}
	defer b.Close()
	if got := len(b.Accounts()); got != 2 {
		t.Errorf("bolt book has %d accounts, want 2", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("bolt database not created: %v", err)
	}
}

func TestResolveID(t *testing.T) {
	ids := []string{"3f2a0000-1", "3f2b0000-2", "abcd"}
	testCases := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{prefix: "3f2a", want: "3f2a0000-1"},
		{prefix: "abcd", want: "abcd"},
		{prefix: "3f2", wantErr: true},
		{prefix: "ffff", wantErr: true},
		{prefix: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := resolveID(tc.prefix, ids, cashbook.ErrTransactionNotFound)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("resolveID(%q) = %q, %v, want %q (error %t)", tc.prefix, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestCompletion(t *testing.T) {
	fs := flag.NewFlagSet("cashbook", flag.ContinueOnError)
	fs.String("state", "", "")
	c := subcommands.NewCommander(fs, "cashbook")
	Register(c)

	root := Completion(c, fs)
	if _, ok := root.Flags["state"]; !ok {
		t.Errorf("Completion() misses the global -state flag")
	}
	tx, ok := root.Sub["tx"]
	if !ok {
		t.Fatalf("Completion() misses the tx command")
	}
	if got := tx.Flags["p"].Predict(""); !strings.Contains(strings.Join(got, ","), "month") {
		t.Errorf("tx -p predicts %v, want the periods", got)
	}
	if root.Sub["topic"].Args == nil {
		t.Errorf("topic has no argument predictor")
	}
}
