// Package cmd implements the CLI application to keep the books.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/config"
	"github.com/etnz/cashbook/date"
	"github.com/etnz/cashbook/internal/logger"
	"github.com/etnz/cashbook/storage"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&addAccountCmd{}, "accounts")
	c.Register(&deleteAccountCmd{}, "accounts")
	c.Register(&historyCmd{}, "accounts")
	c.Register(&reconcileCmd{}, "accounts")

	c.Register(&txCmd{}, "transactions")
	c.Register(&addTxCmd{}, "transactions")
	c.Register(&editTxCmd{}, "transactions")
	c.Register(&deleteTxCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&categoriesCmd{}, "transactions")
	c.Register(&suggestCmd{}, "transactions")

	c.Register(&docsCmd{}, "documents")
	c.Register(&addDocCmd{}, "documents")
	c.Register(&toggleDocCmd{}, "documents")
	c.Register(&deleteDocCmd{}, "documents")

	c.Register(&reportCmd{}, "reports")
	c.Register(&taxCmd{}, "reports")

	c.Register(&settingsCmd{}, "")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	stateFile   = flag.String("state", "", "Path to the book snapshot. Overrides "+config.EnvState+".")
	storeKind   = flag.String("store", "", "Snapshot storage, file or bolt. Overrides "+config.EnvStore+".")
	envFile     = flag.String("env", "", "Path to a .env file to load.")
	logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error). Overrides "+config.EnvLogLevel+".")
	profileFile = flag.String("profile", "", "Path to the fiscal profile. Overrides "+config.EnvFiscalProfile+".")
)

// stdout receives the command output.
var stdout io.Writer = os.Stdout

// loadConfig reads the configuration and applies the global flags on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, err
	}
	if *stateFile != "" {
		cfg.State = *stateFile
	}
	if *storeKind != "" {
		cfg.Store = strings.ToLower(*storeKind)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *profileFile != "" {
		cfg.FiscalProfile = *profileFile
	}
	return cfg, cfg.Validate()
}

// book is an opened ledger with the storage it saves to.
type book struct {
	*cashbook.Ledger
	cfg   *config.Config
	log   zerolog.Logger
	store storage.Storage
}

// openBook is the central function to open the book selected by the configuration.
func openBook() (*book, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logger.New(level)
	store, err := storage.Open(cfg.Store, cfg.State)
	if err != nil {
		return nil, err
	}
	// A damaged snapshot is repaired and logged by the keeper, the book is still usable.
	ledger, _ := storage.Keeper{Storage: store, Log: log}.Load()
	for _, tx := range ledger.Orphans() {
		log.Warn().Str("id", tx.ID).Str("account", tx.Account).Msg("transaction references a missing account")
	}
	return &book{Ledger: ledger, cfg: cfg, log: log, store: store}, nil
}

// Close reports the last save failure and releases the storage.
func (b *book) Close() error {
	return errors.Join(b.LastSaveError(), b.store.Close())
}

// run opens the book, calls fn and closes the book, mapping errors to an exit status.
func run(fn func(b *book) error) subcommands.ExitStatus {
	b, err := openBook()
	if err != nil {
		return fail(err)
	}
	err = fn(b)
	if cerr := b.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Error saving the book to %q: %v\n", b.cfg.State, cerr)
		if err == nil {
			return subcommands.ExitFailure
		}
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// fail prints err and returns the matching exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, cashbook.ErrValidation) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal, or prints it as is if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}

// parseDate parses an optional date flag, empty means the zero date.
func parseDate(field, s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return d, &cashbook.ValidationError{Field: field, Value: s, Reason: "expected a YYYY-MM-DD date"}
	}
	return d, nil
}

// resolveID finds the only id starting with prefix.
func resolveID(prefix string, ids []string, notFound error) (string, error) {
	if prefix == "" {
		return "", &cashbook.ValidationError{Field: "id", Reason: "required"}
	}
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %q", notFound, prefix)
	case 1:
		return found[0], nil
	default:
		return "", &cashbook.ValidationError{Field: "id", Value: prefix, Reason: fmt.Sprintf("ambiguous, matches %d entries", len(found))}
	}
}
