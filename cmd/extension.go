package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/etnz/cashbook/config"
)

// ExtensionPrefix prefixes the name of external subcommand binaries.
const ExtensionPrefix = "cashbook-"

// RunExtension attempts to find and execute an external cashbook-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The effective configuration is passed to the extension through the same
// environment variables the tool reads, so that it opens the same book.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if cfg, err := loadConfig(); err == nil {
		cmd.Env = append(cmd.Env,
			config.EnvState+"="+cfg.State,
			config.EnvStore+"="+cfg.Store,
			config.EnvLogLevel+"="+cfg.LogLevel,
			config.EnvFiscalProfile+"="+cfg.FiscalProfile,
		)
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
