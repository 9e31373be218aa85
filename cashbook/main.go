// Command cashbook keeps the books of a small business from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cashbook/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Answers the shell when it asks for completions, and exits.
	cmd.Completion(commander, flag.CommandLine).Complete("cashbook")

	flag.Parse()

	if flag.NArg() > 0 && !registered(commander, flag.Arg(0)) {
		if found, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		found = found || sc.Name() == name
	})
	return found
}
