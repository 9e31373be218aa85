package cmd

import (
	"flag"

	"github.com/etnz/cashbook/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors predicts flag values by flag name, other flags take anything.
var flagPredictors = map[string]complete.Predictor{
	"state":   predict.Files("*"),
	"env":     predict.Files("*"),
	"profile": predict.Files("*.yaml"),
	"o":       predict.Files("*"),
	"store":   predict.Set{"file", "bolt"},
	"p":       predict.Set{"day", "week", "month", "quarter", "year"},
	"period":  predict.Set{"1P", "2P", "3P"},
	"kind":    predict.Set{"income", "expense", "operation"},
	"aeat":    predict.Set{"on", "off"},
}

// Completion describes the command line of the registered subcommands for
// shell completion.
func Completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		cmd := &complete.Command{Flags: predictFlags(fs)}
		switch sc.Name() {
		case "topic":
			if topics, err := docs.Topics(); err == nil {
				cmd.Args = predict.Set(append(topics, "readme", "*"))
			}
		case "help":
			cmd.Args = predict.Set(commandNames(c))
		}
		root.Sub[sc.Name()] = cmd
	})
	return root
}

func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case isBoolFlag(f):
			flags[f.Name] = predict.Nothing
		case flagPredictors[f.Name] != nil:
			flags[f.Name] = flagPredictors[f.Name]
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func commandNames(c *subcommands.Commander) []string {
	var names []string
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		names = append(names, sc.Name())
	})
	return names
}
