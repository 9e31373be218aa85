package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type categoriesCmd struct {
	kind string
	add  string
	del  string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list, add or delete categories" }
func (*categoriesCmd) Usage() string {
	return `cashbook categories [-kind <income|expense|operation>] [-add <name> | -delete <name>]

  Lists a category registry, or changes it. Essential categories cannot be
  deleted.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "expense", "Registry: income, expense or operation.")
	f.StringVar(&c.add, "add", "", "Category to add.")
	f.StringVar(&c.del, "delete", "", "Category to delete.")
}

func (c *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := cashbook.ParseCategoryKind(c.kind)
	if err != nil {
		return fail(&cashbook.ValidationError{Field: "kind", Value: c.kind, Reason: "expected income, expense or operation"})
	}
	if c.add != "" && c.del != "" {
		return fail(&cashbook.ValidationError{Field: "add", Reason: "-add and -delete cannot be used together"})
	}
	return run(func(b *book) error {
		switch {
		case c.add != "":
			if err := b.AddCategory(kind, c.add); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Category %q added to %s\n", c.add, kind)
		case c.del != "":
			if err := b.DeleteCategory(kind, c.del); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Category %q deleted from %s\n", c.del, kind)
		default:
			printMarkdown(renderer.RenderCategories(kind, b.Categories(kind)))
		}
		return nil
	})
}
