package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/exitcode"
	"gtasksync/internal/output"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists" }
func (c *ListsCmd) Usage() string     { return "gtasksync lists [common flags]" }
func (c *ListsCmd) NeedsStore() bool  { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	lists, err := env.Store.Lists(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	for i, list := range lists {
		output.FormatListName(out, list, i == 0)
	}

	return exitcode.Success
}
