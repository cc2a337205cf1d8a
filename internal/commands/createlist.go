package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/exitcode"
	"gtasksync/internal/store"
)

func init() {
	Register(&CreateListCmd{})
}

// CreateListCmd implements the createlist command.
type CreateListCmd struct{}

func (c *CreateListCmd) Name() string      { return "createlist" }
func (c *CreateListCmd) Aliases() []string { return []string{"addlist"} }
func (c *CreateListCmd) Synopsis() string  { return "Create a new list (alias: addlist)" }
func (c *CreateListCmd) Usage() string     { return "gtasksync createlist [common flags] <list-name>" }
func (c *CreateListCmd) NeedsStore() bool  { return true }

func (c *CreateListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runCreateList(ctx, env, args, out, errOut)
}

// runCreateList adds a local list unless the title is taken.
func runCreateList(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	name := joinArgs(args)
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	_, err := env.Store.ResolveList(ctx, name)
	switch {
	case err == nil, errors.Is(err, store.ErrAmbiguous):
		fmt.Fprintf(errOut, "error: list already exists: %s\n", name)
		return exitcode.UserError
	case !errors.Is(err, store.ErrNotFound):
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	if _, err := env.Store.CreateList(ctx, name); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
