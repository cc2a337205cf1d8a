package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/exitcode"
)

func init() {
	Register(&RmListCmd{})
}

// RmListCmd implements the rmlist command.
type RmListCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmListCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return nil }
func (c *RmListCmd) Synopsis() string  { return "Delete a list" }
func (c *RmListCmd) Usage() string     { return "gtasksync rmlist [common flags] [--force] <list-name>" }
func (c *RmListCmd) NeedsStore() bool  { return true }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	name := joinArgs(args)
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	list, code := resolveList(ctx, env.Store, name, errOut)
	if code != exitcode.Success {
		return code
	}

	if !c.force {
		open, err := env.Store.Tasks(ctx, list.ID, false)
		if err != nil {
			fmt.Fprintf(errOut, "error: store error: %v\n", err)
			return exitcode.StoreError
		}
		if len(open) > 0 {
			fmt.Fprintln(errOut, "error: list not empty (use --force)")
			return exitcode.UserError
		}
	}

	// The list and its tasks leave tombstones for the next sync. The remote
	// default list refuses deletion and comes back on that sync.
	if err := env.Store.DeleteList(ctx, list.ID); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
