package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/exitcode"
	"gtasksync/internal/output"
	"gtasksync/internal/sync"
)

func init() {
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command.
type SyncCmd struct {
	full bool
}

func (c *SyncCmd) Name() string      { return "sync" }
func (c *SyncCmd) Aliases() []string { return nil }
func (c *SyncCmd) Synopsis() string  { return "Synchronize with Google Tasks" }
func (c *SyncCmd) Usage() string     { return "gtasksync sync [common flags] [--full]" }
func (c *SyncCmd) NeedsStore() bool  { return true }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.full, "full", false, "")
}

func (c *SyncCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected arguments: %s\n", joinArgs(args))
		return exitcode.UserError
	}
	if env.Connect == nil {
		fmt.Fprintln(errOut, "error: no remote service configured")
		return exitcode.AuthError
	}

	// The request outlives an aborted run.
	if c.full {
		if err := env.Store.RequestFullResync(ctx, env.Config.Account); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.StoreError
		}
	}

	s := sync.New(env.Store, env.Connect, sync.WithLogger(env.Logger))
	outcome := s.Run(ctx, env.Config.Account, sync.Options{})

	if !outcome.Success {
		fmt.Fprintf(errOut, "error: sync failed: %v\n", outcome.Err)
		if outcome.Counters.AuthErrors > 0 {
			return exitcode.AuthError
		}
		return exitcode.SyncError
	}

	if !env.Config.Quiet {
		output.FormatOutcome(out, outcome)
	}
	return exitcode.Success
}
