// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gtasksync/internal/config"
	"gtasksync/internal/exitcode"
	"gtasksync/internal/service"
	"gtasksync/internal/store"
)

// Env is what a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, settings).
	Config *config.Config

	// Store is the local replica. Nil unless NeedsStore() returns true.
	Store *store.Store

	// Connect opens a remote session. Only sync uses it.
	Connect service.Connector

	Logger *slog.Logger
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or edits the local
	// replica. Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// resolveList finds the list named name, or the default list when name is
// empty. Errors are reported on errOut and returned as an exit code.
func resolveList(ctx context.Context, st *store.Store, name string, errOut io.Writer) (*store.TaskList, int) {
	if name == "" {
		list, err := defaultList(ctx, st)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(errOut, "error: no lists (run: gtasksync sync)")
				return nil, exitcode.UserError
			}
			fmt.Fprintf(errOut, "error: store error: %v\n", err)
			return nil, exitcode.StoreError
		}
		return list, exitcode.Success
	}

	list, err := st.ResolveList(ctx, name)
	switch {
	case err == nil:
		return list, exitcode.Success
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintf(errOut, "error: list not found: %s\n", name)
		return nil, exitcode.UserError
	case errors.Is(err, store.ErrAmbiguous):
		fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", name)
		return nil, exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return nil, exitcode.StoreError
	}
}

// defaultList returns the first list of the replica. The remote service
// returns its default list first, so the first synced list is the default.
func defaultList(ctx context.Context, st *store.Store) (*store.TaskList, error) {
	lists, err := st.Lists(ctx)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, store.ErrNotFound
	}
	return lists[0], nil
}

// findTaskByNumber finds an open task by its 1-based number in the list.
func findTaskByNumber(ctx context.Context, st *store.Store, listID int64, num int) (*store.Task, error) {
	tasks, err := st.Tasks(ctx, listID, false)
	if err != nil {
		return nil, err
	}
	if num < 1 || num > len(tasks) {
		return nil, fmt.Errorf("task number out of range: %d", num)
	}
	return tasks[num-1], nil
}

// joinArgs joins positional arguments into a single trimmed name or title.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
