package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/exitcode"
	"gtasksync/internal/output"
	"gtasksync/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `gtasksync` (no args) and `gtasksync list <list-name>`.
type ListCmd struct {
	all bool
}

// SetAll includes completed tasks (for testing).
func (c *ListCmd) SetAll(all bool) {
	c.all = all
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return nil }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "gtasksync list [common flags] [--all] [<list-name>]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	// If no args, list all tasks (default + named lists)
	if len(args) == 0 {
		return c.listAll(ctx, env, out, errOut)
	}

	name := joinArgs(args)
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	return c.listOne(ctx, env, name, out, errOut)
}

// listAll prints the default list without a header, then every other list
// that has tasks to show.
func (c *ListCmd) listAll(ctx context.Context, env *Env, out, errOut io.Writer) int {
	lists, err := env.Store.Lists(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	hasAnyTasks := false
	for i, list := range lists {
		tasks, err := env.Store.Tasks(ctx, list.ID, c.all)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read list: %s: %v\n", list.Title, err)
			return exitcode.StoreError
		}

		if len(tasks) == 0 {
			continue
		}
		if i == 0 {
			printTasks(out, tasks, output.FormatTask)
		} else {
			output.FormatListHeader(out, list.Title, false)
			printTasks(out, tasks, output.FormatTaskIndented)
		}
		hasAnyTasks = true
	}

	if !hasAnyTasks && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// listOne prints one list section, even if it is empty.
func (c *ListCmd) listOne(ctx context.Context, env *Env, name string, out, errOut io.Writer) int {
	list, code := resolveList(ctx, env.Store, name, errOut)
	if code != exitcode.Success {
		return code
	}

	def, err := defaultList(ctx, env.Store)
	if err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	tasks, err := env.Store.Tasks(ctx, list.ID, c.all)
	if err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	output.FormatListHeader(out, list.Title, list.ID == def.ID)
	printTasks(out, tasks, output.FormatTaskIndented)
	return exitcode.Success
}

// printTasks numbers open tasks the way done and rm count them. Completed
// tasks are printed without a number.
func printTasks(out io.Writer, tasks []*store.Task, format func(io.Writer, int, *store.Task)) {
	n := 0
	for _, task := range tasks {
		if task.IsCompleted() {
			format(out, 0, task)
			continue
		}
		n++
		format(out, n, task)
	}
}
