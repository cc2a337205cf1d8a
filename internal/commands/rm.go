package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gtasksync/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *RmCmd) SetListName(name string) {
	c.listName = name
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "gtasksync rm [common flags] [--list <list-name>] <n>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	num, code := parseTaskNumber(args, errOut)
	if code != exitcode.Success {
		return code
	}

	list, code := resolveList(ctx, env.Store, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}

	task, err := findTaskByNumber(ctx, env.Store, list.ID, num)
	if err != nil {
		return reportLookup(err, num, errOut)
	}

	// A linked task leaves a tombstone that the next sync deletes upstream.
	if err := env.Store.DeleteTask(ctx, task.ID); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseTaskNumber reads the task number argument of done and rm.
func parseTaskNumber(args []string, errOut io.Writer) (int, int) {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task number required")
		return 0, exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 0, exitcode.UserError
	}
	num, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return 0, exitcode.UserError
	}
	if num < 1 {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return 0, exitcode.UserError
	}
	return num, exitcode.Success
}

func reportLookup(err error, num int, errOut io.Writer) int {
	if strings.Contains(err.Error(), "out of range") {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: store error: %v\n", err)
	return exitcode.StoreError
}
