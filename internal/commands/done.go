package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *DoneCmd) SetListName(name string) {
	c.listName = name
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "gtasksync done [common flags] [--list <list-name>] <n>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
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

	if err := env.Store.CompleteTask(ctx, task.ID); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
