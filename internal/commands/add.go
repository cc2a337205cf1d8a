package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"gtasksync/internal/exitcode"
)

// Accepted --due layouts, in the local zone.
var dueLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func init() {
	Register(&AddCmd{})
}

// taskFlags are the flags of add.
type taskFlags struct {
	listName string
	note     string
	due      string
}

func (f *taskFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.listName, "list", "", "")
	fs.StringVar(&f.listName, "l", "", "")
	fs.StringVar(&f.note, "note", "", "")
	fs.StringVar(&f.due, "due", "", "")
}

// AddCmd implements the add command.
type AddCmd struct {
	taskFlags
}

// SetListName sets the list name (for testing).
func (c *AddCmd) SetListName(name string) {
	c.listName = name
}

// SetDue sets the raw --due value (for testing).
func (c *AddCmd) SetDue(due string) {
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task (alias: create)" }
func (c *AddCmd) Usage() string {
	return "gtasksync add [common flags] [--list <list-name>] [--note <text>] [--due <date>] <title...>"
}
func (c *AddCmd) NeedsStore() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, env, c.taskFlags, args, out, errOut)
}

// runAdd creates the task in the resolved list.
func runAdd(ctx context.Context, env *Env, f taskFlags, args []string, out, errOut io.Writer) int {
	title := joinArgs(args)
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	var due *time.Time
	if f.due != "" {
		d, err := parseDue(f.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		due = &d
	}

	list, code := resolveList(ctx, env.Store, f.listName, errOut)
	if code != exitcode.Success {
		return code
	}

	if _, err := env.Store.CreateTask(ctx, list.ID, title, f.note, due); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseDue reads a --due value as a date with an optional time of day.
func parseDue(s string) (time.Time, error) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date: %s (want YYYY-MM-DD [HH:MM])", s)
}
