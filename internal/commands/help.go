package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/exitcode"
)

func init() {
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd creates a help command listing the commands of r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "gtasksync help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	replica, other := c.registry.Partition()

	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-60s %s\n", "gtasksync", "List all open tasks")
	printUsage(out, "Replica commands:", replica)
	printUsage(out, "Account commands:", other)
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

func printUsage(out io.Writer, heading string, cmds []Command) {
	if len(cmds) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", heading)
	for _, cmd := range cmds {
		fmt.Fprintf(out, "  %-60s %s\n", cmd.Usage(), cmd.Synopsis())
	}
}

const commonFlagsText = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs

Edits are made to the local replica; run 'gtasksync sync' to exchange them
with Google Tasks.
`
