package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gtasksync/internal/commands"
	"gtasksync/internal/config"
	"gtasksync/internal/exitcode"
	"gtasksync/internal/logging"
	"gtasksync/internal/service"
	"gtasksync/internal/store"
)

// ConnectorFactory builds the remote connector from config.
// Used to inject the backend during dispatch.
type ConnectorFactory func(cfg *config.Config) service.Connector

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry  *commands.Registry
	connector ConnectorFactory
}

// NewDispatcher creates a new dispatcher with the given registry and connector factory.
func NewDispatcher(registry *commands.Registry, connector ConnectorFactory) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		connector: connector,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var (
		configDir string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A positional arg starting with - should have been parsed as a flag.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger, closer := logging.New(cfg, errOut)
	defer closer.Close()

	env := &commands.Env{Config: cfg, Logger: logger}
	if d.connector != nil {
		env.Connect = d.connector(cfg)
	}

	if cmd.NeedsStore() {
		if err := cfg.EnsureDir(); err != nil {
			fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
			return exitcode.StoreError
		}
		st, err := store.Open(cfg.DatabasePath())
		if err != nil {
			fmt.Fprintf(errOut, "error: store error: %v\n", err)
			return exitcode.StoreError
		}
		defer st.Close()
		env.Store = st
	}

	logger.Debug("dispatch", "command", cmd.Name(), "config", cfg.Dir)
	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
		return "flag needs an argument: " + name
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
		return "unknown flag: " + name
	default:
		return msg
	}
}
