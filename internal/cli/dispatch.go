// Package cli parses command lines and dispatches them to commands.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"taskman/internal/commands"
	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/logger"
)

// Factory creates the command dependencies from config.
// Used to inject the backend and session store during dispatch.
type Factory func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*commands.Deps, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  Factory

	// Stdin feeds prompts and the shell. Nil means no input.
	Stdin io.Reader

	terminal *os.File
}

// NewDispatcher creates a new dispatcher with the given registry and factory.
func NewDispatcher(registry *commands.Registry, factory Factory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	apiURL    string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.apiURL, "api", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// env is what one process (or one shell) runs commands with.
type env struct {
	cfg  *config.Config
	log  *slog.Logger
	deps *commands.Deps
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

	if cmdName == shellName {
		return d.runShell(ctx, args[1:], out, errOut)
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, nil, out, errOut)
}

// dispatchCommand parses flags and runs cmd. A nil shared env builds a new
// one from the common flags; the shell passes its own.
func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, shared *env, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(err, errOut)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	e := shared
	if e == nil {
		var code int
		if e, code = d.newEnv(ctx, common, cmd.NeedsSession(), errOut); e == nil {
			return code
		}
	} else {
		if common.configDir != "" || common.apiURL != "" {
			fmt.Fprintln(errOut, "error: --config and --api apply to the whole shell")
			return exitcode.UserError
		}
		cfg := *e.cfg
		cfg.Quiet = cfg.Quiet || common.quiet
		cfg.Debug = cfg.Debug || common.debug
		e = &env{cfg: &cfg, log: e.log, deps: e.deps}
	}

	var deps *commands.Deps
	if cmd.NeedsSession() {
		deps = e.deps
	}

	// The guard runs on every dispatch: the session may have changed
	// since the previous command.
	if route, ok := cmd.Route(); ok && deps != nil {
		if !commands.Allow(deps.Session, route, errOut) {
			e.log.Debug("redirected to login", "command", cmd.Name(), "route", route.Path)
			return commands.ExitCode(commands.ErrNotLoggedIn)
		}
	}

	e.log.Debug("dispatch", "command", cmd.Name(), "args", len(positionalArgs))
	return cmd.Run(ctx, e.cfg, deps, positionalArgs, out, errOut)
}

// newEnv loads config and, when needed, builds and restores the session.
// On failure it returns nil and the exit code.
func (d *Dispatcher) newEnv(ctx context.Context, common commonFlags, needsSession bool, errOut io.Writer) (*env, int) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	if common.apiURL != "" {
		cfg.APIURL = common.apiURL
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	cfg.Input = d.input()
	cfg.Terminal = d.terminal

	log := logger.New(errOut, cfg.Debug)
	e := &env{cfg: cfg, log: log}
	if !needsSession {
		return e, exitcode.Success
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return nil, exitcode.BackendError
	}
	deps, err := d.factory(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	if err := deps.Session.Initialize(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.AuthError
	}
	e.deps = deps
	return e, exitcode.Success
}

func (d *Dispatcher) input() *bufio.Reader {
	if d.Stdin == nil {
		return bufio.NewReader(strings.NewReader(""))
	}
	if br, ok := d.Stdin.(*bufio.Reader); ok {
		return br
	}
	if f, ok := d.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d.terminal = f
	}
	br := bufio.NewReader(d.Stdin)
	d.Stdin = br
	return br
}

// flagError reports a flag parse error and returns exitcode.UserError.
func flagError(err error, errOut io.Writer) int {
	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 0 {
			flagPart := strings.TrimSpace(parts[len(parts)-1])
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return exitcode.UserError
		}
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
