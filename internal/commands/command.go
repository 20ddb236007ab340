// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskman/internal/config"
	"taskman/internal/guard"
	"taskman/internal/service"
	"taskman/internal/session"
)

// Deps are the collaborators a command runs against. They are built once
// per process; the shell shares one set across every command it runs.
type Deps struct {
	Session  *session.Session
	Tasks    service.Service
	Accounts service.Accounts
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

	// NeedsSession returns true if the command needs Deps.
	// Commands like help, version and config return false.
	NeedsSession() bool

	// Route returns the view the command renders. The dispatcher consults
	// the guard for it before Run. Unrouted commands return false.
	Route() (guard.Route, bool)

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, settings, input).
	// deps is nil if NeedsSession() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int
}

// unrouted is embedded by commands that render no view.
type unrouted struct{}

func (unrouted) Route() (guard.Route, bool) { return guard.Route{}, false }
