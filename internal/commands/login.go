package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/service"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// LoginCmd implements the login command.
// The password is read from the input, never from flags.
type LoginCmd struct {
	username string
}

func (c *LoginCmd) Name() string               { return "login" }
func (c *LoginCmd) Aliases() []string          { return nil }
func (c *LoginCmd) Synopsis() string           { return "Log in to the task API" }
func (c *LoginCmd) Usage() string              { return "taskman login [-u <username>]" }
func (c *LoginCmd) NeedsSession() bool         { return true }
func (c *LoginCmd) Route() (guard.Route, bool) { return guard.Login, true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usage(errOut, "unexpected argument: %s", args[0])
	}
	return runLogin(ctx, cfg, deps, c.username, out, errOut)
}

func runLogin(ctx context.Context, cfg *config.Config, deps *Deps, username string, out, errOut io.Writer) int {
	var err error
	if username == "" {
		if username, err = prompt(cfg, errOut, "username"); err != nil {
			return fail(errOut, err)
		}
	}
	if strings.TrimSpace(username) == "" {
		return usage(errOut, "username required")
	}

	password, err := promptPassword(cfg, errOut, "password")
	if err != nil {
		return fail(errOut, err)
	}
	if password == "" {
		return usage(errOut, "password required")
	}

	identity, err := deps.Session.Login(ctx, username, password)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", identity.Username)
	}
	return exitcode.Success
}

// RegisterCmd implements the register command.
// A new account still has to log in.
type RegisterCmd struct {
	username string
	email    string
}

func (c *RegisterCmd) Name() string               { return "register" }
func (c *RegisterCmd) Aliases() []string          { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string           { return "Create an account" }
func (c *RegisterCmd) Usage() string              { return "taskman register [-u <username>] [--email <email>]" }
func (c *RegisterCmd) NeedsSession() bool         { return true }
func (c *RegisterCmd) Route() (guard.Route, bool) { return guard.Register, true }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.email, "email", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usage(errOut, "unexpected argument: %s", args[0])
	}
	return runRegister(ctx, cfg, deps, c.username, c.email, out, errOut)
}

func runRegister(ctx context.Context, cfg *config.Config, deps *Deps, username, email string, out, errOut io.Writer) int {
	var err error
	if username == "" {
		if username, err = prompt(cfg, errOut, "username"); err != nil {
			return fail(errOut, err)
		}
	}
	if strings.TrimSpace(username) == "" {
		return usage(errOut, "username required")
	}
	if email == "" {
		if email, err = prompt(cfg, errOut, "email"); err != nil {
			return fail(errOut, err)
		}
	}
	if strings.TrimSpace(email) == "" {
		return usage(errOut, "email required")
	}

	password, err := promptPassword(cfg, errOut, "password")
	if err != nil {
		return fail(errOut, err)
	}
	if password == "" {
		return usage(errOut, "password required")
	}
	again, err := promptPassword(cfg, errOut, "confirm password")
	if err != nil {
		return fail(errOut, err)
	}
	if again != password {
		return usage(errOut, "passwords do not match")
	}

	reg := service.Registration{Username: username, Email: email, Password: password}
	if err := deps.Accounts.Register(ctx, reg); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "registered (run: taskman login)")
	}
	return exitcode.Success
}
