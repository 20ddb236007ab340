package commands

import (
	"context"
	"flag"
	"io"
	"strconv"

	"taskman/internal/config"
	"taskman/internal/guard"
)

func init() {
	Register(&OpenCmd{})
}

// OpenCmd navigates to a view by path, e.g. /tasks/7/edit.
// The guard is consulted for the resolved route; form views prompt for
// their fields.
type OpenCmd struct {
	unrouted
}

func (c *OpenCmd) Name() string       { return "open" }
func (c *OpenCmd) Aliases() []string  { return []string{"go"} }
func (c *OpenCmd) Synopsis() string   { return "Navigate to a view path" }
func (c *OpenCmd) Usage() string      { return "taskman open <path>" }
func (c *OpenCmd) NeedsSession() bool { return true }

func (c *OpenCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *OpenCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usage(errOut, "path required")
	}
	if len(args) > 1 {
		return usage(errOut, "unexpected argument: %s", args[1])
	}

	route, vars, err := guard.Resolve(args[0])
	if err != nil {
		return usage(errOut, "%v", err)
	}
	if !Allow(deps.Session, route, errOut) {
		return ExitCode(ErrNotLoggedIn)
	}

	var id int
	if raw, ok := vars["id"]; ok {
		id, err = strconv.Atoi(raw)
		if err != nil || id < 1 {
			return usage(errOut, "%v: %s", errInvalidTaskID, raw)
		}
	}

	switch route.Name {
	case guard.Login.Name:
		return runLogin(ctx, cfg, deps, "", out, errOut)
	case guard.Register.Name:
		return runRegister(ctx, cfg, deps, "", "", out, errOut)
	case guard.TaskNew.Name:
		return promptAdd(ctx, cfg, deps, out, errOut)
	case guard.TaskDetail.Name:
		return runShow(ctx, deps, id, out, errOut)
	case guard.TaskEdit.Name:
		return promptEdit(ctx, cfg, deps, id, out, errOut)
	default:
		return runList(ctx, cfg, deps, false, out, errOut)
	}
}
