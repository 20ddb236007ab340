package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/views"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
// The task is deleted from the task list view, after confirmation.
type RmCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmCmd) Name() string               { return "rm" }
func (c *RmCmd) Aliases() []string          { return []string{"delete"} }
func (c *RmCmd) Synopsis() string           { return "Delete a task" }
func (c *RmCmd) Usage() string              { return "taskman rm [--force] <id>" }
func (c *RmCmd) NeedsSession() bool         { return true }
func (c *RmCmd) Route() (guard.Route, bool) { return guard.TaskList, true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usage(errOut, "%v", err)
	}

	v := views.NewTaskList(ctx, deps.Tasks)
	defer v.Close()

	if err := v.Load(); err != nil {
		return fail(errOut, err)
	}
	if _, ok := v.Find(id); !ok {
		return usage(errOut, "task not found: %d", id)
	}

	if !c.force && !confirm(cfg, errOut, "Are you sure you want to delete this task?") {
		if !cfg.Quiet {
			fmt.Fprintln(out, "cancelled")
		}
		return exitcode.UserError
	}

	if err := v.Delete(id); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
