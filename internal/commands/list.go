package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/output"
	"taskman/internal/views"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskman` (no args) and `taskman list`.
type ListCmd struct {
	open bool
}

func (c *ListCmd) Name() string               { return "list" }
func (c *ListCmd) Aliases() []string          { return []string{"ls"} }
func (c *ListCmd) Synopsis() string           { return "List tasks" }
func (c *ListCmd) Usage() string              { return "taskman list [--open]" }
func (c *ListCmd) NeedsSession() bool         { return true }
func (c *ListCmd) Route() (guard.Route, bool) { return guard.TaskList, true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usage(errOut, "unexpected argument: %s", args[0])
	}
	return runList(ctx, cfg, deps, c.open, out, errOut)
}

// runList renders the task list view in API order.
func runList(ctx context.Context, cfg *config.Config, deps *Deps, openOnly bool, out, errOut io.Writer) int {
	v := views.NewTaskList(ctx, deps.Tasks)
	defer v.Close()

	if err := v.Load(); err != nil {
		return fail(errOut, err)
	}

	shown := 0
	for _, task := range v.Tasks() {
		if openOnly && task.Completed {
			continue
		}
		output.FormatTask(out, task)
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
