package commands

import (
	"context"
	"flag"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/output"
	"taskman/internal/views"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string               { return "show" }
func (c *ShowCmd) Aliases() []string          { return []string{"view"} }
func (c *ShowCmd) Synopsis() string           { return "Show a task" }
func (c *ShowCmd) Usage() string              { return "taskman show <id>" }
func (c *ShowCmd) NeedsSession() bool         { return true }
func (c *ShowCmd) Route() (guard.Route, bool) { return guard.TaskDetail, true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usage(errOut, "%v", err)
	}
	return runShow(ctx, deps, id, out, errOut)
}

func runShow(ctx context.Context, deps *Deps, id int, out, errOut io.Writer) int {
	v := views.NewTaskDetail(ctx, deps.Tasks)
	defer v.Close()

	task, err := v.Load(id)
	if err != nil {
		return fail(errOut, err)
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
