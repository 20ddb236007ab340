package commands

import (
	"context"
	"flag"
	"io"

	"taskman/internal/config"
	"taskman/internal/guard"
	"taskman/internal/views"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string               { return "done" }
func (c *DoneCmd) Aliases() []string          { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string           { return "Mark a task completed" }
func (c *DoneCmd) Usage() string              { return "taskman done <id>" }
func (c *DoneCmd) NeedsSession() bool         { return true }
func (c *DoneCmd) Route() (guard.Route, bool) { return guard.TaskEdit, true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usage(errOut, "%v", err)
	}
	done := true
	return runEdit(ctx, cfg, deps, id, views.TaskChanges{Completed: &done}, out, errOut)
}
