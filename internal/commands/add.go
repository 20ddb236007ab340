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
	"taskman/internal/views"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(d string) {
	c.description = d
}

func (c *AddCmd) Name() string               { return "add" }
func (c *AddCmd) Aliases() []string          { return []string{"create"} }
func (c *AddCmd) Synopsis() string           { return "Create a task" }
func (c *AddCmd) Usage() string              { return "taskman add [-d <description>] <title...>" }
func (c *AddCmd) NeedsSession() bool         { return true }
func (c *AddCmd) Route() (guard.Route, bool) { return guard.TaskNew, true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return usage(errOut, "title required")
	}
	return runAdd(ctx, cfg, deps, title, c.description, out, errOut)
}

// runAdd submits the new-task form.
func runAdd(ctx context.Context, cfg *config.Config, deps *Deps, title, description string, out, errOut io.Writer) int {
	v := views.NewTaskForm(ctx, deps.Tasks)
	defer v.Close()

	task, err := v.Submit(title, description)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "created task %d\n", task.ID)
	}
	return exitcode.Success
}

// promptAdd asks for the fields of a new task.
func promptAdd(ctx context.Context, cfg *config.Config, deps *Deps, out, errOut io.Writer) int {
	title, err := prompt(cfg, errOut, "title")
	if err != nil {
		return fail(errOut, err)
	}
	description, err := prompt(cfg, errOut, "description")
	if err != nil {
		return fail(errOut, err)
	}
	return runAdd(ctx, cfg, deps, title, description, out, errOut)
}
