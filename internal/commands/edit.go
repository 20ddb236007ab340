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
	"taskman/internal/views"
)

func init() {
	Register(&EditCmd{})
}

// optString is a string flag that remembers whether it was given.
type optString struct {
	value string
	set   bool
}

func (s *optString) String() string { return s.value }

func (s *optString) Set(v string) error {
	s.value = v
	s.set = true
	return nil
}

func (s *optString) ptr() *string {
	if !s.set {
		return nil
	}
	v := s.value
	return &v
}

// EditCmd implements the edit command.
// Without field flags it prompts for every field.
type EditCmd struct {
	title       optString
	description optString
	done        bool
	undone      bool
}

func (c *EditCmd) Name() string               { return "edit" }
func (c *EditCmd) Aliases() []string          { return nil }
func (c *EditCmd) Synopsis() string           { return "Edit a task" }
func (c *EditCmd) Usage() string              { return "taskman edit [--title <t>] [-d <d>] [--done|--undone] <id>" }
func (c *EditCmd) NeedsSession() bool         { return true }
func (c *EditCmd) Route() (guard.Route, bool) { return guard.TaskEdit, true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optString{}
	c.description = optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.undone, "undone", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usage(errOut, "%v", err)
	}
	if c.done && c.undone {
		return usage(errOut, "cannot use both --done and --undone")
	}

	changes := views.TaskChanges{
		Title:       c.title.ptr(),
		Description: c.description.ptr(),
	}
	if c.done || c.undone {
		completed := c.done
		changes.Completed = &completed
	}

	if changes.Empty() {
		return promptEdit(ctx, cfg, deps, id, out, errOut)
	}
	return runEdit(ctx, cfg, deps, id, changes, out, errOut)
}

// runEdit loads the task, applies changes and saves it.
func runEdit(ctx context.Context, cfg *config.Config, deps *Deps, id int, changes views.TaskChanges, out, errOut io.Writer) int {
	v := views.NewTaskEdit(ctx, deps.Tasks)
	defer v.Close()

	if _, err := v.Load(id); err != nil {
		return fail(errOut, err)
	}
	if _, err := v.Save(changes); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// promptEdit shows the current values and asks for new ones. An empty
// answer keeps the current value.
func promptEdit(ctx context.Context, cfg *config.Config, deps *Deps, id int, out, errOut io.Writer) int {
	v := views.NewTaskEdit(ctx, deps.Tasks)
	defer v.Close()

	task, err := v.Load(id)
	if err != nil {
		return fail(errOut, err)
	}

	changes, err := askChanges(cfg, errOut, task)
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := v.Save(changes); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func askChanges(cfg *config.Config, w io.Writer, task service.Task) (views.TaskChanges, error) {
	var changes views.TaskChanges

	title, err := prompt(cfg, w, fmt.Sprintf("title [%s]", task.Title))
	if err != nil {
		return changes, err
	}
	if title != "" {
		changes.Title = &title
	}

	description, err := prompt(cfg, w, fmt.Sprintf("description [%s]", task.Description))
	if err != nil {
		return changes, err
	}
	if description != "" {
		changes.Description = &description
	}

	current := "n"
	if task.Completed {
		current = "y"
	}
	answer, err := prompt(cfg, w, fmt.Sprintf("completed (y/n) [%s]", current))
	if err != nil {
		return changes, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
	case "y", "yes":
		done := true
		changes.Completed = &done
	case "n", "no":
		done := false
		changes.Completed = &done
	default:
		return changes, fmt.Errorf("%w: expected y or n", errInvalidInput)
	}
	return changes, nil
}
