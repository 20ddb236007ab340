package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	unrouted
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskman help" }
func (c *HelpCmd) NeedsSession() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskman                                     List tasks
  taskman list [common flags] [--open]        List tasks
  taskman show [common flags] <id>            Show a task
  taskman add [common flags] [-d <description>] <title...>
  taskman edit [common flags] [--title <t>] [-d <d>] [--done|--undone] <id>
  taskman done [common flags] <id>
  taskman rm [common flags] [--force] <id>
  taskman open [common flags] <path>          e.g. /, /tasks/new, /tasks/7/edit
  taskman login [common flags] [-u <username>]
  taskman register [common flags] [-u <username>] [--email <email>]
  taskman logout [common flags]
  taskman whoami [common flags]
  taskman config [common flags]
  taskman shell [common flags]                Interactive session
  taskman help
  taskman version

Common flags:
  --config <dir>   Override config directory
  --api <url>      Override the task API URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
