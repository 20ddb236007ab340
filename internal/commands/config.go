package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"taskman/internal/config"
	"taskman/internal/exitcode"
)

func init() {
	Register(&ConfigCmd{})
}

// settingsView is the YAML shape printed by the config command.
type settingsView struct {
	ConfigDir string `yaml:"config_dir"`
	APIURL    string `yaml:"api_url"`
	Timeout   string `yaml:"timeout"`
}

// ConfigCmd prints the effective settings.
type ConfigCmd struct {
	unrouted
}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Print effective settings" }
func (c *ConfigCmd) Usage() string      { return "taskman config" }
func (c *ConfigCmd) NeedsSession() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, deps *Deps, args []string, out, errOut io.Writer) int {
	data, err := yaml.Marshal(settingsView{
		ConfigDir: cfg.Dir,
		APIURL:    cfg.APIURL,
		Timeout:   cfg.Timeout.String(),
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	out.Write(data)
	return exitcode.Success
}
