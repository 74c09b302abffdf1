package commands

import (
	"fmt"
	"io"

	"github.com/thejcannon/alacarte/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Path of the generated config file (defaults to --config or alacarte.yaml)" type:"path"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := i.Output
	if path == "" {
		path = root.Config
	}
	if path == "" {
		path = config.DefaultConfigFile
	}
	return RunInit(g.stdout(), path, i.Force)
}

func RunInit(w io.Writer, configPath string, force bool) error {
	_, _ = fmt.Fprintf(w, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "initialized successfully")
	return nil
}
