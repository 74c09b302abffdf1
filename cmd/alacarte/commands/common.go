package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/thejcannon/alacarte/internal/config"
	"github.com/thejcannon/alacarte/internal/logging"
)

// Global carries process-wide state into every command.
type Global struct {
	// Context is cancelled on SIGINT/SIGTERM.
	Context context.Context
	Stdout  io.Writer
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config    string `short:"c" help:"Configuration file path (defaults to alacarte.yaml when present)" type:"path"`
	Verbose   bool   `short:"v" help:"Enable verbose logging"`
	LogFormat string `name:"log-format" help:"Log format" enum:"text,logfmt,json" default:"text"`

	Release  ReleaseCmd  `cmd:"" default:"withargs" help:"Split, build and publish a release (default command)"`
	Discover DiscoverCmd `cmd:"" help:"List the services that would be split out"`
	Render   RenderCmd   `cmd:"" help:"Print the rendered setup.py for one service"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Version  VersionCmd  `cmd:"" help:"Show version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	return logging.Setup(os.Stderr, c.Verbose, c.LogFormat)
}

// LoadConfig loads --config, falling back to alacarte.yaml in the working
// directory and then to the built-in defaults.
func (c *CLI) LoadConfig() (*config.Config, error) {
	path := c.Config
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); err == nil {
			path = config.DefaultConfigFile
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}
