package commands

import (
	"io"

	"github.com/thejcannon/alacarte/internal/config"
	"github.com/thejcannon/alacarte/internal/pkgtemplate"
	"github.com/thejcannon/alacarte/internal/release"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Service string `arg:"" help:"Service name, e.g. ec2"`
	Version string `arg:"" help:"Version to render"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	return RunRender(g.stdout(), cfg, r.Service, r.Version)
}

// RunRender writes the setup.py a subset build would use for service.
func RunRender(w io.Writer, cfg *config.Config, service, version string) error {
	if err := release.ValidateVersion(version); err != nil {
		return err
	}
	paths, err := cfg.Resolve()
	if err != nil {
		return err
	}
	renderer, err := pkgtemplate.FromConfig(cfg, paths)
	if err != nil {
		return err
	}
	out, err := renderer.Render(service, version)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
