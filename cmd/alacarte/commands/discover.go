package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/thejcannon/alacarte/internal/config"
	"github.com/thejcannon/alacarte/internal/discovery"
	"github.com/thejcannon/alacarte/internal/logfields"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	_, err = RunDiscover(g.stdout(), cfg)
	return err
}

// RunDiscover prints one service per line, in build order.
func RunDiscover(w io.Writer, cfg *config.Config) ([]string, error) {
	paths, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	services, err := discovery.ListServices(paths.DataRoot)
	if err != nil {
		return nil, err
	}
	slog.Info("Discovery completed", logfields.Path(paths.DataRoot), logfields.Services(len(services)))
	for _, svc := range services {
		if _, err := fmt.Fprintln(w, svc); err != nil {
			return nil, err
		}
	}
	return services, nil
}
