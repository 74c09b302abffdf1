package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/thejcannon/alacarte/cmd/alacarte/commands"
	"github.com/thejcannon/alacarte/internal/errors"
)

const (
	cmdName = "alacarte"
	cmdDesc = `Split a monolithic data package into per-service packages and a slim base package.`
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name(cmdName),
		kong.Description(cmdDesc),
		kong.UsageOnError(),
	)

	if err := run(parser, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}

func run(parser *kong.Context, cli *commands.CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return parser.Run(&commands.Global{Context: ctx, Stdout: os.Stdout}, cli)
}
