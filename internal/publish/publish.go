// Package publish uploads the collected artifacts to the package index.
package publish

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/logfields"
	"github.com/thejcannon/alacarte/internal/toolchain"
)

// ErrNothingToPublish is wrapped when the output directory holds no files.
var ErrNothingToPublish = errors.New("no artifacts to publish")

// Publisher runs the upload command over every file in the output directory.
// The upload tool is expected to skip artifacts the index already has.
type Publisher struct {
	outputDir string
	runner    toolchain.Runner
	command   []string
}

// NewPublisher returns a publisher for outputDir. command is the upload
// command already split into argv; file paths are appended to it.
func NewPublisher(outputDir string, runner toolchain.Runner, command []string) *Publisher {
	return &Publisher{outputDir: outputDir, runner: runner, command: command}
}

// Files returns the regular files in the output directory in sorted order.
func (p *Publisher) Files() ([]string, error) {
	entries, err := os.ReadDir(p.outputDir)
	if err != nil {
		return nil, rerrors.FileSystem("list output directory", p.outputDir, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(p.outputDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Publish uploads every file and returns the uploaded paths.
func (p *Publisher) Publish(ctx context.Context) ([]string, error) {
	files, err := p.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, rerrors.FileSystem("list output directory", p.outputDir, ErrNothingToPublish)
	}

	argv := make([]string, 0, len(p.command)+len(files))
	argv = append(argv, p.command...)
	argv = append(argv, files...)

	slog.Info("Publishing artifacts", logfields.Artifacts(len(files)), logfields.Path(p.outputDir))
	if err := p.runner.Run(ctx, p.outputDir, argv); err != nil {
		return nil, err
	}
	return files, nil
}
