package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thejcannon/alacarte/internal/config"
	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/fsutil"
	"github.com/thejcannon/alacarte/internal/logfields"
	"github.com/thejcannon/alacarte/internal/pkgtemplate"
	"github.com/thejcannon/alacarte/internal/toolchain"
	"github.com/thejcannon/alacarte/internal/workspace"
)

// Builder builds the package of one service and returns the artifacts it
// moved into the output directory.
type Builder interface {
	Build(ctx context.Context, service, version string) ([]string, error)
}

// SubsetBuilder builds per-service packages out of the shared base tree.
type SubsetBuilder struct {
	paths    config.Paths
	renderer *pkgtemplate.Renderer
	runner   toolchain.Runner
	command  []string
}

// NewSubsetBuilder returns a builder that runs command (already split into
// argv) inside each temporary tree.
func NewSubsetBuilder(paths config.Paths, renderer *pkgtemplate.Renderer, runner toolchain.Runner, command []string) *SubsetBuilder {
	return &SubsetBuilder{paths: paths, renderer: renderer, runner: runner, command: command}
}

// Build moves the service's data out of the base tree into a fresh package
// tree, builds it there and collects the artifacts. The data move is
// destructive and not undone on failure.
func (b *SubsetBuilder) Build(ctx context.Context, service, version string) (artifacts []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := filepath.Join(b.paths.DataRoot, service)
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrDataMissing, err)
		}
		return nil, rerrors.FileSystem("stat subset data", src, err)
	}

	start := time.Now()
	name := b.renderer.PackageName(service)
	err = workspace.With(b.paths.WorkDir, name, func(tree *workspace.Manager) error {
		artifacts, err = b.buildIn(ctx, tree, service, version)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Built subset package",
		logfields.Service(service),
		logfields.Artifacts(len(artifacts)),
		logfields.Since(start))
	return artifacts, nil
}

func (b *SubsetBuilder) buildIn(ctx context.Context, tree *workspace.Manager, service, version string) ([]string, error) {
	root := tree.GetPath()

	dataDir, err := tree.CreateSubdir(b.paths.DataRel)
	if err != nil {
		return nil, err
	}

	license := filepath.Join(root, filepath.Base(b.paths.License))
	if err := fsutil.CopyFile(b.paths.License, license); err != nil {
		return nil, rerrors.FileSystem("copy license", b.paths.License, err)
	}

	src := filepath.Join(b.paths.DataRoot, service)
	if err := fsutil.Move(src, filepath.Join(dataDir, service)); err != nil {
		return nil, rerrors.FileSystem("move subset data", src, err)
	}

	setup, err := b.renderer.Render(service, version)
	if err != nil {
		return nil, err
	}
	setupPath := filepath.Join(root, "setup.py")
	// #nosec G306 -- package metadata is world readable
	if err := os.WriteFile(setupPath, []byte(setup), 0o644); err != nil {
		return nil, rerrors.FileSystem("write package metadata", setupPath, err)
	}

	if err := b.runner.Run(ctx, root, b.command); err != nil {
		return nil, err
	}

	dist := filepath.Join(root, b.paths.ArtifactsDir)
	artifacts, err := fsutil.MoveEntries(dist, b.paths.OutputDir, nil)
	if err != nil {
		return nil, rerrors.FileSystem("collect artifacts", dist, err)
	}
	if len(artifacts) == 0 {
		return nil, rerrors.FileSystem("collect artifacts", dist, ErrNoArtifacts)
	}
	return artifacts, nil
}
