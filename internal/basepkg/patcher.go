// Package basepkg rewrites the base package so it points at the subset
// packages, then builds it.
package basepkg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thejcannon/alacarte/internal/config"
	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/fsutil"
	"github.com/thejcannon/alacarte/internal/logfields"
	"github.com/thejcannon/alacarte/internal/setupcfg"
	"github.com/thejcannon/alacarte/internal/toolchain"
)

// Patcher patches and builds the base package in place.
type Patcher struct {
	paths         config.Paths
	distName      string
	extrasSection string
	replacements  []config.Replacement
	runner        toolchain.Runner
	command       []string
}

// NewPatcher returns a Patcher for the configured base package. command is
// the build command already split into argv.
func NewPatcher(cfg *config.Config, paths config.Paths, runner toolchain.Runner, command []string) *Patcher {
	return &Patcher{
		paths:         paths,
		distName:      cfg.Base.DistName,
		extrasSection: cfg.Base.ExtrasSection,
		replacements:  cfg.Base.Replacements,
		runner:        runner,
		command:       command,
	}
}

// ExtraRequirement is the requirement the base package declares for the
// subset package of service.
func (p *Patcher) ExtraRequirement(service, version string) string {
	return fmt.Sprintf("%s-%s==%s", p.distName, service, version)
}

// Patch rewrites the descriptor, replaces the README with readmeSrc and
// declares one extra per service pinned to version. Every input is read and
// checked before the first file is written.
func (p *Patcher) Patch(services []string, version, readmeSrc string) error {
	descriptor, err := p.patchDescriptor()
	if err != nil {
		return err
	}

	readme, err := os.ReadFile(readmeSrc)
	if err != nil {
		return rerrors.FileSystem("read readme", readmeSrc, err)
	}

	cfg, err := setupcfg.Load(p.paths.SetupConfig)
	if err != nil {
		return err
	}
	for _, svc := range services {
		if err := cfg.Set(p.extrasSection, svc, p.ExtraRequirement(svc, version)); err != nil {
			return err
		}
	}

	if err := writeKeepMode(p.paths.Descriptor, []byte(descriptor)); err != nil {
		return rerrors.FileSystem("write descriptor", p.paths.Descriptor, err)
	}
	if err := writeKeepMode(p.paths.Readme, readme); err != nil {
		return rerrors.FileSystem("write readme", p.paths.Readme, err)
	}
	if err := cfg.Save(p.paths.SetupConfig); err != nil {
		return err
	}

	slog.Info("Patched base package",
		logfields.Path(p.paths.Root),
		logfields.Services(len(services)),
		logfields.Version(version))
	return nil
}

// patchDescriptor applies the literal replacement rules in order. A rule that
// matches nothing is a configuration error.
func (p *Patcher) patchDescriptor() (string, error) {
	data, err := os.ReadFile(p.paths.Descriptor)
	if err != nil {
		return "", rerrors.FileSystem("read descriptor", p.paths.Descriptor, err)
	}
	content := string(data)
	for i, r := range p.replacements {
		if !strings.Contains(content, r.Find) {
			return "", rerrors.New(rerrors.CategoryConfig, rerrors.SeverityFatal, "descriptor replacement matched nothing").
				WithContext("path", p.paths.Descriptor).
				WithContext("rule", i).
				WithContext("find", r.Find)
		}
		content = strings.ReplaceAll(content, r.Find, r.Replace)
	}
	return content, nil
}

// Build runs the build command at the base root. Artifacts it adds under
// the artifacts directory are moved to the output directory unless that is
// the same directory. It returns the new artifacts.
func (p *Patcher) Build(ctx context.Context) ([]string, error) {
	dist := filepath.Join(p.paths.Root, p.paths.ArtifactsDir)
	before, err := fsutil.Entries(dist)
	if err != nil {
		return nil, rerrors.FileSystem("list artifacts", dist, err)
	}

	if err := p.runner.Run(ctx, p.paths.Root, p.command); err != nil {
		return nil, err
	}

	var artifacts []string
	if sameDir(dist, p.paths.OutputDir) {
		after, err := fsutil.Entries(dist)
		if err != nil {
			return nil, rerrors.FileSystem("list artifacts", dist, err)
		}
		for name := range after {
			if _, ok := before[name]; !ok {
				artifacts = append(artifacts, filepath.Join(dist, name))
			}
		}
		sort.Strings(artifacts)
	} else {
		artifacts, err = fsutil.MoveEntries(dist, p.paths.OutputDir, before)
		if err != nil {
			return nil, rerrors.FileSystem("collect artifacts", dist, err)
		}
	}

	slog.Info("Built base package", logfields.Artifacts(len(artifacts)))
	return artifacts, nil
}

func sameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func writeKeepMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}
