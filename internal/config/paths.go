package config

import (
	"path/filepath"
	"strings"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// Paths holds the absolute locations a release run touches. Workers receive
// these explicitly instead of relying on the process working directory.
type Paths struct {
	Root        string
	DataRoot    string
	License     string
	Descriptor  string
	SetupConfig string
	Readme      string
	OutputDir   string
	WorkDir     string

	// DataRel is the data root relative to Root, e.g. botocore/data.
	DataRel string
	// Package is the importable package every subset ships, e.g. botocore.
	Package string
	// DataPrefix is DataRel relative to Package, slash separated, e.g. data.
	DataPrefix string
	// ArtifactsDir is where the build command leaves artifacts, relative to
	// the package root it ran in.
	ArtifactsDir string
}

// Resolve turns the configured paths into absolute paths.
func (c *Config) Resolve() (Paths, error) {
	root, err := filepath.Abs(c.Base.Root)
	if err != nil {
		return Paths{}, rerrors.FileSystem("resolve base root", c.Base.Root, err)
	}

	under := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(root, filepath.FromSlash(p))
	}

	segments := dataDirSegments(c.Base.DataDir)
	p := Paths{
		Root:         root,
		DataRoot:     under(c.Base.DataDir),
		License:      under(c.Base.License),
		Descriptor:   under(c.Base.Descriptor),
		SetupConfig:  under(c.Base.SetupConfig),
		Readme:       under(c.Base.Readme),
		OutputDir:    under(c.Build.OutputDir),
		WorkDir:      root,
		DataRel:      filepath.FromSlash(strings.Join(segments, "/")),
		Package:      segments[0],
		DataPrefix:   strings.Join(segments[1:], "/"),
		ArtifactsDir: filepath.Clean(filepath.FromSlash(c.Build.ArtifactsDir)),
	}
	if c.Build.WorkDir != "" {
		p.WorkDir = under(c.Build.WorkDir)
	}
	return p, nil
}
