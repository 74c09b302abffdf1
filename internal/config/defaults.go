package config

import (
	"fmt"
	"slices"
)

// DistSuffix is appended to the upstream name to form the default distribution name.
const DistSuffix = "-a-la-carte"

var defaultClassifiers = []string{
	"Development Status :: 5 - Production/Stable",
	"Intended Audience :: Developers",
	"Intended Audience :: System Administrators",
	"Natural Language :: English",
	"License :: OSI Approved :: Apache Software License",
	"Programming Language :: Python",
	"Programming Language :: Python :: 3",
	"Programming Language :: Python :: 3.7",
	"Programming Language :: Python :: 3.8",
	"Programming Language :: Python :: 3.9",
	"Programming Language :: Python :: 3.10",
	"Programming Language :: Python :: 3.11",
}

// Default returns the configuration matching the botocore release layout.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field. Replacements are derived from the
// upstream and target metadata when none are configured.
func (c *Config) ApplyDefaults() {
	b := &c.Base
	if b.Root == "" {
		b.Root = "."
	}
	if b.Name == "" {
		b.Name = "botocore"
	}
	if b.DistName == "" {
		b.DistName = b.Name + DistSuffix
	}
	if b.DataDir == "" {
		b.DataDir = b.Name + "/data"
	}
	if b.License == "" {
		b.License = "LICENSE.txt"
	}
	if b.Descriptor == "" {
		b.Descriptor = "setup.py"
	}
	if b.SetupConfig == "" {
		b.SetupConfig = "setup.cfg"
	}
	if b.Readme == "" {
		b.Readme = "README.rst"
	}
	if b.ExtrasSection == "" {
		b.ExtrasSection = "options.extras_require"
	}

	m := &c.Metadata
	if m.URL == "" {
		m.URL = "https://github.com/thejcannon/" + b.DistName
	}
	if m.Description == "" {
		m.Description = b.Name + " re-uploaded with a-la-carte data packages."
	}
	if m.UpstreamURL == "" && b.Name == "botocore" {
		m.UpstreamURL = "https://github.com/boto/botocore"
	}
	if m.UpstreamDescription == "" && b.Name == "botocore" {
		m.UpstreamDescription = "Low-level, data-driven core of boto 3."
	}
	if m.Author == "" {
		m.Author = "Amazon Web Services"
	}
	if m.License == "" {
		m.License = "Apache License 2.0"
	}
	if m.PythonRequires == "" {
		m.PythonRequires = ">= 3.7"
	}
	if len(m.Classifiers) == 0 {
		m.Classifiers = slices.Clone(defaultClassifiers)
	}
	if m.DataGlob == "" {
		m.DataGlob = "*/*.json"
	}

	if len(b.Replacements) == 0 {
		b.Replacements = c.defaultReplacements()
	}

	if c.Build.Command == "" {
		c.Build.Command = "python setup.py sdist bdist_wheel"
	}
	if c.Build.ArtifactsDir == "" {
		c.Build.ArtifactsDir = "dist"
	}
	if c.Build.OutputDir == "" {
		c.Build.OutputDir = "dist"
	}
	if c.Publish.Command == "" {
		c.Publish.Command = "twine upload --disable-progress-bar --skip-existing"
	}
}

func (c *Config) defaultReplacements() []Replacement {
	rules := []Replacement{{
		Find:    fmt.Sprintf("name='%s'", c.Base.Name),
		Replace: fmt.Sprintf("name='%s'", c.Base.DistName),
	}}
	if c.Metadata.UpstreamURL != "" {
		rules = append(rules, Replacement{
			Find:    fmt.Sprintf("url='%s'", c.Metadata.UpstreamURL),
			Replace: fmt.Sprintf("url='%s'", c.Metadata.URL),
		})
	}
	if c.Metadata.UpstreamDescription != "" {
		rules = append(rules, Replacement{
			Find:    fmt.Sprintf("description='%s'", c.Metadata.UpstreamDescription),
			Replace: fmt.Sprintf("description='%s'", c.Metadata.Description),
		})
	}
	return rules
}
