package testfixture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thejcannon/alacarte/internal/config"
)

// Base package fixture contents. The descriptor carries a literal version so
// the fake toolchain can name its artifacts.
const (
	SetupPy = `#!/usr/bin/env python
import os

from setuptools import find_packages, setup

setup(
    name='base',
    version="1.2.3",
    description='Low-level core of base.',
    url='https://github.com/example/base',
    packages=find_packages(exclude=['tests*']),
    include_package_data=True,
)
`
	SetupCfg = `[bdist_wheel]
universal = 0

[metadata]
requires_dist =
	jmespath>=0.7.1,<2.0.0
	python-dateutil>=2.1,<3.0.0

[options.extras_require]
crt = awscrt==0.16.9
`
	License = "Apache License\nVersion 2.0\n"
	Readme  = "base\n====\n"
)

// BasePackage is an on-disk base package rooted at Root.
type BasePackage struct {
	Root     string
	Name     string
	Services []string
}

// NewBasePackage writes a base package named name with one data directory per
// service under <name>/data. Every service carries a single service-2.json.
func NewBasePackage(t *testing.T, name string, services ...string) *BasePackage {
	t.Helper()
	root := t.TempDir()
	bp := &BasePackage{Root: root, Name: name, Services: services}

	bp.Write(t, "setup.py", strings.ReplaceAll(SetupPy, "base", name))
	bp.Write(t, "setup.cfg", SetupCfg)
	bp.Write(t, "LICENSE.txt", License)
	bp.Write(t, "README.rst", Readme)
	bp.Write(t, filepath.Join(name, "__init__.py"), "")
	bp.Write(t, filepath.Join(name, "data", "endpoints.json"), "{}")
	for _, svc := range services {
		bp.Write(t, filepath.Join(name, "data", svc, "2020-01-01", "service-2.json"), `{"service":"`+svc+`"}`)
	}
	return bp
}

// Write creates rel (and its parents) under the package root.
func (bp *BasePackage) Write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(bp.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), filePermissions); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// DataRoot returns the absolute data root.
func (bp *BasePackage) DataRoot() string {
	return filepath.Join(bp.Root, bp.Name, "data")
}

// Config returns the default configuration for the fixture (derived names and
// replacement rules included) and the resolved paths.
func (bp *BasePackage) Config(t *testing.T) (*config.Config, config.Paths) {
	t.Helper()
	cfg := &config.Config{Base: config.BaseConfig{Root: bp.Root, Name: bp.Name}}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fixture config invalid: %v", err)
	}
	paths, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve fixture paths: %v", err)
	}
	return cfg, paths
}
