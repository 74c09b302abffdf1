package config

import (
	"path/filepath"
	"strconv"
	"strings"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// Validate checks the configuration for values that would make a release
// run fail half way through.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Base.Name) == "" {
		return rerrors.ConfigRequired("base.name")
	}
	if strings.TrimSpace(c.Base.DistName) == "" {
		return rerrors.ConfigRequired("base.dist_name")
	}
	if strings.TrimSpace(c.Base.ExtrasSection) == "" {
		return rerrors.ConfigRequired("base.extras_section")
	}
	if err := validateRelative("base.data_dir", c.Base.DataDir); err != nil {
		return err
	}
	if err := validateRelative("build.artifacts_dir", c.Build.ArtifactsDir); err != nil {
		return err
	}
	if len(dataDirSegments(c.Base.DataDir)) < 2 {
		// The first segment is the importable package shipped by every subset.
		return rerrors.ValidationFailed("base.data_dir", "must be <package>/<dir>, e.g. botocore/data")
	}
	for i, r := range c.Base.Replacements {
		if r.Find == "" {
			return rerrors.ValidationFailed("base.replacements", "rule "+strconv.Itoa(i)+" has an empty find string")
		}
	}
	if strings.TrimSpace(c.Build.Command) == "" {
		return rerrors.ConfigRequired("build.command")
	}
	if c.Build.Jobs < 0 {
		return rerrors.ValidationFailed("build.jobs", "must be >= 0")
	}
	if !c.Publish.Skip && strings.TrimSpace(c.Publish.Command) == "" {
		return rerrors.ConfigRequired("publish.command")
	}
	return nil
}

func validateRelative(field, p string) error {
	if p == "" {
		return rerrors.ConfigRequired(field)
	}
	if filepath.IsAbs(p) {
		return rerrors.ValidationFailed(field, "must be relative to base.root")
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return rerrors.ValidationFailed(field, "must stay inside base.root")
	}
	return nil
}

func dataDirSegments(p string) []string {
	return strings.Split(filepath.ToSlash(filepath.Clean(filepath.FromSlash(p))), "/")
}
