// Package pkgtemplate renders the setup.py of a per-service package.
package pkgtemplate

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/thejcannon/alacarte/internal/config"
	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

//go:embed setup.py.tmpl
var defaultTemplate string

// Metadata is the per-release part of the template data; it is the same for
// every service.
type Metadata struct {
	DistName       string
	Upstream       string
	Package        string
	DataPrefix     string
	DataGlob       string
	Author         string
	URL            string
	License        string
	PythonRequires string
	Classifiers    []string
}

// Data is what the template is executed against.
type Data struct {
	Metadata
	Service     string
	Version     string
	PackageName string
	DataPattern string
}

// Renderer renders package metadata for one service at a time. It is safe for
// concurrent use.
type Renderer struct {
	meta Metadata
	tpl  *template.Template
}

// New parses body (or the embedded default template when body is empty).
func New(meta Metadata, body string) (*Renderer, error) {
	if body == "" {
		body = defaultTemplate
	}
	tpl, err := template.New("setup.py").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse package template: %w", err)
	}
	return &Renderer{meta: meta, tpl: tpl}, nil
}

// FromConfig builds a Renderer from the release configuration, reading
// metadata.template_file when set.
func FromConfig(cfg *config.Config, p config.Paths) (*Renderer, error) {
	body := ""
	if f := cfg.Metadata.TemplateFile; f != "" {
		if !filepath.IsAbs(f) {
			f = filepath.Join(p.Root, filepath.FromSlash(f))
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, rerrors.FileSystem("read template", f, err)
		}
		body = string(data)
	}

	r, err := New(Metadata{
		DistName:       cfg.Base.DistName,
		Upstream:       cfg.Base.Name,
		Package:        p.Package,
		DataPrefix:     p.DataPrefix,
		DataGlob:       cfg.Metadata.DataGlob,
		Author:         cfg.Metadata.Author,
		URL:            cfg.Metadata.URL,
		License:        cfg.Metadata.License,
		PythonRequires: cfg.Metadata.PythonRequires,
		Classifiers:    cfg.Metadata.Classifiers,
	}, body)
	if err != nil {
		return nil, rerrors.Wrap(err, rerrors.CategoryConfig, rerrors.SeverityFatal, "invalid package template")
	}
	return r, nil
}

// PackageName is the distribution name of a service package.
func (r *Renderer) PackageName(service string) string {
	return r.meta.DistName + "-" + service
}

// Render returns the setup.py contents for service at version. The service
// name is substituted as is; discovery only yields directory names.
func (r *Renderer) Render(service, version string) (string, error) {
	data := Data{
		Metadata:    r.meta,
		Service:     service,
		Version:     version,
		PackageName: r.PackageName(service),
		DataPattern: path.Join(r.meta.DataPrefix, service, r.meta.DataGlob),
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", rerrors.Wrap(err, rerrors.CategoryConfig, rerrors.SeverityFatal, "render package template").
			WithContext("service", service)
	}
	return buf.String(), nil
}
