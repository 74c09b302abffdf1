// Package setupcfg reads and writes setuptools' setup.cfg.
//
// Parsing is done by gopkg.in/ini.v1 with Python-style multi-line values.
// Output follows configparser's layout (one "key = value" per line,
// continuation lines indented with a tab, a blank line after each section)
// so setuptools reads back exactly what was parsed. Comments are kept.
package setupcfg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// ErrSectionNotFound is wrapped when a section that must already exist is
// missing.
var ErrSectionNotFound = errors.New("section not found")

var loadOptions = ini.LoadOptions{
	AllowPythonMultilineValues: true,
	IgnoreInlineComment:        true,
	IgnoreContinuation:         true,
	PreserveSurroundedQuote:    true,
	KeyValueDelimiters:         "=:",
}

// File is a parsed setup.cfg.
type File struct {
	f *ini.File
}

// Parse parses setup.cfg contents.
func Parse(data []byte) (*File, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// Load reads and parses the file at path. Read and parse failures are
// configuration errors.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.Wrap(err, rerrors.CategoryConfig, rerrors.SeverityFatal, "cannot read setup configuration").
			WithContext("path", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, rerrors.ConfigInvalid(path, err)
	}
	return f, nil
}

// HasSection reports whether the named section exists.
func (c *File) HasSection(name string) bool {
	return c.f.HasSection(name)
}

// Get returns the value of key in section. Multi-line values are returned
// with their lines joined by "\n" and the leading indentation removed.
func (c *File) Get(section, key string) (string, bool) {
	sec, err := c.f.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return "", false
	}
	return joinLines(splitValue(sec.Key(key).Value())), true
}

// Keys returns the key names of section in file order.
func (c *File) Keys(section string) []string {
	sec, err := c.f.GetSection(section)
	if err != nil {
		return nil
	}
	return sec.KeyStrings()
}

// Set assigns key in an existing section, keeping the position of a key that
// is already present and appending otherwise.
func (c *File) Set(section, key, value string) error {
	sec, err := c.f.GetSection(section)
	if err != nil {
		return rerrors.Wrap(fmt.Errorf("%w: [%s]", ErrSectionNotFound, section),
			rerrors.CategoryConfig, rerrors.SeverityFatal, "setup configuration lacks a required section").
			WithContext("section", section)
	}
	if sec.HasKey(key) {
		sec.Key(key).SetValue(value)
		return nil
	}
	if _, err := sec.NewKey(key, value); err != nil {
		return rerrors.Wrap(err, rerrors.CategoryConfig, rerrors.SeverityFatal, "cannot add setup configuration key").
			WithContext("section", section).
			WithContext("key", key)
	}
	return nil
}

// WriteTo serializes the file in configparser's layout.
func (c *File) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	for _, sec := range c.f.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 && sec.Comment == "" {
			continue
		}
		writeComment(cw, sec.Comment)
		fmt.Fprintf(cw, "[%s]\n", sec.Name())
		for _, key := range sec.Keys() {
			writeComment(cw, key.Comment)
			lines := splitValue(key.Value())
			if lines[0] == "" {
				fmt.Fprintf(cw, "%s =\n", key.Name())
			} else {
				fmt.Fprintf(cw, "%s = %s\n", key.Name(), lines[0])
			}
			for _, l := range lines[1:] {
				fmt.Fprintf(cw, "\t%s\n", l)
			}
		}
		fmt.Fprintln(cw)
	}
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

// Bytes returns the serialized file.
func (c *File) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = c.WriteTo(&buf)
	return buf.Bytes()
}

// Save writes the file to path, keeping the mode of an existing file.
func (c *File) Save(path string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, c.Bytes(), mode); err != nil {
		return rerrors.FileSystem("write setup configuration", path, err)
	}
	return nil
}

// splitValue splits a stored value into its first line and trimmed
// continuation lines. The first line may be empty.
func splitValue(v string) []string {
	lines := strings.Split(v, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	out := lines[:1]
	for _, l := range lines[1:] {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func joinLines(lines []string) string {
	if lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func writeComment(w io.Writer, comment string) {
	if comment == "" {
		return
	}
	for _, l := range strings.Split(comment, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if l[0] != '#' && l[0] != ';' {
			l = "# " + l
		}
		fmt.Fprintln(w, l)
	}
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}
