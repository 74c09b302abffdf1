package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/logfields"
)

// ErrNotCreated is returned by operations on a tree that does not exist yet
// (or was already cleaned up).
var ErrNotCreated = errors.New("package tree not created")

// Manager owns one temporary package tree at a fixed path.
type Manager struct {
	path    string
	created bool
}

// NewManager returns a manager for the tree at workDir/name. Nothing is created
// until Create is called.
func NewManager(workDir, name string) *Manager {
	return &Manager{path: filepath.Join(workDir, name)}
}

// Create creates the tree directory. It fails if the path already exists; a
// leftover tree from an interrupted run is never reused or removed.
func (m *Manager) Create() error {
	if m.created {
		return nil
	}
	if err := os.Mkdir(m.path, 0o750); err != nil {
		return rerrors.FileSystem("create package tree", m.path, err)
	}
	m.created = true
	slog.Debug("Created package tree", logfields.Path(m.path))
	return nil
}

// GetPath returns the tree root.
func (m *Manager) GetPath() string {
	return m.path
}

// Cleanup removes the tree. It only removes what Create made and is safe to
// call more than once.
func (m *Manager) Cleanup() error {
	if !m.created {
		return nil
	}
	if err := os.RemoveAll(m.path); err != nil {
		return rerrors.FileSystem("remove package tree", m.path, err)
	}
	m.created = false
	slog.Debug("Removed package tree", logfields.Path(m.path))
	return nil
}

// CreateSubdir creates a (possibly nested) subdirectory within the tree.
func (m *Manager) CreateSubdir(rel string) (string, error) {
	if !m.created {
		return "", fmt.Errorf("%w: %s", ErrNotCreated, m.path)
	}

	subdir := filepath.Join(m.path, rel)
	if err := os.MkdirAll(subdir, 0o750); err != nil {
		return "", rerrors.FileSystem("create directory", subdir, err)
	}
	return subdir, nil
}

// With creates the tree at workDir/name, calls fn, and removes the tree on
// every exit path once creation succeeded. An error from fn takes precedence
// over a cleanup error.
func With(workDir, name string, fn func(m *Manager) error) (err error) {
	m := NewManager(workDir, name)
	if err := m.Create(); err != nil {
		return err
	}
	defer func() {
		if cerr := m.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(m)
}
