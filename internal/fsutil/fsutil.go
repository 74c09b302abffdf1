// Package fsutil holds the file moves and copies the release steps share.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// ErrExists is returned when a move or exclusive copy would replace an
// existing path.
var ErrExists = errors.New("destination already exists")

// CopyFile copies src to dst, replacing dst if it exists. The file mode of src
// is kept.
func CopyFile(src, dst string) error {
	return copyFile(src, dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

func copyFile(src, dst string, flag int) (err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = srcFile.Close() }()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	dstFile, err := os.OpenFile(dst, flag, srcInfo.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, dst)
		}
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dstFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return nil
}

// copyDirExclusive recursively copies src to dst, which must not exist.
func copyDirExclusive(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source directory: %w", err)
	}
	if err := os.Mkdir(dst, srcInfo.Mode().Perm()); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, dst)
		}
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			err = copyDirExclusive(srcPath, dstPath)
		} else {
			err = copyFile(srcPath, dstPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Move moves the file or directory src to dst without replacing an existing
// dst. Moves across filesystems fall back to copy and remove.
func Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		err = copyDirExclusive(src, dst)
	} else {
		err = copyFile(src, dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL)
	}
	if err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// Entries returns the names of the entries in dir. A missing dir yields an
// empty set.
func Entries(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}
	return names, nil
}

// MoveEntries moves every entry of srcDir not named in exclude into dstDir
// and returns the destination paths in name order. The first failing move
// stops the operation.
func MoveEntries(srcDir, dstDir string, exclude map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, skip := exclude[e.Name()]; !skip {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	moved := make([]string, 0, len(names))
	for _, name := range names {
		dst := filepath.Join(dstDir, name)
		if err := Move(filepath.Join(srcDir, name), dst); err != nil {
			return moved, err
		}
		moved = append(moved, dst)
	}
	return moved, nil
}
