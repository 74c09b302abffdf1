package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// ErrNotRepository is returned when a path is not inside a git work tree.
var ErrNotRepository = errors.New("not inside a git repository")

// TreeState describes the work tree holding the base package.
type TreeState struct {
	RepoRoot string
	Head     string // empty before the first commit
	Branch   string // empty on a detached HEAD
	// Modified lists paths (slash separated, relative to RepoRoot) that are
	// staged, changed or untracked.
	Modified []string
}

// Inspect opens the repository containing root and reports its HEAD and the
// paths with uncommitted changes.
func Inspect(root string) (*TreeState, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, root)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no work tree to inspect.
		return nil, fmt.Errorf("%w: %s: %w", ErrNotRepository, root, err)
	}

	state := &TreeState{RepoRoot: wt.Filesystem.Root()}
	head, err := repo.Head()
	switch {
	case err == nil:
		state.Head = head.Hash().String()
		if head.Name().IsBranch() {
			state.Branch = head.Name().Short()
		}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
	default:
		return nil, fmt.Errorf("read HEAD: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("work tree status: %w", err)
	}
	for path, s := range status {
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			state.Modified = append(state.Modified, path)
		}
	}
	sort.Strings(state.Modified)
	return state, nil
}

// IsModified reports whether the file at the absolute path has uncommitted
// changes.
func (s *TreeState) IsModified(path string) bool {
	rel, ok := s.relative(path)
	if !ok {
		return false
	}
	i := sort.SearchStrings(s.Modified, rel)
	return i < len(s.Modified) && s.Modified[i] == rel
}

func (s *TreeState) relative(path string) (string, bool) {
	root := resolve(s.RepoRoot)
	rel, err := filepath.Rel(root, resolve(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func resolve(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return filepath.Clean(p)
}

// RequireClean fails with a validation error naming every path that has
// uncommitted changes.
func (s *TreeState) RequireClean(paths ...string) error {
	var dirty []string
	for _, p := range paths {
		if s.IsModified(p) {
			dirty = append(dirty, filepath.Base(p))
		}
	}
	if len(dirty) == 0 {
		return nil
	}
	return rerrors.ValidationFailed("base.require_clean", "uncommitted changes in "+strings.Join(dirty, ", ")).
		WithContext("repository", s.RepoRoot)
}
