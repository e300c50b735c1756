// Package gitstate reports which files about to be rewritten carry changes
// that git could not restore.
package gitstate

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when the project is not inside a git
// work tree.
var ErrNotRepository = errors.New("not a git repository")

// DirtyFiles returns the paths, in input order, that are untracked or have
// uncommitted changes in the repository containing root.
func DirtyFiles(root string, paths []string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", root, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading git status: %w", err)
	}

	top := resolve(wt.Filesystem.Root())
	var dirty []string
	for _, p := range paths {
		rel, err := filepath.Rel(top, resolve(p))
		if err != nil {
			continue
		}
		fs, ok := status[filepath.ToSlash(rel)]
		if !ok {
			continue
		}
		if fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified {
			dirty = append(dirty, p)
		}
	}
	return dirty, nil
}

func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
