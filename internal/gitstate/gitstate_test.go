package gitstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupRepo creates a repository with clean.tsx and dirty.tsx committed.
func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app", "clean.tsx"), "export default 1;\n")
	writeFile(t, filepath.Join(dir, "app", "dirty.tsx"), "export default 2;\n")

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, w.AddGlob("."))
	_, err = w.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestDirtyFiles(t *testing.T) {
	dir := setupRepo(t)
	clean := filepath.Join(dir, "app", "clean.tsx")
	dirty := filepath.Join(dir, "app", "dirty.tsx")
	untracked := filepath.Join(dir, "app", "new.tsx")

	writeFile(t, dirty, "export default 3;\n")
	writeFile(t, untracked, "export default 4;\n")

	got, err := DirtyFiles(dir, []string{clean, dirty, untracked})
	require.NoError(t, err)
	assert.Equal(t, []string{dirty, untracked}, got)
}

func TestDirtyFilesFromSubdirectory(t *testing.T) {
	dir := setupRepo(t)
	dirty := filepath.Join(dir, "app", "dirty.tsx")
	writeFile(t, dirty, "changed\n")

	got, err := DirtyFiles(filepath.Join(dir, "app"), []string{dirty})
	require.NoError(t, err)
	assert.Equal(t, []string{dirty}, got)
}

func TestDirtyFilesCleanTree(t *testing.T) {
	dir := setupRepo(t)
	got, err := DirtyFiles(dir, []string{filepath.Join(dir, "app", "clean.tsx")})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDirtyFilesNotRepository(t *testing.T) {
	_, err := DirtyFiles(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrNotRepository)
}
