package change

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/gitgate/internal/git"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

func initRepo(t *testing.T) (string, *git.Runner, git.Capabilities) {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	runner := git.NewRunner(dir)
	caps, err := runner.Capabilities(context.Background())
	require.NoError(t, err)
	return dir, runner, caps
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func headSHA(t *testing.T, runner *git.Runner) string {
	t.Helper()
	shas, err := runner.RevList(context.Background(), "-1", "HEAD")
	require.NoError(t, err)
	require.Len(t, shas, 1)
	return shas[0]
}

func TestIndexSource(t *testing.T) {
	dir, runner, caps := initRepo(t)
	ctx := context.Background()

	writeFile(t, dir, ".gitattributes", "*.py check-tab\n")
	writeFile(t, dir, "x.py", "bad\t\n")
	runGit(t, dir, "add", ".")

	src := NewIndex(runner, caps, Options{})
	defer src.Close()

	changes, err := src.Changes(ctx, []string{"check-tab"})
	require.NoError(t, err)
	require.Len(t, changes, 2) // .gitattributes and x.py

	byPath := map[string]FileChange{}
	for _, c := range changes {
		byPath[c.Path] = c
	}

	x := byPath["x.py"]
	assert.Equal(t, Added, x.Kind)
	assert.Equal(t, "bad\t\n", string(x.NewContent))
	v, ok := x.Attr("check-tab")
	require.True(t, ok)
	assert.True(t, v.Truthy())

	_, err = src.LogMessage(ctx)
	assert.ErrorIs(t, err, ErrLogUnavailable)
}

func TestWorkTreeSource(t *testing.T) {
	dir, runner, _ := initRepo(t)
	ctx := context.Background()

	writeFile(t, dir, "a.txt", "one\n")
	runGit(t, dir, "add", "a.txt")
	runGit(t, dir, "commit", "-m", "initial")

	writeFile(t, dir, "a.txt", "two\n")

	src := NewWorkTree(runner, Options{})
	defer src.Close()

	changes, err := src.Changes(ctx, nil)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "a.txt", changes[0].Path)
	assert.Equal(t, Modified, changes[0].Kind)
	assert.Equal(t, "two\n", string(changes[0].NewContent))

	_, err = src.LogMessage(ctx)
	assert.ErrorIs(t, err, ErrLogUnavailable)
}

func TestCommitSource(t *testing.T) {
	dir, runner, caps := initRepo(t)
	ctx := context.Background()

	writeFile(t, dir, ".gitattributes", "*.py check-tab\n")
	writeFile(t, dir, "x.py", "clean\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Add x")

	writeFile(t, dir, "x.py", "clean\nmore\n")
	runGit(t, dir, "add", "x.py")
	runGit(t, dir, "commit", "-m", "Extend x")

	sha := headSHA(t, runner)
	src := NewCommit(runner, caps, sha, Options{WantOldContent: true})
	defer src.Close()

	msg, err := src.LogMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Extend x\n", msg)

	changes, err := src.Changes(ctx, []string{"check-tab"})
	require.NoError(t, err)
	require.Len(t, changes, 1)

	x := changes[0]
	assert.Equal(t, "x.py", x.Path)
	assert.Equal(t, Modified, x.Kind)
	assert.Equal(t, "clean\nmore\n", string(x.NewContent))
	assert.Equal(t, "clean\n", string(x.OldContent), "WantOldContent loads the previous version")

	v, ok := x.Attr("check-tab")
	require.True(t, ok, "attribute resolution must follow the commit's own .gitattributes")
	assert.True(t, v.Truthy())

	require.NoError(t, src.Close())
	require.NoError(t, src.Close(), "Close is safe to call twice")
}

func TestCommitSourceScratchIndexCleanup(t *testing.T) {
	dir, runner, caps := initRepo(t)
	ctx := context.Background()

	writeFile(t, dir, "a.txt", "hello\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial")

	sha := headSHA(t, runner)
	src := NewCommit(runner, caps, sha, Options{})

	_, err := src.Changes(ctx, []string{"check-tab"})
	require.NoError(t, err)

	idx := src.indexFile
	if caps.CheckAttrCached {
		require.NotEmpty(t, idx, "cached attribute resolution pins a scratch index")
		_, statErr := os.Stat(idx)
		require.NoError(t, statErr)
	}

	require.NoError(t, src.Close())
	if idx != "" {
		_, statErr := os.Stat(idx)
		assert.True(t, os.IsNotExist(statErr), "scratch index must be removed on Close")
	}
}

func TestCommitSourceDeletion(t *testing.T) {
	dir, runner, caps := initRepo(t)
	ctx := context.Background()

	writeFile(t, dir, "y.txt", "doomed\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "add y")
	runGit(t, dir, "rm", "y.txt")
	runGit(t, dir, "commit", "-m", "remove y")

	sha := headSHA(t, runner)
	src := NewCommit(runner, caps, sha, Options{})
	defer src.Close()

	changes, err := src.Changes(ctx, []string{"check-tab"})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, Deleted, changes[0].Kind)
	assert.Nil(t, changes[0].NewContent)
	assert.Empty(t, changes[0].Attrs, "deleted paths get no attributes; no check applies to them")
}

func TestCommitSourceSymlinkBecomesFile(t *testing.T) {
	dir, runner, caps := initRepo(t)
	ctx := context.Background()

	require.NoError(t, os.Symlink("target", filepath.Join(dir, "link")))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "add link")

	require.NoError(t, os.Remove(filepath.Join(dir, "link")))
	writeFile(t, dir, "link", "now a real file\t\n")
	runGit(t, dir, "add", "link")
	runGit(t, dir, "commit", "-m", "materialize link")

	sha := headSHA(t, runner)
	src := NewCommit(runner, caps, sha, Options{WantOldContent: true})
	defer src.Close()

	changes, err := src.Changes(ctx, nil)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	c := changes[0]
	assert.Equal(t, Added, c.Kind, "a path that became a regular file has no old content to diff against")
	assert.Equal(t, "now a real file\t\n", string(c.NewContent))
	assert.Nil(t, c.OldContent, "the symlink side contributes no content even when old content was requested")
}

func TestCommitSourceFileBecomesSymlink(t *testing.T) {
	dir, runner, caps := initRepo(t)
	ctx := context.Background()

	writeFile(t, dir, "path", "regular content\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "add path")

	require.NoError(t, os.Remove(filepath.Join(dir, "path")))
	require.NoError(t, os.Symlink("elsewhere", filepath.Join(dir, "path")))
	runGit(t, dir, "add", "path")
	runGit(t, dir, "commit", "-m", "symlink path")

	sha := headSHA(t, runner)
	src := NewCommit(runner, caps, sha, Options{})
	defer src.Close()

	changes, err := src.Changes(ctx, nil)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	c := changes[0]
	assert.Equal(t, Deleted, c.Kind, "content checks do not apply to a surviving non-regular file")
	assert.Nil(t, c.NewContent)
}

func TestFileListSource(t *testing.T) {
	dir, runner, _ := initRepo(t)
	ctx := context.Background()

	// Tracked history for the path must not matter: a file list treats
	// every path as a pure addition of its current content.
	writeFile(t, dir, "a.txt", "old\n")
	runGit(t, dir, "add", "a.txt")
	runGit(t, dir, "commit", "-m", "initial")
	writeFile(t, dir, "a.txt", "current\n")

	src := NewFileList(runner, []string{"a.txt"})
	defer src.Close()

	changes, err := src.Changes(ctx, nil)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, Added, changes[0].Kind)
	assert.Nil(t, changes[0].OldContent)
	assert.Equal(t, "current\n", string(changes[0].NewContent))

	_, err = src.LogMessage(ctx)
	assert.ErrorIs(t, err, ErrLogUnavailable)
}

func TestFileListSourceMissingFileIsFatal(t *testing.T) {
	_, runner, _ := initRepo(t)

	src := NewFileList(runner, []string{"missing.txt"})
	defer src.Close()

	_, err := src.Changes(context.Background(), nil)
	assert.ErrorIs(t, err, git.ErrContentUnavailable)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "deleted", Deleted.String())
}
