// Package git wraps the git plumbing commands the validation engine needs:
// raw status enumeration, blob reads, batched attribute queries, and commit
// log access. Every call shells out to the git binary; there is no caching
// beyond what individual callers do.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EmptyTreeOID is the well-known object id of the empty tree. Git understands
// it intrinsically even when no such object exists in the repository, which
// makes it a usable diff base for a commit with no parent.
const EmptyTreeOID = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// ErrContentUnavailable reports that a requested blob or working file could
// not be read. Callers recover from it only where absent content is a
// legitimate state; otherwise it propagates as a fatal invocation failure.
var ErrContentUnavailable = errors.New("content unavailable")

// Runner executes git commands in a fixed repository directory.
type Runner struct {
	dir string
}

// NewRunner creates a Runner for the given repository root. An empty dir runs
// git in the process working directory.
func NewRunner(dir string) *Runner {
	return &Runner{dir: dir}
}

// run executes git with the given arguments and returns stdout. A non-zero
// exit is an error carrying the command line and whatever git wrote to
// stderr; gating correctness requires certainty about what changed, so
// callers treat these as fatal unless documented otherwise.
func (r *Runner) run(ctx context.Context, env []string, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w%s", strings.Join(args, " "), err, stderrSuffix(&stderr))
	}
	return out, nil
}

func stderrSuffix(buf *bytes.Buffer) string {
	msg := strings.TrimSpace(buf.String())
	if msg == "" {
		return ""
	}
	return ": " + msg
}

// splitNUL splits NUL-terminated output into fields, dropping the empty
// field after the trailing NUL.
func splitNUL(out []byte) []string {
	s := strings.TrimSuffix(string(out), "\x00")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}

// BaseTree returns a treeish usable as the diff base for committish: the
// committish itself when it resolves, or the empty tree when it does not
// (unborn HEAD, root commit's missing parent).
func (r *Runner) BaseTree(ctx context.Context, committish string) string {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", "--quiet", committish)
	cmd.Dir = r.dir
	if err := cmd.Run(); err != nil {
		return EmptyTreeOID
	}
	return committish
}

// CatBlob reads blob content for object (an object id, ":path" for the index,
// or "sha:path"). Failure to resolve it reports ErrContentUnavailable.
func (r *Runner) CatBlob(ctx context.Context, object string) ([]byte, error) {
	out, err := r.run(ctx, nil, nil, "cat-file", "blob", object)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	return out, nil
}

// ReadWorkingFile reads a file from the working tree relative to the
// repository root. A missing file reports ErrContentUnavailable.
func (r *Runner) ReadWorkingFile(path string) ([]byte, error) {
	full := path
	if r.dir != "" {
		full = r.dir + string(os.PathSeparator) + path
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContentUnavailable, path, err)
	}
	return data, nil
}

// LogMessage returns the log message of the given commit: everything after
// the first blank line of the raw commit object.
func (r *Runner) LogMessage(ctx context.Context, sha string) (string, error) {
	out, err := r.run(ctx, nil, nil, "cat-file", "commit", sha)
	if err != nil {
		return "", err
	}
	raw := string(out)
	i := strings.Index(raw, "\n\n")
	if i < 0 {
		return "", fmt.Errorf("malformed commit object %s: no header terminator", sha)
	}
	return raw[i+2:], nil
}

// RevList runs rev-list with the given arguments and returns the listed
// object ids in output order.
func (r *Runner) RevList(ctx context.Context, args ...string) ([]string, error) {
	out, err := r.run(ctx, nil, nil, append([]string{"rev-list"}, args...)...)
	if err != nil {
		return nil, err
	}
	var shas []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			shas = append(shas, line)
		}
	}
	return shas, nil
}

// ReadTree populates indexFile with the tree of the given commit. Used to pin
// attribute resolution to a commit's own .gitattributes.
func (r *Runner) ReadTree(ctx context.Context, sha, indexFile string) error {
	_, err := r.run(ctx, []string{"GIT_INDEX_FILE=" + indexFile}, nil, "read-tree", sha)
	return err
}
