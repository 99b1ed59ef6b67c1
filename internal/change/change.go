// Package change provides a uniform view of "the set of file changes to
// inspect" over several enumeration strategies: the pending index, the
// working tree, a specific commit, or an explicit list of files treated as
// pure additions.
package change

import (
	"context"
	"errors"

	"github.com/bartekus/gitgate/internal/git"
)

// ErrLogUnavailable reports that a source has no log message (index, working
// tree, file lists). It is a recognized skip signal, not a failure: callers
// skip log-message checks and carry on.
var ErrLogUnavailable = errors.New("log message unavailable")

// Kind classifies a file change. The classification is decided once at
// enumeration time; downstream checks branch on it instead of re-deriving
// the state from content presence. Type changes never surface directly: a
// path that became a regular file is folded into Added (the non-regular old
// side contributes no content), one that stopped being a regular file into
// Deleted (content checks apply only to regular files).
type Kind int

const (
	Added Kind = iota
	Modified
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// FileChange is one changed path in one evaluation pass. Attrs is populated
// once by the source after enumeration and read-only thereafter; for deleted
// paths it stays empty, since no check applies to a file with no surviving
// content. OldContent is loaded only when the evaluation asked for it (the
// added-lines-only mode); Kind, not content presence, is the authoritative
// record of whether the path existed before or after the change.
type FileChange struct {
	Path       string
	Kind       Kind
	OldContent []byte
	NewContent []byte
	Attrs      map[string]git.AttrValue
}

// Attr returns the resolved attribute and whether it was configured at all.
func (fc *FileChange) Attr(name string) (git.AttrValue, bool) {
	v, ok := fc.Attrs[name]
	return v, ok
}

// Source enumerates the changes of one commit-like object.
//
// Changes performs the full pass: enumerate changed paths, read surviving
// content, and batch-resolve the named attributes for every path that has a
// new side. Any enumeration or resolution failure is fatal; there is no
// meaningful partial result once the changeset itself is uncertain.
//
// LogMessage returns the commit log message, or ErrLogUnavailable for
// sources that have none.
//
// Close releases scratch state (at most a temporary index file) and must be
// safe to call regardless of how evaluation exited.
type Source interface {
	Changes(ctx context.Context, attrNames []string) ([]FileChange, error)
	LogMessage(ctx context.Context) (string, error)
	Close() error
}
