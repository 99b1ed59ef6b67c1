package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Raw diff status codes this engine recognizes. --no-renames is always
// passed, so rename/copy scores never appear.
const (
	StatusAdded       = 'A'
	StatusModified    = 'M'
	StatusDeleted     = 'D'
	StatusTypeChanged = 'T'
	statusUnmerged    = 'U'
)

// UnmergedError reports a path left in a conflicted state. It is always
// fatal: a changeset must never be evaluated while the index itself may
// still hold conflict markers.
type UnmergedError struct {
	Path string
}

func (e *UnmergedError) Error() string {
	return fmt.Sprintf("unmerged file: %s", e.Path)
}

// UnexpectedStatusError reports a status code outside the recognized set,
// which signals an assumption violation in the diff command itself.
type UnexpectedStatusError struct {
	Path   string
	Status byte
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %c for file %s", e.Status, e.Path)
}

// RawChange is one entry of a raw diff between two tree states. OldOID and
// NewOID are empty when git reported the all-zeros placeholder (content not
// known to the object store, e.g. unstaged working tree files).
type RawChange struct {
	Path    string
	OldMode uint32
	NewMode uint32
	OldOID  string
	NewOID  string
	Status  byte
}

// IsRegular reports whether a mode describes a regular file. Content checks
// apply only to regular files; symlinks and gitlinks are skipped.
func IsRegular(mode uint32) bool {
	return mode&0o170000 == 0o100000
}

// ZeroOID is the all-zeros placeholder git uses for "no object": unborn
// refs in hook input, unstaged content in raw diffs.
const ZeroOID = "0000000000000000000000000000000000000000"

// DiffIndex enumerates changes between base and the index (cached true) or
// the working tree (cached false).
func (r *Runner) DiffIndex(ctx context.Context, base string, cached bool) ([]RawChange, error) {
	args := []string{"diff-index", "--raw", "--no-renames", "-z"}
	if cached {
		args = append(args, "--cached")
	}
	args = append(args, base)
	out, err := r.run(ctx, nil, nil, args...)
	if err != nil {
		return nil, err
	}
	return parseRawDiff(out)
}

// DiffTree enumerates changes between two tree states.
func (r *Runner) DiffTree(ctx context.Context, base, target string) ([]RawChange, error) {
	out, err := r.run(ctx, nil, nil, "diff-tree", "-r", "--raw", "--no-renames", "-z", base, target)
	if err != nil {
		return nil, err
	}
	return parseRawDiff(out)
}

// parseRawDiff decodes `--raw -z` output: pairs of
// ":oldmode newmode oldsha newsha status" and the pathname, NUL separated.
func parseRawDiff(out []byte) ([]RawChange, error) {
	fields := splitNUL(out)
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("malformed raw diff output: odd field count %d", len(fields))
	}

	var changes []RawChange
	for i := 0; i < len(fields); i += 2 {
		meta, path := fields[i], fields[i+1]
		if !strings.HasPrefix(meta, ":") {
			return nil, fmt.Errorf("malformed raw diff entry %q", meta)
		}
		parts := strings.Split(meta[1:], " ")
		if len(parts) != 5 {
			return nil, fmt.Errorf("malformed raw diff entry %q for file %s", meta, path)
		}

		oldMode, err := strconv.ParseUint(parts[0], 8, 32)
		if err != nil {
			return nil, fmt.Errorf("bad mode in raw diff entry for %s: %w", path, err)
		}
		newMode, err := strconv.ParseUint(parts[1], 8, 32)
		if err != nil {
			return nil, fmt.Errorf("bad mode in raw diff entry for %s: %w", path, err)
		}

		status := parts[4][0]
		switch status {
		case StatusAdded, StatusModified, StatusDeleted, StatusTypeChanged:
		case statusUnmerged:
			return nil, &UnmergedError{Path: path}
		default:
			return nil, &UnexpectedStatusError{Path: path, Status: status}
		}

		c := RawChange{
			Path:    path,
			OldMode: uint32(oldMode),
			NewMode: uint32(newMode),
			Status:  status,
		}
		if parts[2] != ZeroOID {
			c.OldOID = parts[2]
		}
		if parts[3] != ZeroOID {
			c.NewOID = parts[3]
		}
		changes = append(changes, c)
	}
	return changes, nil
}
