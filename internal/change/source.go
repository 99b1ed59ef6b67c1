package change

import (
	"context"
	"fmt"
	"os"

	"github.com/bartekus/gitgate/internal/git"
)

// Options tune how sources materialize changes.
type Options struct {
	// WantOldContent loads the previous version of modified files, needed by
	// the added-lines-only evaluation mode. Off by default; most rules only
	// look at the surviving content.
	WantOldContent bool
}

// Index enumerates the pending index against HEAD (or the empty tree on an
// unborn branch). This is the pre-commit hook's view.
type Index struct {
	runner *git.Runner
	caps   git.Capabilities
	opts   Options
}

func NewIndex(runner *git.Runner, caps git.Capabilities, opts Options) *Index {
	return &Index{runner: runner, caps: caps, opts: opts}
}

func (s *Index) Changes(ctx context.Context, attrNames []string) ([]FileChange, error) {
	base := s.runner.BaseTree(ctx, "HEAD")
	raws, err := s.runner.DiffIndex(ctx, base, true)
	if err != nil {
		return nil, err
	}
	changes, err := build(ctx, s.runner, raws, s.opts, func(path string) ([]byte, error) {
		return s.runner.CatBlob(ctx, ":"+path)
	})
	if err != nil {
		return nil, err
	}
	return resolveAttrs(ctx, s.runner, changes, attrNames, git.CheckAttrOptions{Cached: s.caps.CheckAttrCached})
}

func (s *Index) LogMessage(ctx context.Context) (string, error) {
	return "", ErrLogUnavailable
}

func (s *Index) Close() error { return nil }

// WorkTree enumerates the working tree against HEAD.
type WorkTree struct {
	runner *git.Runner
	opts   Options
}

func NewWorkTree(runner *git.Runner, opts Options) *WorkTree {
	return &WorkTree{runner: runner, opts: opts}
}

func (s *WorkTree) Changes(ctx context.Context, attrNames []string) ([]FileChange, error) {
	base := s.runner.BaseTree(ctx, "HEAD")
	raws, err := s.runner.DiffIndex(ctx, base, false)
	if err != nil {
		return nil, err
	}
	changes, err := build(ctx, s.runner, raws, s.opts, s.runner.ReadWorkingFile)
	if err != nil {
		return nil, err
	}
	return resolveAttrs(ctx, s.runner, changes, attrNames, git.CheckAttrOptions{})
}

func (s *WorkTree) LogMessage(ctx context.Context) (string, error) {
	return "", ErrLogUnavailable
}

func (s *WorkTree) Close() error { return nil }

// Commit enumerates one specific commit against its first parent (or the
// empty tree for a root commit). This is the pre-receive hook's view of each
// pushed commit.
//
// When check-attr supports --cached, attribute resolution is pinned to the
// commit's own tree through a scratch index file, so pushed commits are
// judged by the .gitattributes they carry rather than whatever happens to be
// checked out. The scratch index is created lazily with a unique name and
// removed by Close, no matter how evaluation exits.
type Commit struct {
	runner    *git.Runner
	caps      git.Capabilities
	opts      Options
	sha       string
	indexFile string
}

func NewCommit(runner *git.Runner, caps git.Capabilities, sha string, opts Options) *Commit {
	return &Commit{runner: runner, caps: caps, sha: sha, opts: opts}
}

func (s *Commit) Changes(ctx context.Context, attrNames []string) ([]FileChange, error) {
	base := s.runner.BaseTree(ctx, s.sha+"^")
	raws, err := s.runner.DiffTree(ctx, base, s.sha)
	if err != nil {
		return nil, err
	}
	changes, err := build(ctx, s.runner, raws, s.opts, func(path string) ([]byte, error) {
		return s.runner.CatBlob(ctx, s.sha+":"+path)
	})
	if err != nil {
		return nil, err
	}

	attrOpts := git.CheckAttrOptions{}
	if s.caps.CheckAttrCached {
		idx, err := s.scratchIndex(ctx)
		if err != nil {
			return nil, err
		}
		attrOpts = git.CheckAttrOptions{Cached: true, IndexFile: idx}
	}
	return resolveAttrs(ctx, s.runner, changes, attrNames, attrOpts)
}

func (s *Commit) scratchIndex(ctx context.Context) (string, error) {
	if s.indexFile != "" {
		return s.indexFile, nil
	}
	short := s.sha
	if len(short) > 10 {
		short = short[:10]
	}
	f, err := os.CreateTemp("", short+"-*.index")
	if err != nil {
		return "", fmt.Errorf("creating scratch index: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("creating scratch index: %w", err)
	}
	if err := s.runner.ReadTree(ctx, s.sha, name); err != nil {
		os.Remove(name)
		return "", err
	}
	s.indexFile = name
	return name, nil
}

func (s *Commit) LogMessage(ctx context.Context) (string, error) {
	return s.runner.LogMessage(ctx, s.sha)
}

func (s *Commit) Close() error {
	if s.indexFile == "" {
		return nil
	}
	err := os.Remove(s.indexFile)
	s.indexFile = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FileList treats an explicit list of paths as pure additions of their
// current on-disk content. The old side is always absent, even when the path
// exists in history: the operation being validated is "add this content",
// not a diff against anything.
type FileList struct {
	runner *git.Runner
	paths  []string
}

func NewFileList(runner *git.Runner, paths []string) *FileList {
	return &FileList{runner: runner, paths: paths}
}

func (s *FileList) Changes(ctx context.Context, attrNames []string) ([]FileChange, error) {
	changes := make([]FileChange, 0, len(s.paths))
	for _, p := range s.paths {
		content, err := s.runner.ReadWorkingFile(p)
		if err != nil {
			return nil, err
		}
		changes = append(changes, FileChange{Path: p, Kind: Added, NewContent: content})
	}
	return resolveAttrs(ctx, s.runner, changes, attrNames, git.CheckAttrOptions{})
}

func (s *FileList) LogMessage(ctx context.Context) (string, error) {
	return "", ErrLogUnavailable
}

func (s *FileList) Close() error { return nil }

// build turns raw diff entries into FileChange records. readNew fetches the
// surviving content of a path; the old side, when requested, is read by
// object id. Entries whose surviving side is not a regular file contribute a
// Deleted record when a regular old side existed, and are skipped entirely
// otherwise.
func build(ctx context.Context, runner *git.Runner, raws []git.RawChange, opts Options, readNew func(string) ([]byte, error)) ([]FileChange, error) {
	var changes []FileChange
	for _, rc := range raws {
		hasOld := rc.Status != git.StatusAdded && git.IsRegular(rc.OldMode)
		hasNew := rc.Status != git.StatusDeleted && git.IsRegular(rc.NewMode)

		var kind Kind
		switch {
		case hasOld && hasNew:
			kind = Modified
		case hasNew:
			kind = Added
		case hasOld:
			kind = Deleted
		default:
			continue
		}

		fc := FileChange{Path: rc.Path, Kind: kind}
		if hasNew {
			content, err := readNew(rc.Path)
			if err != nil {
				return nil, err
			}
			fc.NewContent = content
		}
		if hasOld && opts.WantOldContent && rc.OldOID != "" {
			content, err := runner.CatBlob(ctx, rc.OldOID)
			if err != nil {
				return nil, err
			}
			fc.OldContent = content
		}
		changes = append(changes, fc)
	}
	return changes, nil
}

// resolveAttrs attaches batch-resolved attributes to every record that has a
// surviving side. One check-attr round trip per evaluation pass.
func resolveAttrs(ctx context.Context, runner *git.Runner, changes []FileChange, attrNames []string, opts git.CheckAttrOptions) ([]FileChange, error) {
	var paths []string
	for i := range changes {
		if changes[i].Kind != Deleted {
			paths = append(paths, changes[i].Path)
		}
	}
	attrs, err := runner.CheckAttr(ctx, opts, attrNames, paths)
	if err != nil {
		return nil, err
	}
	for i := range changes {
		if changes[i].Kind != Deleted {
			changes[i].Attrs = attrs[changes[i].Path]
		}
	}
	return changes, nil
}
