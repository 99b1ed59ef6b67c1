package git

import (
	"context"
	"fmt"
)

// AttrState classifies a resolved gitattribute.
type AttrState int

const (
	// AttrUnset means the attribute is explicitly disabled ("unset").
	AttrUnset AttrState = iota
	// AttrSet means the attribute is explicitly enabled with no value ("set").
	AttrSet
	// AttrString means the attribute carries a string value.
	AttrString
)

// AttrValue is one resolved attribute. "unspecified" attributes never appear
// in a result map at all, so an AttrValue always describes a configured
// attribute. Unset stays present in the map so that "explicitly disabled"
// remains distinguishable from "never configured", even though rule gating
// treats both the same.
type AttrValue struct {
	State AttrState
	Value string
}

// Truthy reports whether the value enables a rule gated on it: set, or a
// non-empty string value.
func (v AttrValue) Truthy() bool {
	switch v.State {
	case AttrSet:
		return true
	case AttrString:
		return v.Value != ""
	default:
		return false
	}
}

// StringValue returns the attribute's string value, if it has one. Set/unset
// attributes have no string value.
func (v AttrValue) StringValue() (string, bool) {
	if v.State == AttrString {
		return v.Value, true
	}
	return "", false
}

// CheckAttrOptions select where attribute resolution reads from.
type CheckAttrOptions struct {
	// Cached resolves against the index instead of the working tree.
	// Requires git >= 1.7.8 (see Capabilities); callers on older versions
	// fall back to the working-copy resolution.
	Cached bool
	// IndexFile, when non-empty, overrides GIT_INDEX_FILE so that a scratch
	// index pinned to a specific commit answers the query.
	IndexFile string
}

// CheckAttr batch-resolves the named attributes for all paths in a single
// `git check-attr` round trip. Path count can be large, so one invocation per
// evaluation pass is a hard requirement here, not a nicety. The result maps
// every requested path to its configured attributes; "unspecified" answers
// are omitted, "unset" becomes AttrUnset, "set" becomes AttrSet, anything
// else is a verbatim string value. Any failure is fatal to the caller:
// partial attribute knowledge must never silently mean "no rules apply".
func (r *Runner) CheckAttr(ctx context.Context, opts CheckAttrOptions, names, paths []string) (map[string]map[string]AttrValue, error) {
	attrs := make(map[string]map[string]AttrValue, len(paths))
	for _, p := range paths {
		attrs[p] = map[string]AttrValue{}
	}
	if len(paths) == 0 || len(names) == 0 {
		return attrs, nil
	}

	args := []string{"check-attr", "-z", "--stdin"}
	if opts.Cached {
		args = append(args, "--cached")
	}
	args = append(args, names...)
	args = append(args, "--")

	var env []string
	if opts.IndexFile != "" {
		env = []string{"GIT_INDEX_FILE=" + opts.IndexFile}
	}

	var stdin []byte
	for _, p := range paths {
		stdin = append(stdin, p...)
		stdin = append(stdin, 0)
	}

	out, err := r.run(ctx, env, stdin, args...)
	if err != nil {
		return nil, fmt.Errorf("attribute resolution failed: %w", err)
	}
	if err := parseCheckAttr(out, attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// parseCheckAttr decodes -z output, a flat sequence of path, attribute,
// value triples, into attrs. Coercion: "unspecified" answers are omitted
// entirely, "unset" is an explicit false, "set" an explicit true, and any
// other token is a verbatim string value.
func parseCheckAttr(out []byte, attrs map[string]map[string]AttrValue) error {
	fields := splitNUL(out)
	if len(fields)%3 != 0 {
		return fmt.Errorf("malformed check-attr output: %d fields", len(fields))
	}
	for i := 0; i < len(fields); i += 3 {
		path, name, raw := fields[i], fields[i+1], fields[i+2]
		m, ok := attrs[path]
		if !ok {
			m = map[string]AttrValue{}
			attrs[path] = m
		}
		switch raw {
		case "unspecified":
			// Not configured for this path; leave the key out.
		case "unset":
			m[name] = AttrValue{State: AttrUnset}
		case "set":
			m[name] = AttrValue{State: AttrSet}
		default:
			m[name] = AttrValue{State: AttrString, Value: raw}
		}
	}
	return nil
}
