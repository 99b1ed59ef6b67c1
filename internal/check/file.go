package check

import (
	"fmt"
	"regexp"

	"github.com/bartekus/gitgate/internal/change"
)

// FilenameMatch tests a changed path against a regular expression anchored
// at the start of the path. Deleted paths pass trivially. Mostly used as a
// condition gating other checks.
type FilenameMatch struct {
	rep     Reporter
	pattern string
	re      *regexp.Regexp
}

func NewFilenameMatch(rep Reporter, pattern string) (*FilenameMatch, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("filename pattern %q: %w", pattern, err)
	}
	return &FilenameMatch{rep: rep, pattern: pattern, re: re}, nil
}

func (c *FilenameMatch) Evaluate(fc *change.FileChange, silent bool) bool {
	if fc.Kind == change.Deleted {
		return true
	}
	ok := c.re.MatchString(fc.Path)
	if !ok && !silent {
		c.rep.Warning(fmt.Sprintf("%s does not match %q", fc.Path, c.pattern))
	}
	return ok
}

func (c *FilenameMatch) AttributeNames() []string { return nil }

// AttributeSet tests whether an attribute is truthy on the file: explicitly
// set, or carrying a non-empty string value. It emits no diagnostic; it
// exists to gate rules, and a file a rule does not apply to is not a
// violation. Deleted paths never satisfy it.
type AttributeSet struct {
	name string
}

func NewAttributeSet(name string) *AttributeSet {
	return &AttributeSet{name: name}
}

func (c *AttributeSet) Evaluate(fc *change.FileChange, silent bool) bool {
	if fc.Kind == change.Deleted {
		return false
	}
	v, ok := fc.Attr(c.name)
	return ok && v.Truthy()
}

func (c *AttributeSet) AttributeNames() []string { return []string{c.name} }

// AttributeValue tests whether an attribute carries a string value matching
// a regular expression in full. Set/unset/absent attributes never match;
// deleted paths pass trivially.
type AttributeValue struct {
	rep     Reporter
	name    string
	pattern string
	re      *regexp.Regexp
}

func NewAttributeValue(rep Reporter, name, pattern string) (*AttributeValue, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("attribute pattern %q: %w", pattern, err)
	}
	return &AttributeValue{rep: rep, name: name, pattern: pattern, re: re}, nil
}

func (c *AttributeValue) Evaluate(fc *change.FileChange, silent bool) bool {
	if fc.Kind == change.Deleted {
		return true
	}
	v, ok := fc.Attr(c.name)
	if !ok {
		return failValue(c, fc, silent)
	}
	s, isStr := v.StringValue()
	if !isStr || !c.re.MatchString(s) {
		return failValue(c, fc, silent)
	}
	return true
}

func failValue(c *AttributeValue, fc *change.FileChange, silent bool) bool {
	if !silent {
		c.rep.Warning(fmt.Sprintf("%s, attribute %s does not match %q", fc.Path, c.name, c.pattern))
	}
	return false
}

func (c *AttributeValue) AttributeNames() []string { return []string{c.name} }

// NewMimeType matches the conventional mime-type attribute against a
// pattern, e.g. `text/.*` to gate text rules onto declared-text paths.
func NewMimeType(rep Reporter, pattern string) (*AttributeValue, error) {
	return NewAttributeValue(rep, "mime-type", pattern)
}

// AttributeThen gates a file check on an attribute: the check runs only for
// files where the attribute is truthy.
func AttributeThen(name string, c Check[*change.FileChange]) Check[*change.FileChange] {
	return IfThen[*change.FileChange](NewAttributeSet(name), c)
}
