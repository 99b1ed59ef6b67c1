package check

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/bartekus/gitgate/internal/change"
)

// MarkerString is the "don't check me in" sentinel. It is spelled in pieces
// so this file itself can be committed.
const MarkerString = "@" + "@" + "@"

// TextCheck is a leaf predicate over the surviving content of a changed
// file. Deleted paths pass trivially: checks apply only to content that will
// exist after the commit.
type TextCheck struct {
	rep    Reporter
	pred   func(text []byte) bool
	format string
}

func (c *TextCheck) Evaluate(fc *change.FileChange, silent bool) bool {
	if fc.Kind == change.Deleted {
		return true
	}
	ok := c.pred(fc.NewContent)
	if !ok && !silent {
		c.rep.Warning(fmt.Sprintf(c.format, fc.Path))
	}
	return ok
}

func (c *TextCheck) AttributeNames() []string { return nil }

var trailingWSRE = regexp.MustCompile(`(?m)[ \t]+$`)

// NewTrailingWhitespace forbids whitespace at the end of any line, including
// the end of the file.
func NewTrailingWhitespace(rep Reporter) *TextCheck {
	return &TextCheck{
		rep:    rep,
		pred:   func(text []byte) bool { return !trailingWSRE.Match(text) },
		format: "Trailing whitespace in %s",
	}
}

var leadingWSRE = regexp.MustCompile(`(?m)^[ \t]+`)

// NewLeadingWhitespace forbids whitespace at the start of any line.
func NewLeadingWhitespace(rep Reporter) *TextCheck {
	return &TextCheck{
		rep:    rep,
		pred:   func(text []byte) bool { return !leadingWSRE.Match(text) },
		format: "Leading whitespace in %s",
	}
}

// NewBlankLine forbids empty lines (a bare terminator).
func NewBlankLine(rep Reporter) *TextCheck {
	return &TextCheck{
		rep: rep,
		pred: func(text []byte) bool {
			return !bytes.HasPrefix(text, []byte("\n")) && !bytes.Contains(text, []byte("\n\n"))
		},
		format: "Blank line in %s",
	}
}

// NewTab forbids tab characters anywhere in the content.
func NewTab(rep Reporter) *TextCheck {
	return &TextCheck{
		rep:    rep,
		pred:   func(text []byte) bool { return bytes.IndexByte(text, '\t') < 0 },
		format: "Tab(s) in %s",
	}
}

// NewCarriageReturn forbids carriage return characters anywhere in the
// content.
func NewCarriageReturn(rep Reporter) *TextCheck {
	return &TextCheck{
		rep:    rep,
		pred:   func(text []byte) bool { return bytes.IndexByte(text, '\r') < 0 },
		format: "Carriage return(s) in %s",
	}
}

// NewUnterminatedLine requires the last line of a non-empty file to end in a
// newline.
func NewUnterminatedLine(rep Reporter) *TextCheck {
	return &TextCheck{
		rep:    rep,
		pred:   func(text []byte) bool { return len(text) == 0 || text[len(text)-1] == '\n' },
		format: "Last line of %s is unterminated",
	}
}

// NewMarkerString forbids the marker string anywhere in the content. The
// marker is a way to tag work in progress that must never be committed; git
// then helps you remember.
func NewMarkerString(rep Reporter) *TextCheck {
	return NewMarkerStringPattern(rep, MarkerString)
}

// NewMarkerStringPattern is NewMarkerString with a configured marker.
func NewMarkerStringPattern(rep Reporter, marker string) *TextCheck {
	return &TextCheck{
		rep:    rep,
		pred:   func(text []byte) bool { return !bytes.Contains(text, []byte(marker)) },
		format: fmt.Sprintf("Marker string (%q) found in %%s", marker),
	}
}

var (
	conflictRE     = regexp.MustCompile(`(?m)^(?:<{7}|>{7}|\|{7}) |^={7}$`)
	conflictNoEqRE = regexp.MustCompile(`(?m)^(?:<{7}|>{7}|\|{7}) `)
)

// NewMergeConflict forbids lines that look like unresolved merge conflict
// markers. With allowEquals, a bare seven-equals separator line is tolerated
// because that exact sequence is a legitimate section underline in
// lightweight markup.
func NewMergeConflict(rep Reporter, allowEquals bool) *TextCheck {
	re := conflictRE
	if allowEquals {
		re = conflictNoEqRE
	}
	return &TextCheck{
		rep:    rep,
		pred:   func(text []byte) bool { return !re.Match(text) },
		format: "Unresolved merge found in %s",
	}
}
