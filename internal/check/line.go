package check

import (
	"fmt"
	"strings"
)

// FileLine is one newly added line of a changed file, as produced by the
// added-lines-only evaluation mode. Number is the zero-based line index in
// the new version of the file; diagnostics print it one-based.
type FileLine struct {
	Path   string
	Number int
	Text   string
}

// LineCheck is a leaf predicate over a single added line.
type LineCheck struct {
	rep    Reporter
	pred   func(text string) bool
	format string
}

func (c *LineCheck) Evaluate(l FileLine, silent bool) bool {
	ok := c.pred(l.Text)
	if !ok && !silent {
		c.rep.Warning(fmt.Sprintf(c.format, l.Path, l.Number+1))
	}
	return ok
}

func (c *LineCheck) AttributeNames() []string { return nil }

// NewLineMarkerString forbids the marker string on an added line.
func NewLineMarkerString(rep Reporter) *LineCheck {
	return NewLineMarkerStringPattern(rep, MarkerString)
}

// NewLineMarkerStringPattern is NewLineMarkerString with a configured
// marker.
func NewLineMarkerStringPattern(rep Reporter, marker string) *LineCheck {
	return &LineCheck{
		rep:    rep,
		pred:   func(text string) bool { return !strings.Contains(text, marker) },
		format: fmt.Sprintf("Marker string (%q) found in %%s, line %%d", marker),
	}
}

// NewLineTrailingWhitespace forbids whitespace before an added line's
// terminator (or at its end, for an unterminated final line).
func NewLineTrailingWhitespace(rep Reporter) *LineCheck {
	return &LineCheck{
		rep: rep,
		pred: func(text string) bool {
			body := strings.TrimRight(text, "\r\n")
			return body == strings.TrimRight(body, " \t")
		},
		format: "Trailing whitespace in %s, line %d",
	}
}

// NewLineTab forbids tab characters on an added line.
func NewLineTab(rep Reporter) *LineCheck {
	return &LineCheck{
		rep:    rep,
		pred:   func(text string) bool { return !strings.Contains(text, "\t") },
		format: "Tab(s) in %s, line %d",
	}
}
