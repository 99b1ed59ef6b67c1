package check

import (
	"fmt"
	"strings"
)

// LogMarkerString forbids the marker string in a commit log message.
type LogMarkerString struct {
	rep    Reporter
	marker string
}

func NewLogMarkerString(rep Reporter) *LogMarkerString {
	return NewLogMarkerStringPattern(rep, MarkerString)
}

// NewLogMarkerStringPattern is NewLogMarkerString with a configured marker.
func NewLogMarkerStringPattern(rep Reporter, marker string) *LogMarkerString {
	return &LogMarkerString{rep: rep, marker: marker}
}

func (c *LogMarkerString) Evaluate(logmsg string, silent bool) bool {
	ok := !strings.Contains(logmsg, c.marker)
	if !ok && !silent {
		c.rep.Warning(fmt.Sprintf("Log message contains marker string (%q)", c.marker))
	}
	return ok
}

func (c *LogMarkerString) AttributeNames() []string { return nil }
