// Package diffline extracts the newly added lines of a changed file by
// aligning the old and new content. The alignment is heuristic by nature: it
// approximates "lines a human added" and can misattribute lines during
// interleaved edits, which is inherent to sequence-alignment diffing rather
// than a defect to fix.
package diffline

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Line is one line of the new content, tagged with its zero-based index
// there. Text keeps its terminator, except possibly on the final line.
type Line struct {
	Number int
	Text   string
}

// NewLines returns the lines of newContent that are newly added or modified
// relative to oldContent. A nil oldContent means the file is an addition and
// every line is new; a nil newContent (deletion) yields nothing.
func NewLines(oldContent, newContent []byte) []Line {
	if newContent == nil {
		return nil
	}
	newLines := splitLines(string(newContent))
	if oldContent == nil {
		out := make([]Line, len(newLines))
		for i, text := range newLines {
			out[i] = Line{Number: i, Text: text}
		}
		return out
	}

	matcher := difflib.NewMatcher(splitLines(string(oldContent)), newLines)
	var out []Line
	for _, op := range matcher.GetOpCodes() {
		if op.Tag != 'i' && op.Tag != 'r' {
			continue
		}
		for j := op.J1; j < op.J2; j++ {
			out = append(out, Line{Number: j, Text: newLines[j]})
		}
	}
	return out
}

// splitLines splits content into terminator-retaining lines, matching how
// the alignment treats a trailing unterminated fragment as its own line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
