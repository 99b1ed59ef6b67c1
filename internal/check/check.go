// Package check implements the composable predicate algebra the engine
// evaluates against changed files and log messages. Leaf checks test one
// thing and emit one diagnostic line on failure; combinators assemble leaves
// into rule trees with either short-circuit semantics (for conditions) or
// exhaustive aggregation (for rule sets that must report every violation in
// a single run).
package check

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Check is a named, side-effect-free predicate over T, except for diagnostic
// emission: a leaf that fails while not silent writes one line to its
// reporter. Combinators never emit; silence is a flag threaded through the
// call so any check can serve interchangeably as a silent condition or a
// reporting rule.
//
// AttributeNames returns the attributes the check needs resolved before it
// can be evaluated; compound checks concatenate their children's.
type Check[T any] interface {
	Evaluate(v T, silent bool) bool
	AttributeNames() []string
}

// Reporter receives one line per violated rule. Injected rather than global
// so the algebra stays testable by substitution.
type Reporter interface {
	Warning(msg string)
}

// WriterReporter writes diagnostics as single lines to a writer, mirroring
// them to a structured logger at debug level.
type WriterReporter struct {
	w   io.Writer
	log *slog.Logger
}

// NewWriterReporter builds a reporter over w. A nil logger uses
// slog.Default().
func NewWriterReporter(w io.Writer, log *slog.Logger) *WriterReporter {
	if log == nil {
		log = slog.Default()
	}
	return &WriterReporter{w: w, log: log}
}

// Stderr returns the default reporter used by the CLI.
func Stderr() *WriterReporter {
	return NewWriterReporter(os.Stderr, nil)
}

func (r *WriterReporter) Warning(msg string) {
	fmt.Fprintln(r.w, msg)
	r.log.Debug("check diagnostic", "msg", msg)
}

type notCheck[T any] struct {
	child Check[T]
}

// Not inverts a check. Intended mostly for conditions; the inverted check
// forwards its child's attribute requirements and evaluates it with the
// caller's silence flag unchanged.
func Not[T any](c Check[T]) Check[T] {
	return notCheck[T]{child: c}
}

func (c notCheck[T]) Evaluate(v T, silent bool) bool {
	return !c.child.Evaluate(v, silent)
}

func (c notCheck[T]) AttributeNames() []string {
	return c.child.AttributeNames()
}

func concatAttributeNames[T any](checks []Check[T]) []string {
	var names []string
	for _, c := range checks {
		names = append(names, c.AttributeNames()...)
	}
	return names
}

type andCheck[T any] struct {
	checks []Check[T]
}

// And is the short-circuit conjunction of its children, evaluated left to
// right.
func And[T any](checks ...Check[T]) Check[T] {
	return andCheck[T]{checks: checks}
}

func (c andCheck[T]) Evaluate(v T, silent bool) bool {
	for _, child := range c.checks {
		if !child.Evaluate(v, silent) {
			return false
		}
	}
	return true
}

func (c andCheck[T]) AttributeNames() []string {
	return concatAttributeNames(c.checks)
}

type orCheck[T any] struct {
	checks []Check[T]
}

// Or is the short-circuit disjunction of its children, evaluated left to
// right.
func Or[T any](checks ...Check[T]) Check[T] {
	return orCheck[T]{checks: checks}
}

func (c orCheck[T]) Evaluate(v T, silent bool) bool {
	for _, child := range c.checks {
		if child.Evaluate(v, silent) {
			return true
		}
	}
	return false
}

func (c orCheck[T]) AttributeNames() []string {
	return concatAttributeNames(c.checks)
}

type allOfCheck[T any] struct {
	checks []Check[T]
}

// AllOf evaluates every child regardless of earlier failures and returns
// true iff all of them passed. This is the aggregator for top-level rule
// sets: a developer fixing a rejected commit wants the complete list of
// problems from one run, not the first one found.
func AllOf[T any](checks ...Check[T]) Check[T] {
	return allOfCheck[T]{checks: checks}
}

func (c allOfCheck[T]) Evaluate(v T, silent bool) bool {
	ok := true
	for _, child := range c.checks {
		ok = child.Evaluate(v, silent) && ok
	}
	return ok
}

func (c allOfCheck[T]) AttributeNames() []string {
	return concatAttributeNames(c.checks)
}

type ifThenCheck[T any] struct {
	cond Check[T]
	then Check[T]
}

// IfThen applies then only when cond holds. Logically not(cond) or then,
// except that cond is always evaluated silently: it is a gate, not an
// assertable rule, and a failing gate is not a violation.
func IfThen[T any](cond, then Check[T]) Check[T] {
	return ifThenCheck[T]{cond: cond, then: then}
}

func (c ifThenCheck[T]) Evaluate(v T, silent bool) bool {
	if !c.cond.Evaluate(v, true) {
		return true
	}
	return c.then.Evaluate(v, silent)
}

func (c ifThenCheck[T]) AttributeNames() []string {
	return append(append([]string(nil), c.cond.AttributeNames()...), c.then.AttributeNames()...)
}
