// Package evaluate wires a change source, attribute resolution, and a
// configured check tree into a single pass/fail verdict for one commit-like
// object.
package evaluate

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/bartekus/gitgate/internal/change"
	"github.com/bartekus/gitgate/internal/check"
	"github.com/bartekus/gitgate/internal/diffline"
)

// Config assembles an Evaluator.
type Config struct {
	// Reporter receives one diagnostic line per violation.
	Reporter check.Reporter
	// Logger receives non-user-facing warnings (unknown rule toggles). Nil
	// uses slog.Default().
	Logger *slog.Logger
	// FileChecks run against every changed file.
	FileChecks []check.Check[*change.FileChange]
	// LogChecks run against the commit log message when one exists.
	LogChecks []check.Check[string]
	// Toggles are attribute names (check.TogglePrefix-prefixed) enabling
	// registry rules per path. They are resolved alongside the file-check
	// attribute closure; a truthy toggle whose name is unknown to the
	// registry warns and is skipped rather than failing the commit, so
	// attribute configuration can evolve ahead of the engine.
	Toggles []string
	// AddedLinesOnly restricts LineChecks to lines newly added relative to
	// the previous version of each file.
	AddedLinesOnly bool
	// LineChecks run against each added line when AddedLinesOnly is set.
	LineChecks []check.Check[check.FileLine]
	// Registry overrides the toggle-name registry; nil uses check.Registry
	// over the configured reporter.
	Registry map[string]check.Check[*change.FileChange]
}

// Evaluator produces one verdict per change source. It holds no mutable
// state across evaluations; each call is an independent linear pass.
type Evaluator struct {
	rep       check.Reporter
	log       *slog.Logger
	fileCheck check.Check[*change.FileChange]
	logCheck  check.Check[string]
	toggles   []string
	registry  map[string]check.Check[*change.FileChange]
	lineMode  bool
	lineCheck check.Check[check.FileLine]
}

// New builds an Evaluator. The reporter defaults to stderr.
func New(cfg Config) *Evaluator {
	rep := cfg.Reporter
	if rep == nil {
		rep = check.Stderr()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = check.Registry(rep)
	}
	e := &Evaluator{
		rep:      rep,
		log:      log,
		toggles:  cfg.Toggles,
		registry: registry,
		lineMode: cfg.AddedLinesOnly,
	}
	if len(cfg.FileChecks) > 0 {
		e.fileCheck = check.AllOf(cfg.FileChecks...)
	}
	if len(cfg.LogChecks) > 0 {
		e.logCheck = check.AllOf(cfg.LogChecks...)
	}
	if len(cfg.LineChecks) > 0 {
		e.lineCheck = check.AllOf(cfg.LineChecks...)
	}
	return e
}

// NeedsOldContent reports whether sources feeding this evaluator must load
// the previous version of modified files.
func (e *Evaluator) NeedsOldContent() bool {
	return e.lineMode && e.lineCheck != nil
}

// Evaluate runs every configured check against every change in src and
// returns the conjunction of all results. There is no short-circuit across
// files or checks: a rejected commit reports every violation in one run.
// Errors are reserved for fatal conditions (enumeration, content, or
// attribute resolution failures); rule violations return false with nil
// error.
func (e *Evaluator) Evaluate(ctx context.Context, src change.Source) (bool, error) {
	ok, err := e.evaluateLog(ctx, src)
	if err != nil {
		return false, err
	}

	changes, err := src.Changes(ctx, e.attributeNames())
	if err != nil {
		return false, err
	}

	warned := map[string]bool{}
	for i := range changes {
		ok = e.evaluateFile(&changes[i], warned) && ok
	}
	return ok, nil
}

// attributeNames is the closure of attributes the configured tree needs,
// recomputed per evaluation. Cheap, so not cached.
func (e *Evaluator) attributeNames() []string {
	seen := map[string]bool{}
	var names []string
	add := func(ns []string) {
		for _, n := range ns {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	if e.fileCheck != nil {
		add(e.fileCheck.AttributeNames())
	}
	add(e.toggles)
	sort.Strings(names)
	return names
}

func (e *Evaluator) evaluateLog(ctx context.Context, src change.Source) (bool, error) {
	if e.logCheck == nil {
		return true, nil
	}
	logmsg, err := src.LogMessage(ctx)
	if errors.Is(err, change.ErrLogUnavailable) {
		// Not an error: this source simply has no log message to check.
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return e.logCheck.Evaluate(logmsg, false), nil
}

func (e *Evaluator) evaluateFile(fc *change.FileChange, warned map[string]bool) bool {
	ok := true
	if e.fileCheck != nil {
		ok = e.fileCheck.Evaluate(fc, false)
	}
	ok = e.evaluateToggles(fc, warned) && ok
	ok = e.evaluateLines(fc) && ok
	return ok
}

// evaluateToggles runs attribute-driven rule selection: every toggle
// attribute present and truthy on the file enables the registry rule of the
// same name.
func (e *Evaluator) evaluateToggles(fc *change.FileChange, warned map[string]bool) bool {
	ok := true
	if fc.Kind == change.Deleted || len(e.toggles) == 0 {
		return ok
	}
	enabled := map[string]bool{}
	for _, name := range e.toggles {
		enabled[name] = true
	}
	var names []string
	for name, v := range fc.Attrs {
		if strings.HasPrefix(name, check.TogglePrefix) && enabled[name] && v.Truthy() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		rule, found := e.registry[name]
		if !found {
			if !warned[name] {
				warned[name] = true
				e.log.Warn("attribute toggles unknown check", "attribute", name, "path", fc.Path)
			}
			continue
		}
		ok = rule.Evaluate(fc, false) && ok
	}
	return ok
}

func (e *Evaluator) evaluateLines(fc *change.FileChange) bool {
	ok := true
	if !e.lineMode || e.lineCheck == nil || fc.Kind == change.Deleted {
		return ok
	}
	var old []byte
	if fc.Kind == change.Modified {
		old = fc.OldContent
	}
	for _, line := range diffline.NewLines(old, fc.NewContent) {
		fl := check.FileLine{Path: fc.Path, Number: line.Number, Text: line.Text}
		ok = e.lineCheck.Evaluate(fl, false) && ok
	}
	return ok
}
