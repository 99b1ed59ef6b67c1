package check

import "github.com/bartekus/gitgate/internal/change"

// TogglePrefix is the reserved attribute-name prefix designating an
// attribute as a rule toggle. Attribute configuration can gate any rule in
// the registry onto any path without code changes.
const TogglePrefix = "check-"

// Registry maps toggle-attribute names to the leaf checks they enable. The
// evaluator consults it for attribute-driven rule selection; names that do
// not resolve are warned about and skipped, so attribute configuration can
// run ahead of deployed engines without breaking commits.
func Registry(rep Reporter) map[string]Check[*change.FileChange] {
	return RegistryWith(rep, MarkerString)
}

// RegistryWith is Registry with a configured marker string.
func RegistryWith(rep Reporter, marker string) map[string]Check[*change.FileChange] {
	return map[string]Check[*change.FileChange]{
		"check-trailing-ws":       NewTrailingWhitespace(rep),
		"check-leading-ws":        NewLeadingWhitespace(rep),
		"check-blank-line":        NewBlankLine(rep),
		"check-tab":               NewTab(rep),
		"check-cr":                NewCarriageReturn(rep),
		"check-unterminated":      NewUnterminatedLine(rep),
		"check-atatat":            NewMarkerStringPattern(rep, marker),
		"check-conflict":          NewMergeConflict(rep, false),
		"check-conflict-noequals": NewMergeConflict(rep, true),
	}
}
