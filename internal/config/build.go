package config

import (
	"github.com/bartekus/gitgate/internal/check"
	"github.com/bartekus/gitgate/internal/evaluate"
)

// Build turns one profile into an evaluator configuration bound to the given
// reporter. Rule selection is attribute-driven: each listed rule runs only
// on paths whose toggle attribute is truthy.
func (f *File) Build(profileName string, rep check.Reporter) evaluate.Config {
	p := f.Profile(profileName)

	marker := f.Marker
	if marker == "" {
		marker = check.MarkerString
	}

	cfg := evaluate.Config{
		Reporter: rep,
		Toggles:  p.Rules,
		Registry: check.RegistryWith(rep, marker),
	}
	if p.LogMarker {
		cfg.LogChecks = []check.Check[string]{check.NewLogMarkerStringPattern(rep, marker)}
	}
	if p.AddedLinesOnly {
		cfg.AddedLinesOnly = true
		cfg.LineChecks = []check.Check[check.FileLine]{
			check.NewLineMarkerStringPattern(rep, marker),
			check.NewLineTrailingWhitespace(rep),
			check.NewLineTab(rep),
		}
	}
	return cfg
}
