// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Gitgate - Gitgate is a commit-validation engine for git hooks.
It inspects the files changed by a commit, enforces per-path formatting
rules configured through gitattributes, and rejects commits that violate
them.

Copyright (C) 2026  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package config loads the optional gitgate.yml profile configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up at the repository root when no explicit path
// is given.
const DefaultFileName = "gitgate.yml"

// File is the root of the configuration document. Every part is optional;
// Default() describes the behavior with no file at all.
type File struct {
	// Marker overrides the built-in "don't check me in" sentinel.
	Marker string `yaml:"marker"`
	// Profiles keys hook entry points ("pre-commit", "pre-receive") to the
	// rules they enforce.
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile is the rule selection for one hook entry point.
type Profile struct {
	// Rules lists toggle-attribute names (check-tab, check-trailing-ws,
	// ...). Unknown names are carried through verbatim: the evaluator warns
	// about them at evaluation time instead of rejecting the configuration,
	// so attribute vocabularies can evolve ahead of deployed engines.
	Rules []string `yaml:"rules"`
	// LogMarker enables the log-message marker check. Only meaningful for
	// entry points whose commits have a log message.
	LogMarker bool `yaml:"log_marker"`
	// AddedLinesOnly restricts line-based rules to lines newly added
	// relative to the previous version of each file. It does not narrow
	// Rules: whole-content rules still scan the entire surviving file, so a
	// pre-existing violation on an untouched line still rejects the commit.
	// Profiles that want to tolerate legacy content should rely on the line
	// checks alone and keep Rules minimal.
	AddedLinesOnly bool `yaml:"added_lines_only"`
}

// Default mirrors the historical built-in rule trees.
func Default() *File {
	return &File{
		Profiles: map[string]Profile{
			"pre-commit": {
				Rules: []string{
					"check-trailing-ws",
					"check-tab",
					"check-cr",
					"check-unterminated",
					"check-conflict",
					"check-conflict-noequals",
				},
			},
			"pre-receive": {
				LogMarker: true,
				Rules: []string{
					"check-trailing-ws",
					"check-tab",
					"check-cr",
					"check-unterminated",
					"check-atatat",
					"check-conflict",
					"check-conflict-noequals",
				},
			},
		},
	}
}

// Load reads the configuration at path. A missing file yields Default();
// a present but unparsable file is an error.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if f.Profiles == nil {
		f.Profiles = Default().Profiles
	}
	return &f, nil
}

// Profile returns the named profile, falling back to the default profile of
// the same name when the file does not define it.
func (f *File) Profile(name string) Profile {
	if p, ok := f.Profiles[name]; ok {
		return p
	}
	return Default().Profiles[name]
}
