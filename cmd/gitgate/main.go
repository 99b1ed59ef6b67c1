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

package main

import (
	"fmt"
	"os"

	"github.com/bartekus/gitgate/cmd/gitgate/commands"
	"github.com/bartekus/gitgate/cmd/gitgate/internal/clierr"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(clierr.ExitCodeOf(err))
	}
}
