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

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagRepo   string
	flagConfig string
)

// NewRootCmd constructs the gitgate root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("GITGATE_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "gitgate",
		Short:         "Gitgate - commit validation for git hooks",
		Long:          "Gitgate inspects the files changed by a commit and rejects it when any changed file, or the log message, violates the formatting rules enabled for it through gitattributes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flagRepo, "repo", "C", "", "run as if started in this directory")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "configuration file (default: gitgate.yml in the repository)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of gitgate",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "gitgate version %s\n", version)
		},
	})

	cmd.AddCommand(newPreCommitCmd())
	cmd.AddCommand(newWorkTreeCmd())
	cmd.AddCommand(newCommitCmd())
	cmd.AddCommand(newPreReceiveCmd())
	cmd.AddCommand(newUpdateCmd())

	return cmd
}
