package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/gitgate/internal/change"
)

func newPreCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pre-commit [path...]",
		Short: "Validate the pending index (the pre-commit hook entry point)",
		Long: `Validate the changes staged in the index against the pre-commit profile.

With explicit paths, validates the current content of those files as pure
additions instead; useful for checking files before they are added.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd.Context())
			if err != nil {
				return err
			}
			return env.evaluateSource(cmd.Context(), "pre-commit", func(opts change.Options) change.Source {
				if len(args) > 0 {
					return change.NewFileList(env.runner, args)
				}
				return change.NewIndex(env.runner, env.caps, opts)
			})
		},
	}
}

func newWorkTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worktree",
		Short: "Validate the working tree against HEAD",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd.Context())
			if err != nil {
				return err
			}
			return env.evaluateSource(cmd.Context(), "pre-commit", func(opts change.Options) change.Source {
				return change.NewWorkTree(env.runner, opts)
			})
		},
	}
}

func newCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commit <sha>",
		Short: "Validate a single commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd.Context())
			if err != nil {
				return err
			}
			return env.evaluateSource(cmd.Context(), "pre-receive", func(opts change.Options) change.Source {
				return change.NewCommit(env.runner, env.caps, args[0], opts)
			})
		},
	}
}
