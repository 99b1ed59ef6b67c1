package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/gitgate/cmd/gitgate/internal/clierr"
	"github.com/bartekus/gitgate/internal/change"
	"github.com/bartekus/gitgate/internal/git"
)

// refUpdate is one "old new ref" triple as delivered to the pre-receive
// hook on stdin, or to the update hook as arguments.
type refUpdate struct {
	Old string
	New string
	Ref string
}

func newPreReceiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pre-receive",
		Short: "Validate pushed commits (the pre-receive hook entry point)",
		Long: `Read "old new ref" triples from stdin, enumerate the commits each push
introduces, and validate every one of them against the pre-receive profile.
All new commits are checked even after one fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := readRefUpdates(cmd.InOrStdin())
			if err != nil {
				return clierr.Wrap(clierr.CodeFatal, "reading ref updates", err)
			}
			return checkRefUpdates(cmd.Context(), updates)
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <ref> <old> <new>",
		Short: "Validate pushed commits (the update hook entry point)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := refUpdate{Ref: args[0], Old: args[1], New: args[2]}
			return checkRefUpdates(cmd.Context(), []refUpdate{u})
		},
	}
}

func readRefUpdates(r io.Reader) ([]refUpdate, error) {
	var updates []refUpdate
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed ref update line %q", line)
		}
		updates = append(updates, refUpdate{Old: fields[0], New: fields[1], Ref: fields[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return updates, nil
}

// checkRefUpdates evaluates every commit the updates introduce, oldest
// first. Commits reachable from more than one updated ref are evaluated
// once. A fatal error aborts immediately; violations are accumulated so a
// push reports every bad commit in one rejection.
func checkRefUpdates(ctx context.Context, updates []refUpdate) error {
	env, err := newEnv(ctx)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	violations := false
	for _, u := range updates {
		shas, err := newCommits(ctx, env.runner, u)
		if err != nil {
			return clierr.Wrap(clierr.CodeFatal, "enumerating new commits", err)
		}
		for _, sha := range shas {
			if seen[sha] {
				continue
			}
			seen[sha] = true

			err := env.evaluateSource(ctx, "pre-receive", func(opts change.Options) change.Source {
				return change.NewCommit(env.runner, env.caps, sha, opts)
			})
			var ec clierr.ExitCoder
			switch {
			case err == nil:
			case errors.As(err, &ec) && ec.ExitCode() == clierr.CodeViolation:
				violations = true
			default:
				return err
			}
		}
	}
	if violations {
		return clierr.New(clierr.CodeViolation, "checks failed")
	}
	return nil
}

// newCommits lists the commits an update introduces, in parent-first order.
// A ref deletion introduces none; a ref creation counts everything not
// already reachable from an existing ref.
func newCommits(ctx context.Context, runner *git.Runner, u refUpdate) ([]string, error) {
	if u.New == git.ZeroOID {
		return nil, nil
	}
	if u.Old == git.ZeroOID {
		return runner.RevList(ctx, "--reverse", u.New, "--not", "--all")
	}
	return runner.RevList(ctx, "--reverse", u.Old+".."+u.New)
}
