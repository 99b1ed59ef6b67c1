package commands

import (
	"context"
	"path/filepath"

	"github.com/bartekus/gitgate/cmd/gitgate/internal/clierr"
	"github.com/bartekus/gitgate/internal/change"
	"github.com/bartekus/gitgate/internal/check"
	"github.com/bartekus/gitgate/internal/config"
	"github.com/bartekus/gitgate/internal/evaluate"
	"github.com/bartekus/gitgate/internal/git"
)

// env bundles what every hook entry point needs: the git runner, the
// capability probe result, the loaded configuration, and the diagnostic
// reporter.
type env struct {
	runner *git.Runner
	caps   git.Capabilities
	cfg    *config.File
	rep    check.Reporter
}

func newEnv(ctx context.Context) (*env, error) {
	runner := git.NewRunner(flagRepo)

	caps, err := runner.Capabilities(ctx)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeFatal, "probing git", err)
	}

	path := flagConfig
	if path == "" {
		path = filepath.Join(flagRepo, config.DefaultFileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeFatal, "loading configuration", err)
	}

	return &env{
		runner: runner,
		caps:   caps,
		cfg:    cfg,
		rep:    check.Stderr(),
	}, nil
}

// evaluateSource runs one evaluation pass over the source produced by
// makeSource and maps its outcome to the hook exit contract. The source is
// always closed, whichever way evaluation exits.
func (e *env) evaluateSource(ctx context.Context, profile string, makeSource func(change.Options) change.Source) error {
	ev := evaluate.New(e.cfg.Build(profile, e.rep))
	src := makeSource(change.Options{WantOldContent: ev.NeedsOldContent()})
	defer src.Close()

	ok, err := ev.Evaluate(ctx, src)
	if err != nil {
		return clierr.Wrap(clierr.CodeFatal, "evaluation aborted", err)
	}
	if !ok {
		return clierr.New(clierr.CodeViolation, "checks failed")
	}
	return nil
}
