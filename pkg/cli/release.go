package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/laurentbartholdi/ReleaseTools/pkg/cli/config"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/interfaces"
	"github.com/laurentbartholdi/ReleaseTools/pkg/infra/gap"
	gitinfra "github.com/laurentbartholdi/ReleaseTools/pkg/infra/git"
	githubinfra "github.com/laurentbartholdi/ReleaseTools/pkg/infra/github"
	slackinfra "github.com/laurentbartholdi/ReleaseTools/pkg/infra/slack"
	"github.com/laurentbartholdi/ReleaseTools/pkg/usecase"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/cmdx"
)

func cmdRelease() *cli.Command {
	var releaseCfg config.Release

	return &cli.Command{
		Name:    "release",
		Aliases: []string{"r"},
		Usage:   "Run the full release pipeline",
		Flags:   releaseCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, ctx, err := buildPipeline(ctx, &releaseCfg)
			if err != nil {
				return err
			}
			return uc.Run(ctx)
		},
	}
}

// buildPipeline wires the use case from the flags and the defaults file,
// and stamps the context logger with a per-run id that also names the
// interpreter log file.
func buildPipeline(ctx context.Context, releaseCfg *config.Release) (interfaces.ReleaseUseCase, context.Context, error) {
	fileCfg, err := config.LoadFile(config.DefaultFilePath())
	if err != nil {
		return nil, ctx, err
	}

	cfg := releaseCfg.Resolve(fileCfg)

	// The pipeline mixes process-relative file access with subprocesses
	// running in other directories; absolute paths keep both consistent.
	for _, dir := range []*string{&cfg.SrcDir, &cfg.TmpDir, &cfg.WebDir} {
		if *dir == "" {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, ctx, goerr.Wrap(err, "failed to resolve directory", goerr.V("dir", *dir))
		}
		*dir = abs
	}

	runID := uuid.NewString()[:8]
	logger := ctxlog.From(ctx).With("run_id", runID)
	ctx = ctxlog.With(ctx, logger)

	if err := os.MkdirAll(cfg.TmpDir, 0755); err != nil {
		return nil, ctx, goerr.Wrap(err, "failed to create work directory",
			goerr.V("dir", cfg.TmpDir))
	}

	runner := cmdx.New()
	gitClient := gitinfra.NewClient(runner)
	gapRunner := gap.NewRunner(runner,
		filepath.Join(cfg.TmpDir, fmt.Sprintf("gap-%s.log", runID)),
		gap.WithExecutable(releaseCfg.GAPExecutable(fileCfg)))

	factory := func(token string) interfaces.ReleaseClient {
		return githubinfra.NewClient(token)
	}

	var notifier interfaces.Notifier
	if webhook := releaseCfg.AnnounceWebhook(fileCfg); webhook != "" {
		notifier = slackinfra.NewNotifier(webhook)
	}

	return usecase.NewPipeline(cfg, runner, gitClient, gapRunner, factory, notifier), ctx, nil
}
