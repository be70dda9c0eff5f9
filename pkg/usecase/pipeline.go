// Package usecase implements the release pipeline: metadata extraction, tag
// validation, documentation build, tree export, archive publishing and the
// website update. Every step is fatal on failure; there is no retry and no
// partial-success mode.
package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/interfaces"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/cmdx"
)

// Config carries the resolved flag and defaults-file values for one run.
type Config struct {
	SrcDir string // package checkout (default ".")
	TmpDir string // work directory for exports, archives and logs
	WebDir string // website checkout (gh-pages working tree)

	Tag        string // explicit tag override, normally empty
	Repository string // explicit "owner/repo" override, normally empty
	Token      string // explicit API token override, normally empty
	Remote     string // git remote for tag pushes

	Push        bool // push the website commit
	Force       bool // overwrite an existing release
	OnlyTarball bool // stop after building archives
}

// ReleaseClientFactory builds a ReleaseClient once the token is known. The
// token is resolved mid-run (flag, then repo config, then token file), so
// the client cannot exist up front.
type ReleaseClientFactory func(token string) interfaces.ReleaseClient

type pipeline struct {
	cfg      Config
	exec     cmdx.Runner
	git      interfaces.GitClient
	gap      interfaces.GAPRunner
	releases ReleaseClientFactory
	notifier interfaces.Notifier // optional, may be nil
}

// NewPipeline creates the release use case.
func NewPipeline(
	cfg Config,
	exec cmdx.Runner,
	git interfaces.GitClient,
	gap interfaces.GAPRunner,
	releases ReleaseClientFactory,
	notifier interfaces.Notifier,
) interfaces.ReleaseUseCase {
	return &pipeline{
		cfg:      cfg,
		exec:     exec,
		git:      git,
		gap:      gap,
		releases: releases,
		notifier: notifier,
	}
}

// runScript executes a build helper script in dir.
func (p *pipeline) runScript(ctx context.Context, dir, script string) (*cmdx.Result, error) {
	return p.exec.Run(ctx, dir, "sh", "-c", script)
}

// Run executes the full pipeline in order. Each step gates the next.
func (p *pipeline) Run(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	// The website step needs a working tree; reject the invocation up
	// front rather than after the tag and release are already out.
	if !p.cfg.OnlyTarball && p.cfg.WebDir == "" {
		return goerr.New("no website directory configured, pass --webdir",
			goerr.T(types.ErrTagUsage))
	}

	info, err := p.extractMetadata(ctx)
	if err != nil {
		return err
	}
	logger.Info("extracted package metadata",
		"package", info.Name, "version", info.Version,
		"repository", info.Repository, "formats", info.Formats)

	tag, err := p.resolveTag(ctx, info)
	if err != nil {
		return err
	}

	// Sanity doc build before anything is tagged; a doc build that dirties
	// the tree means metadata and generated files have drifted.
	if err := p.buildDocs(ctx, p.cfg.SrcDir, []string{".."}, true); err != nil {
		return err
	}

	if err := p.ensureTag(ctx, tag); err != nil {
		return err
	}
	logger.Info("tag verified", "tag", tag)

	exportDir, err := p.export(ctx, info, tag)
	if err != nil {
		return err
	}
	logger.Info("exported release tree", "dir", exportDir)

	if err := p.gap.ValidatePackageInfo(ctx, exportDir); err != nil {
		return err
	}

	if p.cfg.OnlyTarball {
		assets, err := p.buildArchives(ctx, info)
		if err != nil {
			return err
		}
		for _, a := range assets {
			fmt.Println(a.Path)
		}
		return nil
	}

	rel, err := p.publish(ctx, info, tag)
	if err != nil {
		return err
	}
	logger.Info("release published", "tag", tag, "release_id", rel.ID)

	if err := p.updateWebsite(ctx, info, exportDir); err != nil {
		return err
	}

	p.announce(ctx, info, rel)
	return nil
}

// Inspect runs only the metadata extractor.
func (p *pipeline) Inspect(ctx context.Context) (*model.PackageInfo, error) {
	return p.extractMetadata(ctx)
}

// UpdateSite runs only the website update, against the export a previous
// release run left in the work directory.
func (p *pipeline) UpdateSite(ctx context.Context) error {
	info, err := p.extractMetadata(ctx)
	if err != nil {
		return err
	}
	exportDir, err := p.exportDirFor(info)
	if err != nil {
		return err
	}
	return p.updateWebsite(ctx, info, exportDir)
}

func (p *pipeline) announce(ctx context.Context, info *model.PackageInfo, rel *model.Release) {
	if p.notifier == nil {
		return
	}
	text := fmt.Sprintf("%s %s has been released: %s", info.Name, info.Version, rel.URL)
	if err := p.notifier.Announce(ctx, text); err != nil {
		// the release already exists; a failed announcement must not fail the run
		warn("could not announce the release: %v", err)
	}
}

var yellow = color.New(color.FgYellow)

// warn prints a non-fatal advisory. Warnings never change control flow
// beyond skipping the step they describe.
func warn(format string, args ...any) {
	yellow.Fprintf(os.Stderr, "WARNING: "+format+"\n", args...)
}
