package config

import (
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/laurentbartholdi/ReleaseTools/pkg/usecase"
)

// Release holds the pipeline configuration flags.
type Release struct {
	SrcDir     string
	TmpDir     string
	WebDir     string
	Tag        string
	Repository string
	Token      string
	Remote     string
	GAP        string
	Webhook    string

	Push    bool
	NoPush  bool
	Force   bool
	NoForce bool

	OnlyTarball bool
}

// Flags returns CLI flags for the pipeline configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "srcdir",
			Usage:       "Package checkout directory",
			Value:       ".",
			Destination: &c.SrcDir,
			Sources:     cli.EnvVars("RT_SRCDIR"),
		},
		&cli.StringFlag{
			Name:        "tmpdir",
			Usage:       "Work directory for exports, archives and logs (default: <srcdir>/tmp)",
			Destination: &c.TmpDir,
			Sources:     cli.EnvVars("RT_TMPDIR"),
		},
		&cli.StringFlag{
			Name:        "webdir",
			Usage:       "Website working tree (gh-pages checkout)",
			Destination: &c.WebDir,
			Sources:     cli.EnvVars("RT_WEBDIR"),
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Release tag (default: tag from PackageInfo.g, else v<version>)",
			Destination: &c.Tag,
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "GitHub repository as owner/name (default: derived from PackageInfo.g)",
			Destination: &c.Repository,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "GitHub API token (default: github.token git config, else ~/" + types.TokenFile + ")",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RT_GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "remote",
			Usage:       "Git remote to push the tag to",
			Value:       types.DefaultRemote,
			Destination: &c.Remote,
		},
		&cli.StringFlag{
			Name:        "gap",
			Usage:       "GAP interpreter executable",
			Destination: &c.GAP,
			Sources:     cli.EnvVars("RT_GAP"),
		},
		&cli.StringFlag{
			Name:        "announce",
			Usage:       "Slack incoming webhook URL to announce the release to",
			Destination: &c.Webhook,
			Sources:     cli.EnvVars("RT_ANNOUNCE_WEBHOOK"),
		},
		&cli.BoolFlag{
			Name:        "push",
			Usage:       "Push the website commit",
			Destination: &c.Push,
		},
		&cli.BoolFlag{
			Name:        "no-push",
			Usage:       "Do not push the website commit (overrides --push)",
			Destination: &c.NoPush,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Replace an existing release for the same tag",
			Destination: &c.Force,
		},
		&cli.BoolFlag{
			Name:        "no-force",
			Usage:       "Never replace an existing release (overrides --force)",
			Destination: &c.NoForce,
		},
		&cli.BoolFlag{
			Name:        "only-tarball",
			Usage:       "Stop after building the archives, do not publish",
			Destination: &c.OnlyTarball,
		},
	}
}

// Resolve merges the flags with the defaults file into the pipeline
// configuration. Flags win; the negating flags win over everything.
func (c *Release) Resolve(file *File) usecase.Config {
	cfg := usecase.Config{
		SrcDir:      c.SrcDir,
		TmpDir:      c.TmpDir,
		WebDir:      c.WebDir,
		Tag:         c.Tag,
		Repository:  c.Repository,
		Token:       c.Token,
		Remote:      c.Remote,
		Push:        (file.Push || c.Push) && !c.NoPush,
		Force:       c.Force && !c.NoForce,
		OnlyTarball: c.OnlyTarball,
	}

	if cfg.TmpDir == "" {
		cfg.TmpDir = filepath.Join(cfg.SrcDir, "tmp")
	}
	if cfg.WebDir == "" {
		cfg.WebDir = file.WebDir
	}
	if cfg.Remote == "" {
		cfg.Remote = file.Remote
	}
	if cfg.Remote == "" {
		cfg.Remote = types.DefaultRemote
	}

	return cfg
}

// GAPExecutable returns the interpreter binary to use, flag over file.
func (c *Release) GAPExecutable(file *File) string {
	if c.GAP != "" {
		return c.GAP
	}
	return file.GAP
}

// AnnounceWebhook returns the webhook URL to announce to, flag over file.
func (c *Release) AnnounceWebhook(file *File) string {
	if c.Webhook != "" {
		return c.Webhook
	}
	return file.AnnounceWebhook
}
