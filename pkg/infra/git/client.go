// Package git wraps the git command line client. The pipeline deliberately
// uses the real git binary instead of a reimplementation: exports must match
// what a checkout of the tag contains, byte for byte.
package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/interfaces"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/archive"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/cmdx"
)

type client struct {
	runner cmdx.Runner
}

// NewClient creates a GitClient executing the git binary through runner.
func NewClient(runner cmdx.Runner) interfaces.GitClient {
	return &client{runner: runner}
}

func (c *client) IsClean(ctx context.Context, dir string) (bool, error) {
	// Explicit porcelain check: empty output means clean, a failed
	// invocation is an error rather than a dirty tree.
	res, err := c.runner.Run(ctx, dir, "git", "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, goerr.Wrap(err, "failed to check working tree status", goerr.V("dir", dir))
	}
	return strings.TrimSpace(res.Stdout) == "", nil
}

func (c *client) Head(ctx context.Context, dir string) (string, error) {
	res, err := c.runner.Run(ctx, dir, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve HEAD", goerr.V("dir", dir))
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (c *client) TagExists(ctx context.Context, dir, tag string) (bool, error) {
	res, err := c.runner.Run(ctx, dir, "git", "tag", "--list", tag)
	if err != nil {
		return false, goerr.Wrap(err, "failed to list tags", goerr.V("tag", tag))
	}
	return strings.TrimSpace(res.Stdout) == tag, nil
}

func (c *client) TagCommit(ctx context.Context, dir, tag string) (string, error) {
	res, err := c.runner.Run(ctx, dir, "git", "rev-parse", tag+"^{commit}")
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve tag", goerr.V("tag", tag))
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (c *client) CreateTag(ctx context.Context, dir, tag string) error {
	if _, err := c.runner.Run(ctx, dir, "git", "tag", tag); err != nil {
		return goerr.Wrap(err, "failed to create tag", goerr.V("tag", tag))
	}
	return nil
}

func (c *client) PushTag(ctx context.Context, dir, remote, tag string) error {
	if _, err := c.runner.Run(ctx, dir, "git", "push", remote, "refs/tags/"+tag); err != nil {
		return goerr.Wrap(err, "failed to push tag",
			goerr.V("remote", remote), goerr.V("tag", tag))
	}
	return nil
}

func (c *client) Export(ctx context.Context, dir, tag, prefix, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return goerr.Wrap(err, "failed to create export directory", goerr.V("dest", dest))
	}

	tarFile, err := os.CreateTemp(dest, "export-*.tar")
	if err != nil {
		return goerr.Wrap(err, "failed to create export tar file")
	}
	tarFile.Close()

	// git archive runs in the source checkout; the output path must not
	// resolve relative to it.
	tarPath, err := filepath.Abs(tarFile.Name())
	if err != nil {
		return goerr.Wrap(err, "failed to resolve export tar path")
	}
	defer os.Remove(tarPath)

	// git archive only packs committed tree content, so ignored and
	// uncommitted files can never leak into a release.
	_, err = c.runner.Run(ctx, dir, "git", "archive",
		"--format=tar", "--prefix="+prefix, "-o", tarPath, tag)
	if err != nil {
		return goerr.Wrap(err, "git archive failed",
			goerr.V("tag", tag), goerr.V("prefix", prefix),
			goerr.T(types.ErrTagExternalTool))
	}

	if err := archive.ExtractTar(tarPath, dest); err != nil {
		return goerr.Wrap(err, "failed to unpack export", goerr.V("dest", dest))
	}
	return nil
}

func (c *client) ConfigGet(ctx context.Context, dir, key string) (string, error) {
	res, err := c.runner.Run(ctx, dir, "git", "config", "--get", key)
	if err != nil {
		// git config exits 1 for an unset key; that is not an error here.
		if res != nil && res.ExitCode == 1 {
			return "", nil
		}
		return "", goerr.Wrap(err, "failed to read git config", goerr.V("key", key))
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (c *client) Pull(ctx context.Context, dir string) error {
	if _, err := c.runner.Run(ctx, dir, "git", "pull", "--ff-only"); err != nil {
		return goerr.Wrap(err, "failed to fast-forward working tree",
			goerr.V("dir", dir), goerr.T(types.ErrTagPrecondition))
	}
	return nil
}

func (c *client) AddAll(ctx context.Context, dir string) error {
	if _, err := c.runner.Run(ctx, dir, "git", "add", "-A"); err != nil {
		return goerr.Wrap(err, "failed to stage changes", goerr.V("dir", dir))
	}
	return nil
}

func (c *client) Commit(ctx context.Context, dir, message string) error {
	if _, err := c.runner.Run(ctx, dir, "git", "commit", "-m", message); err != nil {
		return goerr.Wrap(err, "failed to commit", goerr.V("dir", dir))
	}
	return nil
}

func (c *client) Push(ctx context.Context, dir, remote string) error {
	if _, err := c.runner.Run(ctx, dir, "git", "push", remote); err != nil {
		return goerr.Wrap(err, "failed to push", goerr.V("remote", remote))
	}
	return nil
}
