package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
)

// updateWebsite refreshes the gh-pages working tree from the export: README
// and PackageInfo.g are copied, the doc and htm directories are replaced
// when the export has them, the site regeneration script runs, and the
// result is committed. The commit is only pushed with --push.
func (p *pipeline) updateWebsite(ctx context.Context, info *model.PackageInfo, exportDir string) error {
	logger := ctxlog.From(ctx)

	if p.cfg.WebDir == "" {
		return goerr.New("no website directory configured, pass --webdir",
			goerr.T(types.ErrTagUsage))
	}
	if !fileExists(filepath.Join(exportDir, types.PackageInfoFile)) {
		return goerr.New("no export found for this release, run the release step first",
			goerr.V("dir", exportDir),
			goerr.T(types.ErrTagPrecondition))
	}

	if err := p.git.Pull(ctx, p.cfg.WebDir); err != nil {
		return err
	}

	if err := copyFile(
		filepath.Join(exportDir, types.PackageInfoFile),
		filepath.Join(p.cfg.WebDir, types.PackageInfoFile)); err != nil {
		return err
	}
	if readme := findReadme(exportDir); readme != "" {
		if err := copyFile(
			filepath.Join(exportDir, readme),
			filepath.Join(p.cfg.WebDir, readme)); err != nil {
			return err
		}
	}

	// The archival doc build leaves chap0.html behind; its presence is the
	// signal that there is documentation worth publishing.
	if fileExists(filepath.Join(exportDir, "doc", "chap0.html")) {
		if err := replaceDir(
			filepath.Join(exportDir, "doc"),
			filepath.Join(p.cfg.WebDir, "doc")); err != nil {
			return err
		}
	}
	if fileExists(filepath.Join(exportDir, "htm")) {
		if err := replaceDir(
			filepath.Join(exportDir, "htm"),
			filepath.Join(p.cfg.WebDir, "htm")); err != nil {
			return err
		}
	}

	if err := p.gap.RunScript(ctx, p.cfg.WebDir, nil, types.WebsiteUpdateFile); err != nil {
		return err
	}

	if err := p.git.AddAll(ctx, p.cfg.WebDir); err != nil {
		return err
	}
	message := fmt.Sprintf("Update website for %s %s", info.Name, info.Version)
	if err := p.git.Commit(ctx, p.cfg.WebDir, message); err != nil {
		return err
	}

	if !p.cfg.Push {
		fmt.Printf("The website commit was not pushed; run 'git push' in %s to publish it.\n", p.cfg.WebDir)
		return nil
	}
	if err := p.git.Push(ctx, p.cfg.WebDir, p.cfg.Remote); err != nil {
		return err
	}
	logger.Info("website updated", "dir", p.cfg.WebDir)
	return nil
}

func findReadme(dir string) string {
	for _, name := range []string{"README.md", "README.rst", "README.txt", "README"} {
		if fileExists(filepath.Join(dir, name)) {
			return name
		}
	}
	return ""
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open source file", goerr.V("path", src))
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return goerr.Wrap(err, "failed to stat source file", goerr.V("path", src))
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file", goerr.V("path", dst))
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return goerr.Wrap(err, "failed to copy file", goerr.V("src", src), goerr.V("dst", dst))
	}
	return out.Close()
}

// replaceDir deletes dst and recreates it as a copy of src.
func replaceDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return goerr.Wrap(err, "failed to remove directory", goerr.V("path", dst))
	}
	return copyDir(src, dst)
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return goerr.Wrap(err, "failed to read directory", goerr.V("path", src))
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V("path", dst))
	}
	for _, e := range entries {
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())
		if e.IsDir() {
			if err := copyDir(s, d); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(s, d); err != nil {
			return err
		}
	}
	return nil
}
