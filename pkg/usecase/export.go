package usecase

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/archive"
)

// export produces a clean snapshot of the tagged tree under the work
// directory, prefixed with <basename>/, then prepares it for archiving:
// version control metadata is stripped, the build files are regenerated,
// the documentation is rebuilt in place and permissions are normalized.
func (p *pipeline) export(ctx context.Context, info *model.PackageInfo, tag string) (string, error) {
	exportDir, err := p.exportDirFor(info)
	if err != nil {
		return "", err
	}

	// A stale export from an earlier run must not bleed into this one.
	if err := os.RemoveAll(exportDir); err != nil {
		return "", goerr.Wrap(err, "failed to remove stale export", goerr.V("dir", exportDir))
	}

	if err := p.git.Export(ctx, p.cfg.SrcDir, tag, info.Basename+"/", p.cfg.TmpDir); err != nil {
		return "", err
	}

	if err := archive.StripMetadata(exportDir); err != nil {
		return "", err
	}

	if fileExists(filepath.Join(exportDir, "autogen.sh")) {
		if _, err := p.runScript(ctx, exportDir, "./autogen.sh"); err != nil {
			return "", goerr.Wrap(err, "autogen.sh failed", goerr.V("dir", exportDir),
				goerr.T(types.ErrTagExternalTool))
		}
		if err := os.RemoveAll(filepath.Join(exportDir, "autom4te.cache")); err != nil {
			return "", goerr.Wrap(err, "failed to remove autom4te.cache")
		}
	}

	// The export sits two levels below the package checkout, so the root
	// path for the archival doc build moves up accordingly.
	if err := p.buildDocs(ctx, exportDir, []string{"../.."}, false); err != nil {
		return "", err
	}

	if err := normalizePermissions(exportDir); err != nil {
		return "", err
	}

	return exportDir, nil
}

// exportDirFor returns the snapshot directory for the package, below the
// work directory.
func (p *pipeline) exportDirFor(info *model.PackageInfo) (string, error) {
	if info.Basename == "" {
		return "", goerr.New("package metadata yields no archive basename",
			goerr.V("package", info.Name),
			goerr.T(types.ErrTagPrecondition))
	}
	return filepath.Join(p.cfg.TmpDir, info.Basename), nil
}

// normalizePermissions makes every exported file world-readable and every
// directory world-traversable, the equivalent of chmod -R a+rX.
func normalizePermissions(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		perm := info.Mode().Perm() | 0444
		if d.IsDir() || info.Mode().Perm()&0111 != 0 {
			perm |= 0111
		}
		if perm != info.Mode().Perm() {
			return os.Chmod(path, perm)
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to normalize permissions", goerr.V("dir", dir))
	}
	return nil
}
