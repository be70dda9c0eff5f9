package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
)

// buildDocs builds the package documentation in dir. makedoc.g is
// preferred, doc/make_doc is the legacy fallback, and having neither is
// only a warning. With checkClean set the working tree is re-verified
// afterwards, so generated files that should have been committed are caught
// before the tag is made.
func (p *pipeline) buildDocs(ctx context.Context, dir string, roots []string, checkClean bool) error {
	switch {
	case fileExists(filepath.Join(dir, types.MakeDocFile)):
		if err := p.gap.RunScript(ctx, dir, roots, types.MakeDocFile); err != nil {
			return err
		}

	case fileExists(filepath.Join(dir, types.LegacyMakeDocScript)):
		if _, err := p.runScript(ctx, filepath.Join(dir, "doc"), "./make_doc"); err != nil {
			return goerr.Wrap(err, "documentation build script failed",
				goerr.V("script", types.LegacyMakeDocScript),
				goerr.T(types.ErrTagExternalTool))
		}

	default:
		warn("no %s or %s found, skipping the documentation build",
			types.MakeDocFile, types.LegacyMakeDocScript)
		return nil
	}

	if checkClean {
		clean, err := p.git.IsClean(ctx, dir)
		if err != nil {
			return err
		}
		if !clean {
			return goerr.New("building the documentation changed tracked files, commit them first",
				goerr.V("dir", dir),
				goerr.T(types.ErrTagPrecondition))
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
