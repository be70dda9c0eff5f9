package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/archive"
)

// publish drives the release through absent -> created -> assets-uploaded.
// The tag is pushed first; querying happens before creating, and an
// existing release is only deleted when the force flag says so.
func (p *pipeline) publish(ctx context.Context, info *model.PackageInfo, tag string) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	owner, repo, err := splitRepository(info.Repository)
	if err != nil {
		return nil, err
	}

	token, err := p.resolveToken(ctx)
	if err != nil {
		return nil, err
	}
	releases := p.releases(token)

	if err := p.git.PushTag(ctx, p.cfg.SrcDir, p.cfg.Remote, tag); err != nil {
		return nil, err
	}

	existing, err := releases.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !p.cfg.Force {
			return nil, goerr.New(fmt.Sprintf("a release for tag %s already exists, pass --force to replace it", tag),
				goerr.V("tag", tag), goerr.V("release_id", existing.ID),
				goerr.T(types.ErrTagPrecondition))
		}
		logger.Info("deleting existing release", "tag", tag, "release_id", existing.ID)
		if err := releases.DeleteRelease(ctx, owner, repo, existing.ID); err != nil {
			return nil, err
		}
	}

	rel, err := releases.CreateRelease(ctx, owner, repo, &model.Release{
		TagName: tag,
		Name:    info.Version,
		Body:    "Release for " + info.Name,
	})
	if err != nil {
		return nil, err
	}

	assets, err := p.buildArchives(ctx, info)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		logger.Info("uploading asset", "name", assets[i].Name, "size", assets[i].Size)
		if err := releases.UploadAsset(ctx, owner, repo, rel.ID, &assets[i]); err != nil {
			return nil, err
		}
	}

	return rel, nil
}

// buildArchives builds one archive per requested format, in declaration
// order. Unsupported formats are skipped with a warning; a built archive
// that does not exist afterwards is fatal.
func (p *pipeline) buildArchives(ctx context.Context, info *model.PackageInfo) ([]model.Asset, error) {
	var assets []model.Asset

	for _, suffix := range info.Formats {
		format, ok := model.LookupFormat(suffix)
		if !ok {
			warn("unsupported archive format %q, skipping", suffix)
			continue
		}

		out := filepath.Join(p.cfg.TmpDir, info.AssetName(suffix))
		var err error
		switch suffix {
		case ".tar.gz":
			err = archive.TarGz(p.cfg.TmpDir, info.Basename, out)
		case ".tar.bz2":
			err = archive.TarBz2(ctx, p.exec, p.cfg.TmpDir, info.Basename, out)
		case ".zip":
			err = archive.Zip(p.cfg.TmpDir, info.Basename, out)
		}
		if err != nil {
			return nil, err
		}

		st, err := os.Stat(out)
		if err != nil {
			return nil, goerr.Wrap(err, "archive file is missing after build",
				goerr.V("path", out),
				goerr.T(types.ErrTagExternalTool))
		}

		assets = append(assets, model.Asset{
			Name:      info.AssetName(suffix),
			Path:      out,
			MediaType: format.MediaType,
			Size:      st.Size(),
		})
	}

	return assets, nil
}

func splitRepository(repository string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", goerr.New("repository must have the form owner/name",
			goerr.V("repository", repository),
			goerr.T(types.ErrTagPrecondition))
	}
	return owner, repo, nil
}
