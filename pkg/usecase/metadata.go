package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
)

// extractMetadata reads PackageInfo.g through the interpreter and derives
// the release identity. A malformed ArchiveURL aborts here, before any tag
// or version is considered valid.
func (p *pipeline) extractMetadata(ctx context.Context) (*model.PackageInfo, error) {
	infoPath := filepath.Join(p.cfg.SrcDir, types.PackageInfoFile)
	if _, err := os.Stat(infoPath); err != nil {
		return nil, goerr.Wrap(err, "no package metadata file found",
			goerr.V("path", infoPath),
			goerr.T(types.ErrTagPrecondition))
	}

	fields, err := p.gap.ExtractPackageInfo(ctx, p.cfg.SrcDir)
	if err != nil {
		return nil, err
	}

	info := &model.PackageInfo{
		Name:    fields["PackageName"],
		Version: fields["Version"],
		Formats: model.ParseFormats(fields["ArchiveFormats"]),
	}
	for _, required := range []string{"PackageName", "Version", "ArchiveFormats", "ArchiveURL"} {
		if fields[required] == "" {
			return nil, goerr.New("package metadata is missing a required field",
				goerr.V("field", required), goerr.V("path", infoPath),
				goerr.T(types.ErrTagPrecondition))
		}
	}

	if err := info.ParseArchiveURL(fields["ArchiveURL"]); err != nil {
		return nil, err
	}

	if p.cfg.Repository != "" {
		info.Repository = p.cfg.Repository
	}

	return info, nil
}
