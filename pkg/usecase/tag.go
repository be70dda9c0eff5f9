package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
)

// resolveTag checks the working tree and decides the release tag without
// mutating anything: explicit flag first, then the tag derived from the
// ArchiveURL, then v<version>. An explicit flag that disagrees with the
// metadata is fatal before any tag is created.
func (p *pipeline) resolveTag(ctx context.Context, info *model.PackageInfo) (string, error) {
	clean, err := p.git.IsClean(ctx, p.cfg.SrcDir)
	if err != nil {
		return "", err
	}
	if !clean {
		return "", goerr.New("working tree has uncommitted changes, commit or stash them first",
			goerr.V("dir", p.cfg.SrcDir),
			goerr.T(types.ErrTagPrecondition))
	}

	tag := info.Tag
	if tag == "" {
		tag = "v" + info.Version
	}
	if p.cfg.Tag != "" {
		if info.Tag != "" && p.cfg.Tag != info.Tag {
			return "", goerr.New("the given tag does not match the tag in PackageInfo.g",
				goerr.V("tag", p.cfg.Tag), goerr.V("metadata_tag", info.Tag),
				goerr.T(types.ErrTagPrecondition))
		}
		tag = p.cfg.Tag
	}
	return tag, nil
}

// ensureTag creates the tag at HEAD if needed and verifies it points at the
// current commit. Rerunning against an already tagged commit passes without
// creating anything.
func (p *pipeline) ensureTag(ctx context.Context, tag string) error {
	exists, err := p.git.TagExists(ctx, p.cfg.SrcDir, tag)
	if err != nil {
		return err
	}
	if !exists {
		if err := p.git.CreateTag(ctx, p.cfg.SrcDir, tag); err != nil {
			return err
		}
	}

	head, err := p.git.Head(ctx, p.cfg.SrcDir)
	if err != nil {
		return err
	}
	tagged, err := p.git.TagCommit(ctx, p.cfg.SrcDir, tag)
	if err != nil {
		return err
	}
	if head != tagged {
		return goerr.New("tag does not point at the current commit",
			goerr.V("tag", tag), goerr.V("tag_commit", tagged), goerr.V("head", head),
			goerr.T(types.ErrTagPrecondition))
	}
	return nil
}
