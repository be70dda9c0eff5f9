package interfaces

import (
	"context"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
)

// ReleaseClient is the subset of the GitHub releases API the publisher
// uses.
type ReleaseClient interface {
	// GetReleaseByTag returns the release for the tag, or nil if the tag
	// has no release yet.
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*model.Release, error)

	// CreateRelease creates a new non-draft, non-prerelease release and
	// returns it with the server-assigned ID filled in.
	CreateRelease(ctx context.Context, owner, repo string, rel *model.Release) (*model.Release, error)

	// DeleteRelease removes an existing release by ID.
	DeleteRelease(ctx context.Context, owner, repo string, id int64) error

	// UploadAsset attaches a local archive file to the release.
	UploadAsset(ctx context.Context, owner, repo string, releaseID int64, asset *model.Asset) error
}
