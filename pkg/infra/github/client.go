// Package github implements the release publishing calls against the GitHub
// REST API.
package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/interfaces"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
}

// Option configures the client.
type Option func(*client)

// WithBaseURL points the client at a different API endpoint. Used by tests.
func WithBaseURL(apiURL, uploadURL string) Option {
	return func(c *client) {
		if u, err := c.githubClient.BaseURL.Parse(apiURL); err == nil {
			c.githubClient.BaseURL = u
		}
		if u, err := c.githubClient.UploadURL.Parse(uploadURL); err == nil {
			c.githubClient.UploadURL = u
		}
	}
}

// NewClient creates a ReleaseClient authenticated with the given token.
func NewClient(token string, opts ...Option) interfaces.ReleaseClient {
	c := &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*model.Release, error) {
	rel, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		// 404 is the expected "no release yet" answer, not a failure.
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to query release",
			goerr.V("repository", owner+"/"+repo), goerr.V("tag", tag),
			goerr.T(types.ErrTagRemoteAPI))
	}

	if rel.GetID() == 0 {
		return nil, goerr.New("release response carries no id",
			goerr.V("repository", owner+"/"+repo), goerr.V("tag", tag),
			goerr.T(types.ErrTagRemoteAPI))
	}

	return &model.Release{
		ID:      rel.GetID(),
		TagName: rel.GetTagName(),
		Name:    rel.GetName(),
		Body:    rel.GetBody(),
		URL:     rel.GetHTMLURL(),
	}, nil
}

func (c *client) CreateRelease(ctx context.Context, owner, repo string, rel *model.Release) (*model.Release, error) {
	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:    github.Ptr(rel.TagName),
		Name:       github.Ptr(rel.Name),
		Body:       github.Ptr(rel.Body),
		Draft:      github.Ptr(false),
		Prerelease: github.Ptr(false),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("repository", owner+"/"+repo), goerr.V("tag", rel.TagName),
			goerr.T(types.ErrTagRemoteAPI))
	}

	// The API reported success; a missing id means the response is
	// malformed and nothing can be uploaded to it.
	if created.GetID() == 0 {
		return nil, goerr.New("created release carries no id",
			goerr.V("repository", owner+"/"+repo), goerr.V("tag", rel.TagName),
			goerr.T(types.ErrTagRemoteAPI))
	}

	return &model.Release{
		ID:      created.GetID(),
		TagName: created.GetTagName(),
		Name:    created.GetName(),
		Body:    created.GetBody(),
		URL:     created.GetHTMLURL(),
	}, nil
}

func (c *client) DeleteRelease(ctx context.Context, owner, repo string, id int64) error {
	if _, err := c.githubClient.Repositories.DeleteRelease(ctx, owner, repo, id); err != nil {
		return goerr.Wrap(err, "failed to delete release",
			goerr.V("repository", owner+"/"+repo), goerr.V("release_id", id),
			goerr.T(types.ErrTagRemoteAPI))
	}
	return nil
}

func (c *client) UploadAsset(ctx context.Context, owner, repo string, releaseID int64, asset *model.Asset) error {
	f, err := os.Open(asset.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open archive for upload",
			goerr.V("path", asset.Path),
			goerr.T(types.ErrTagPrecondition))
	}
	defer f.Close()

	_, _, err = c.githubClient.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, &github.UploadOptions{
		Name:      asset.Name,
		MediaType: asset.MediaType,
	}, f)
	if err != nil {
		return goerr.Wrap(err, "failed to upload release asset",
			goerr.V("repository", owner+"/"+repo),
			goerr.V("asset", asset.Name),
			goerr.T(types.ErrTagRemoteAPI))
	}
	return nil
}
