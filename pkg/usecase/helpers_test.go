package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/interfaces"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/cmdx"
)

// fakeGit is a scriptable GitClient recording every call in order.
type fakeGit struct {
	calls []string

	clean      bool
	cleanErr   error
	head       string
	tags       map[string]string // tag -> commit
	configVals map[string]string
	exportFunc func(dir, tag, prefix, dest string) error
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		clean:      true,
		head:       "abc123",
		tags:       map[string]string{},
		configVals: map[string]string{},
	}
}

func (g *fakeGit) record(call string) { g.calls = append(g.calls, call) }

func (g *fakeGit) IsClean(ctx context.Context, dir string) (bool, error) {
	g.record("IsClean")
	return g.clean, g.cleanErr
}

func (g *fakeGit) Head(ctx context.Context, dir string) (string, error) {
	g.record("Head")
	return g.head, nil
}

func (g *fakeGit) TagExists(ctx context.Context, dir, tag string) (bool, error) {
	g.record("TagExists:" + tag)
	_, ok := g.tags[tag]
	return ok, nil
}

func (g *fakeGit) TagCommit(ctx context.Context, dir, tag string) (string, error) {
	g.record("TagCommit:" + tag)
	return g.tags[tag], nil
}

func (g *fakeGit) CreateTag(ctx context.Context, dir, tag string) error {
	g.record("CreateTag:" + tag)
	g.tags[tag] = g.head
	return nil
}

func (g *fakeGit) PushTag(ctx context.Context, dir, remote, tag string) error {
	g.record("PushTag:" + tag)
	return nil
}

func (g *fakeGit) Export(ctx context.Context, dir, tag, prefix, dest string) error {
	g.record("Export:" + tag)
	if g.exportFunc != nil {
		return g.exportFunc(dir, tag, prefix, dest)
	}
	return os.MkdirAll(filepath.Join(dest, prefix), 0755)
}

func (g *fakeGit) ConfigGet(ctx context.Context, dir, key string) (string, error) {
	g.record("ConfigGet:" + key)
	return g.configVals[key], nil
}

func (g *fakeGit) Pull(ctx context.Context, dir string) error {
	g.record("Pull")
	return nil
}

func (g *fakeGit) AddAll(ctx context.Context, dir string) error {
	g.record("AddAll")
	return nil
}

func (g *fakeGit) Commit(ctx context.Context, dir, message string) error {
	g.record("Commit:" + message)
	return nil
}

func (g *fakeGit) Push(ctx context.Context, dir, remote string) error {
	g.record("Push")
	return nil
}

// fakeGAP is a scriptable GAPRunner.
type fakeGAP struct {
	calls  []string
	fields map[string]string

	validateErr error
	scriptErr   error
}

func newFakeGAP() *fakeGAP {
	return &fakeGAP{
		fields: map[string]string{
			"PackageName":    "pkg",
			"Version":        "1.2.3",
			"ArchiveFormats": ".tar.gz .zip",
			"ArchiveURL":     "https://github.com/user/pkg/releases/download/v1.2.3/pkg-1.2.3",
		},
	}
}

func (g *fakeGAP) ExtractPackageInfo(ctx context.Context, dir string) (map[string]string, error) {
	g.calls = append(g.calls, "ExtractPackageInfo")
	return g.fields, nil
}

func (g *fakeGAP) ValidatePackageInfo(ctx context.Context, dir string) error {
	g.calls = append(g.calls, "ValidatePackageInfo")
	return g.validateErr
}

func (g *fakeGAP) RunScript(ctx context.Context, dir string, roots []string, script string) error {
	g.calls = append(g.calls, "RunScript:"+script)
	return g.scriptErr
}

func (g *fakeGAP) LogPath() string { return "" }

// fakeReleases is a scriptable ReleaseClient recording calls.
type fakeReleases struct {
	calls    []string
	existing *model.Release
	queryErr error
	nextID   int64
	uploads  []model.Asset
}

func (r *fakeReleases) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*model.Release, error) {
	r.calls = append(r.calls, "Get:"+tag)
	return r.existing, r.queryErr
}

func (r *fakeReleases) CreateRelease(ctx context.Context, owner, repo string, rel *model.Release) (*model.Release, error) {
	r.calls = append(r.calls, "Create:"+rel.TagName)
	created := *rel
	if r.nextID == 0 {
		r.nextID = 42
	}
	created.ID = r.nextID
	created.URL = "https://github.com/" + owner + "/" + repo + "/releases/tag/" + rel.TagName
	return &created, nil
}

func (r *fakeReleases) DeleteRelease(ctx context.Context, owner, repo string, id int64) error {
	r.calls = append(r.calls, "Delete")
	return nil
}

func (r *fakeReleases) UploadAsset(ctx context.Context, owner, repo string, releaseID int64, asset *model.Asset) error {
	r.calls = append(r.calls, "Upload:"+asset.Name)
	r.uploads = append(r.uploads, *asset)
	return nil
}

// fakeNotifier records announcements.
type fakeNotifier struct {
	messages []string
	err      error
}

func (n *fakeNotifier) Announce(ctx context.Context, text string) error {
	n.messages = append(n.messages, text)
	return n.err
}

// newTestPipeline builds a pipeline over fakes with temp directories.
func newTestPipeline(t *testing.T, git *fakeGit, gap *fakeGAP, releases *fakeReleases) *pipeline {
	t.Helper()
	src := t.TempDir()
	tmp := t.TempDir()
	web := t.TempDir()

	p := &pipeline{
		cfg: Config{
			SrcDir: src,
			TmpDir: tmp,
			WebDir: web,
			Remote: "origin",
			Token:  "test-token",
		},
		exec: cmdx.New(),
		git:  git,
		gap:  gap,
	}
	if releases != nil {
		p.releases = func(token string) interfaces.ReleaseClient { return releases }
	}
	return p
}
