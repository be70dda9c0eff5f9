package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
)

func testPackageInfo() *model.PackageInfo {
	return &model.PackageInfo{
		Name:       "pkg",
		Version:    "1.2.3",
		Formats:    []string{".tar.gz", ".zip"},
		Repository: "user/pkg",
		Tag:        "v1.2.3",
		Basename:   "pkg-1.2.3",
	}
}

// seedExport creates a minimal export tree under the work directory.
func seedExport(t *testing.T, p *pipeline, basename string) string {
	t.Helper()
	dir := filepath.Join(p.cfg.TmpDir, basename)
	gt.NoError(t, os.MkdirAll(filepath.Join(dir, "doc"), 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "PackageInfo.g"), []byte("SetPackageInfo(rec());\n"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# pkg\n"), 0644))
	return dir
}

func TestPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("absent release: one query, one create, assets in order", func(t *testing.T) {
		git := newFakeGit()
		releases := &fakeReleases{}
		p := newTestPipeline(t, git, newFakeGAP(), releases)
		info := testPackageInfo()
		seedExport(t, p, info.Basename)

		rel, err := p.publish(ctx, info, "v1.2.3")
		gt.NoError(t, err)
		gt.Value(t, rel).NotNil()
		gt.Number(t, rel.ID).Greater(0)

		gt.Equal(t, releases.calls, []string{
			"Get:v1.2.3",
			"Create:v1.2.3",
			"Upload:pkg-1.2.3.tar.gz",
			"Upload:pkg-1.2.3.zip",
		})
		gt.Equal(t, len(releases.uploads), 2)
		gt.Equal(t, releases.uploads[0].MediaType, "application/x-gzip")
		gt.Equal(t, releases.uploads[1].MediaType, "application/zip")
	})

	t.Run("tag is pushed before the release is created", func(t *testing.T) {
		git := newFakeGit()
		releases := &fakeReleases{}
		p := newTestPipeline(t, git, newFakeGAP(), releases)
		info := testPackageInfo()
		seedExport(t, p, info.Basename)

		_, err := p.publish(ctx, info, "v1.2.3")
		gt.NoError(t, err)

		pushed := false
		for _, call := range git.calls {
			if call == "PushTag:v1.2.3" {
				pushed = true
			}
		}
		gt.True(t, pushed)
	})

	t.Run("existing release without force is fatal, nothing is created or deleted", func(t *testing.T) {
		releases := &fakeReleases{existing: &model.Release{ID: 7, TagName: "v1.2.3"}}
		p := newTestPipeline(t, newFakeGit(), newFakeGAP(), releases)
		info := testPackageInfo()
		seedExport(t, p, info.Basename)

		_, err := p.publish(ctx, info, "v1.2.3")
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("--force")
		gt.String(t, err.Error()).Contains("v1.2.3")
		gt.Equal(t, releases.calls, []string{"Get:v1.2.3"})

		// No archive may have been built before the failure.
		_, statErr := os.Stat(filepath.Join(p.cfg.TmpDir, "pkg-1.2.3.tar.gz"))
		gt.Error(t, statErr)
	})

	t.Run("existing release with force is deleted then recreated", func(t *testing.T) {
		releases := &fakeReleases{existing: &model.Release{ID: 7, TagName: "v1.2.3"}}
		p := newTestPipeline(t, newFakeGit(), newFakeGAP(), releases)
		p.cfg.Force = true
		info := testPackageInfo()
		seedExport(t, p, info.Basename)

		_, err := p.publish(ctx, info, "v1.2.3")
		gt.NoError(t, err)
		gt.Equal(t, releases.calls[0], "Get:v1.2.3")
		gt.Equal(t, releases.calls[1], "Delete")
		gt.Equal(t, releases.calls[2], "Create:v1.2.3")
	})

	t.Run("malformed repository identifier", func(t *testing.T) {
		p := newTestPipeline(t, newFakeGit(), newFakeGAP(), &fakeReleases{})
		info := testPackageInfo()
		info.Repository = "nonsense"

		_, err := p.publish(ctx, info, "v1.2.3")
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("owner/name")
	})
}

func TestBuildArchives(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported format is skipped, known ones are built", func(t *testing.T) {
		p := newTestPipeline(t, newFakeGit(), newFakeGAP(), nil)
		info := testPackageInfo()
		info.Formats = []string{".tar.gz", ".rar", ".zip"}
		seedExport(t, p, info.Basename)

		assets, err := p.buildArchives(ctx, info)
		gt.NoError(t, err)
		gt.Equal(t, len(assets), 2)
		gt.Equal(t, assets[0].Name, "pkg-1.2.3.tar.gz")
		gt.Equal(t, assets[1].Name, "pkg-1.2.3.zip")

		for _, a := range assets {
			st, err := os.Stat(a.Path)
			gt.NoError(t, err)
			gt.Number(t, st.Size()).Greater(0)
			gt.Equal(t, st.Size(), a.Size)
		}
	})
}
