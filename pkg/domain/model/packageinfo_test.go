package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
)

func TestParseArchiveURL(t *testing.T) {
	t.Run("canonical URL without extension", func(t *testing.T) {
		info := &model.PackageInfo{Name: "Example", Version: "4.7.2"}
		err := info.ParseArchiveURL("https://github.com/gap-packages/example/releases/download/v4.7.2/example-4.7.2")
		gt.NoError(t, err)
		gt.Value(t, info.Repository).Equal("gap-packages/example")
		gt.Value(t, info.Tag).Equal("v4.7.2")
		gt.Value(t, info.Basename).Equal("example-4.7.2")
		gt.Value(t, info.NamePrefix).Equal("example-")
	})

	t.Run("URL carrying an archive extension", func(t *testing.T) {
		info := &model.PackageInfo{Name: "pkg", Version: "1.2.3"}
		err := info.ParseArchiveURL("https://github.com/user/pkg/releases/download/v1.2.3/pkg-1.2.3.tar.gz")
		gt.NoError(t, err)
		gt.Value(t, info.Repository).Equal("user/pkg")
		gt.Value(t, info.Tag).Equal("v1.2.3")
		gt.Value(t, info.Basename).Equal("pkg-1.2.3")
		gt.Value(t, info.AssetName(".tar.gz")).Equal("pkg-1.2.3.tar.gz")
		gt.Value(t, info.AssetName(".zip")).Equal("pkg-1.2.3.zip")
	})

	t.Run("version not a suffix leaves no name prefix", func(t *testing.T) {
		info := &model.PackageInfo{Name: "pkg", Version: "9.9.9"}
		err := info.ParseArchiveURL("https://github.com/user/pkg/releases/download/v1.2.3/pkg-1.2.3")
		gt.NoError(t, err)
		gt.Value(t, info.Basename).Equal("pkg-1.2.3")
		gt.Value(t, info.NamePrefix).Equal("")
	})

	malformed := []struct {
		name string
		url  string
	}{
		{"too few segments", "https://github.com/user/pkg/releases/download/file"},
		{"too many segments", "https://github.com/user/pkg/releases/download/v1.0/extra/file"},
		{"http scheme", "http://github.com/user/pkg/releases/download/v1.0/pkg-1.0"},
		{"wrong host", "https://gitlab.com/user/pkg/releases/download/v1.0/pkg-1.0"},
		{"not a download URL", "https://github.com/user/pkg/archive/refs/tags/v1.0/pkg-1.0"},
		{"empty", ""},
	}
	for _, tc := range malformed {
		t.Run("malformed: "+tc.name, func(t *testing.T) {
			info := &model.PackageInfo{Name: "pkg", Version: "1.0"}
			err := info.ParseArchiveURL(tc.url)
			gt.Error(t, err)
			gt.String(t, err.Error()).Contains("unexpected ArchiveURL")
			// The error must carry the literal URL value.
			gt.Value(t, goerr.Values(err)["archive_url"]).Equal(tc.url)
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"space separated", ".tar.gz .tar.bz2", []string{".tar.gz", ".tar.bz2"}},
		{"comma separated", ".tar.gz,.zip", []string{".tar.gz", ".zip"}},
		{"mixed separators", ".tar.gz, .zip", []string{".tar.gz", ".zip"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.ParseFormats(tt.in)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestLookupFormat(t *testing.T) {
	f, ok := model.LookupFormat(".tar.gz")
	gt.True(t, ok)
	gt.Value(t, f.MediaType).Equal("application/x-gzip")

	_, ok = model.LookupFormat(".rar")
	gt.Equal(t, ok, false)
}
