package model

import (
	"strings"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// PackageInfo is the release-relevant subset of a GAP package's
// PackageInfo.g record, as reported by the interpreter.
type PackageInfo struct {
	Name    string   // PackageName
	Version string   // Version
	Formats []string // ArchiveFormats, split into suffixes like ".tar.gz"

	// Derived from ArchiveURL:
	Repository string // "owner/repo" on github.com
	Tag        string // release tag segment of the URL
	Basename   string // archive file name prefix, e.g. "example-1.2.3"
	NamePrefix string // Basename with the version suffix removed, e.g. "example-"
}

// AssetName returns the file name of the distribution archive for the
// given format suffix.
func (p *PackageInfo) AssetName(suffix string) string {
	return p.Basename + suffix
}

// ParseFormats splits an ArchiveFormats value into individual suffixes.
// GAP packages write the list either space- or comma-separated.
func ParseFormats(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}

// ParseArchiveURL derives the hosting repository, the release tag and the
// archive basename from a PackageInfo ArchiveURL. The URL must have the form
//
//	https://github.com/OWNER/REPO/releases/download/TAG/BASENAME
//
// which splits on "/" into exactly 9 segments. Anything else is an error
// carrying the literal URL, and no later pipeline step may run.
func (p *PackageInfo) ParseArchiveURL(archiveURL string) error {
	seg := strings.Split(archiveURL, "/")
	if len(seg) != 9 ||
		seg[0] != "https:" || seg[1] != "" || seg[2] != "github.com" ||
		seg[5] != "releases" || seg[6] != "download" {
		return goerr.New("unexpected ArchiveURL format",
			goerr.V("archive_url", archiveURL),
			goerr.T(types.ErrTagPrecondition))
	}

	p.Repository = seg[3] + "/" + seg[4]
	p.Tag = seg[7]

	// Canonical GAP metadata puts a bare basename in the last segment and
	// keeps the extensions in ArchiveFormats, but some packages append one
	// format to the URL as well. Strip it so assets do not double up.
	p.Basename = trimArchiveSuffix(seg[8])

	// The version is normally a proper suffix of the basename; the remaining
	// prefix ("example-") names the package directory on the website.
	if rest := strings.TrimSuffix(p.Basename, p.Version); rest != p.Basename && rest != "" {
		p.NamePrefix = rest
	}

	return nil
}

func trimArchiveSuffix(name string) string {
	for _, f := range KnownFormats {
		if trimmed := strings.TrimSuffix(name, f.Suffix); trimmed != name && trimmed != "" {
			return trimmed
		}
	}
	return name
}
