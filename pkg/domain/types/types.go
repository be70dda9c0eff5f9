package types

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/laurentbartholdi/ReleaseTools/pkg/domain/types.Version=..."
var Version = "dev"

const (
	// DefaultRemote is the git remote releases are pushed to unless overridden.
	DefaultRemote = "origin"

	// PackageInfoFile is the GAP package metadata file name.
	PackageInfoFile = "PackageInfo.g"

	// MakeDocFile is the standard documentation build entry point.
	MakeDocFile = "makedoc.g"

	// LegacyMakeDocScript is the older shell-based documentation builder.
	LegacyMakeDocScript = "doc/make_doc"

	// WebsiteUpdateFile is the GitHubPagesForGAP site regeneration script.
	WebsiteUpdateFile = "update.g"

	// TokenFile is the fallback location of the GitHub access token,
	// relative to the user's home directory.
	TokenFile = ".github_token"
)
