package interfaces

import "context"

// GAPRunner invokes the GAP interpreter. Every invocation appends the
// combined interpreter output to a persistent log file so that failures can
// be diagnosed after the run.
type GAPRunner interface {
	// ExtractPackageInfo reads PackageInfo.g in dir and returns the
	// metadata fields as key/value pairs (PackageName, Version,
	// ArchiveFormats, ArchiveURL).
	ExtractPackageInfo(ctx context.Context, dir string) (map[string]string, error)

	// ValidatePackageInfo runs GAP's ValidatePackageInfo against the
	// metadata file in dir and fails if it does not validate.
	ValidatePackageInfo(ctx context.Context, dir string) error

	// RunScript executes a GAP script in dir with the given directories
	// prepended to the package root path, so the package under release is
	// loadable from its checkout.
	RunScript(ctx context.Context, dir string, roots []string, script string) error

	// LogPath returns the location of the interpreter log file.
	LogPath() string
}
