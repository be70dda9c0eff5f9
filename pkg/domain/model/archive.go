package model

// ArchiveFormat describes one supported distribution archive format.
type ArchiveFormat struct {
	Suffix    string // file name suffix, e.g. ".tar.gz"
	MediaType string // Content-Type used when uploading the asset
}

// KnownFormats lists the archive formats the exporter can build, in no
// particular order. Formats requested in PackageInfo.g but absent here are
// skipped with a warning.
var KnownFormats = []ArchiveFormat{
	{Suffix: ".tar.gz", MediaType: "application/x-gzip"},
	{Suffix: ".tar.bz2", MediaType: "application/x-bzip2"},
	{Suffix: ".zip", MediaType: "application/zip"},
}

// LookupFormat returns the format for a suffix, or false if it is not
// supported.
func LookupFormat(suffix string) (ArchiveFormat, bool) {
	for _, f := range KnownFormats {
		if f.Suffix == suffix {
			return f, true
		}
	}
	return ArchiveFormat{}, false
}
