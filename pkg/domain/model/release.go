package model

// Release represents the hosting platform's record for a published version.
// A zero ID means no release exists for the tag yet.
type Release struct {
	ID      int64  // numeric release identifier assigned by GitHub
	TagName string // tag the release is attached to
	Name    string // display name (the package version)
	Body    string // release description
	URL     string // html_url of the release, for the announcement
}

// Asset is one uploaded distribution archive.
type Asset struct {
	Name      string // file name, basename + format suffix
	Path      string // local path of the built archive
	MediaType string // Content-Type sent with the upload
	Size      int64
}
