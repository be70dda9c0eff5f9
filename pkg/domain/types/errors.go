package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify fatal errors per the taxonomy in the README:
// usage, precondition, external tool, and remote API failures. Every
// fatal error in the pipeline carries exactly one of these.
var (
	ErrTagUsage        = goerr.NewTag("usage")
	ErrTagPrecondition = goerr.NewTag("precondition")
	ErrTagExternalTool = goerr.NewTag("external_tool")
	ErrTagRemoteAPI    = goerr.NewTag("remote_api")
)
