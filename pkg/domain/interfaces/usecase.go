package interfaces

import (
	"context"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/model"
)

// ReleaseUseCase drives the release pipeline.
type ReleaseUseCase interface {
	// Run executes the whole pipeline: metadata extraction, tag
	// validation, documentation build, export, validation, publishing and
	// the website update.
	Run(ctx context.Context) error

	// Inspect extracts and returns the package metadata without touching
	// tags, archives or remote state.
	Inspect(ctx context.Context) (*model.PackageInfo, error)

	// UpdateSite runs only the website update step against an existing
	// export.
	UpdateSite(ctx context.Context) error
}

// Notifier announces a published release to an external channel.
type Notifier interface {
	Announce(ctx context.Context, text string) error
}
