package interfaces

import "context"

// GitClient wraps the git operations the pipeline needs. All methods take
// the working tree directory explicitly; the release pipeline operates on
// two trees (the package checkout and the website checkout).
type GitClient interface {
	// IsClean reports whether the working tree has no uncommitted changes
	// to tracked files. The boolean is explicit: a failing git invocation
	// is an error, not a dirty tree.
	IsClean(ctx context.Context, dir string) (bool, error)

	// Head returns the commit hash the current branch points at.
	Head(ctx context.Context, dir string) (string, error)

	// TagExists reports whether the tag is already present.
	TagExists(ctx context.Context, dir, tag string) (bool, error)

	// TagCommit resolves a tag to the commit it points at.
	TagCommit(ctx context.Context, dir, tag string) (string, error)

	// CreateTag creates the tag at the current HEAD.
	CreateTag(ctx context.Context, dir, tag string) error

	// PushTag pushes a single tag to the remote.
	PushTag(ctx context.Context, dir, remote, tag string) error

	// Export writes the exact tree content of the tag below dest, with all
	// paths prefixed by prefix. The export contains only committed files.
	Export(ctx context.Context, dir, tag, prefix, dest string) error

	// ConfigGet returns a config value, or "" if it is unset.
	ConfigGet(ctx context.Context, dir, key string) (string, error)

	// Pull fast-forwards the current branch; a non-fast-forward state is
	// an error.
	Pull(ctx context.Context, dir string) error

	// AddAll stages every change in the working tree.
	AddAll(ctx context.Context, dir string) error

	// Commit records the staged changes with the given message.
	Commit(ctx context.Context, dir, message string) error

	// Push pushes the current branch to the remote.
	Push(ctx context.Context, dir, remote string) error
}
