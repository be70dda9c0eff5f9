package git_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	gitinfra "github.com/laurentbartholdi/ReleaseTools/pkg/infra/git"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/cmdx"
)

// scriptedRunner maps command lines to canned results.
type scriptedRunner struct {
	results map[string]*cmdx.Result
	errs    map[string]error
	calls   []string
}

func (r *scriptedRunner) Run(ctx context.Context, dir, name string, args ...string) (*cmdx.Result, error) {
	return r.RunInput(ctx, dir, "", name, args...)
}

func (r *scriptedRunner) RunInput(ctx context.Context, dir, input, name string, args ...string) (*cmdx.Result, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)
	res, ok := r.results[key]
	if !ok {
		res = &cmdx.Result{Cmd: key}
	}
	return res, r.errs[key]
}

func TestIsClean(t *testing.T) {
	ctx := context.Background()

	t.Run("empty porcelain output means clean", func(t *testing.T) {
		runner := &scriptedRunner{results: map[string]*cmdx.Result{
			"git status --porcelain --untracked-files=no": {Stdout: "\n"},
		}}
		client := gitinfra.NewClient(runner)

		clean, err := client.IsClean(ctx, ".")
		gt.NoError(t, err)
		gt.True(t, clean)
	})

	t.Run("modified files mean dirty", func(t *testing.T) {
		runner := &scriptedRunner{results: map[string]*cmdx.Result{
			"git status --porcelain --untracked-files=no": {Stdout: " M PackageInfo.g\n"},
		}}
		client := gitinfra.NewClient(runner)

		clean, err := client.IsClean(ctx, ".")
		gt.NoError(t, err)
		gt.Equal(t, clean, false)
	})

	t.Run("a failing git invocation is an error, not a dirty tree", func(t *testing.T) {
		key := "git status --porcelain --untracked-files=no"
		runner := &scriptedRunner{
			results: map[string]*cmdx.Result{key: {ExitCode: 128}},
			errs:    map[string]error{key: context.DeadlineExceeded},
		}
		client := gitinfra.NewClient(runner)

		_, err := client.IsClean(ctx, ".")
		gt.Error(t, err)
	})
}

func TestTagQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("existing tag", func(t *testing.T) {
		runner := &scriptedRunner{results: map[string]*cmdx.Result{
			"git tag --list v1.0": {Stdout: "v1.0\n"},
		}}
		client := gitinfra.NewClient(runner)

		exists, err := client.TagExists(ctx, ".", "v1.0")
		gt.NoError(t, err)
		gt.True(t, exists)
	})

	t.Run("absent tag", func(t *testing.T) {
		runner := &scriptedRunner{results: map[string]*cmdx.Result{}}
		client := gitinfra.NewClient(runner)

		exists, err := client.TagExists(ctx, ".", "v1.0")
		gt.NoError(t, err)
		gt.Equal(t, exists, false)
	})

	t.Run("tag resolves through to the commit", func(t *testing.T) {
		runner := &scriptedRunner{results: map[string]*cmdx.Result{
			"git rev-parse v1.0^{commit}": {Stdout: "abc123\n"},
		}}
		client := gitinfra.NewClient(runner)

		commit, err := client.TagCommit(ctx, ".", "v1.0")
		gt.NoError(t, err)
		gt.Equal(t, commit, "abc123")
	})
}

func TestConfigGet(t *testing.T) {
	ctx := context.Background()

	t.Run("set value", func(t *testing.T) {
		runner := &scriptedRunner{results: map[string]*cmdx.Result{
			"git config --get github.token": {Stdout: "s3cret\n"},
		}}
		client := gitinfra.NewClient(runner)

		val, err := client.ConfigGet(ctx, ".", "github.token")
		gt.NoError(t, err)
		gt.Equal(t, val, "s3cret")
	})

	t.Run("unset key is empty, not an error", func(t *testing.T) {
		key := "git config --get github.token"
		runner := &scriptedRunner{
			results: map[string]*cmdx.Result{key: {ExitCode: 1}},
			errs:    map[string]error{key: context.Canceled},
		}
		client := gitinfra.NewClient(runner)

		val, err := client.ConfigGet(ctx, ".", "github.token")
		gt.NoError(t, err)
		gt.Equal(t, val, "")
	})
}

func TestExport(t *testing.T) {
	// The export destination may be a relative work directory while git
	// archive runs inside the source checkout; the tar path handed to -o
	// must be independent of either working directory.
	t.Chdir(t.TempDir())
	runner := &scriptedRunner{results: map[string]*cmdx.Result{}}
	client := gitinfra.NewClient(runner)

	gt.NoError(t, client.Export(context.Background(), "pkg", "v1.0", "pkg-1.0/", "tmp"))

	gt.Equal(t, len(runner.calls), 1)
	fields := strings.Fields(runner.calls[0])
	outPath := ""
	for i, f := range fields {
		if f == "-o" && i+1 < len(fields) {
			outPath = fields[i+1]
		}
	}
	gt.True(t, filepath.IsAbs(outPath))
	gt.String(t, runner.calls[0]).Contains("--prefix=pkg-1.0/")
}

func TestPushTag(t *testing.T) {
	runner := &scriptedRunner{results: map[string]*cmdx.Result{}}
	client := gitinfra.NewClient(runner)

	gt.NoError(t, client.PushTag(context.Background(), ".", "origin", "v1.0"))
	gt.Equal(t, runner.calls, []string{"git push origin refs/tags/v1.0"})
}
