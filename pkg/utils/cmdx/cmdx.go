package cmdx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Result is the captured outcome of one subprocess invocation.
type Result struct {
	Cmd      string // command line, joined for diagnostics
	ExitCode int
	Stdout   string
	Stderr   string
	Combined string // stdout and stderr interleaved in arrival order
}

// Runner executes external commands and captures their output. The release
// pipeline never scrapes a terminal; everything external tools print comes
// back through a Result.
type Runner interface {
	// Run executes name with args in dir.
	Run(ctx context.Context, dir, name string, args ...string) (*Result, error)

	// RunInput is Run with data fed to the process on stdin.
	RunInput(ctx context.Context, dir, input, name string, args ...string) (*Result, error)
}

type execRunner struct{}

// New returns a Runner backed by os/exec.
func New() Runner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	return r.RunInput(ctx, dir, "", name, args...)
}

func (r *execRunner) RunInput(ctx context.Context, dir, input, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	combined := &lockedBuffer{}
	cmd.Stdout = io.MultiWriter(&stdout, combined)
	cmd.Stderr = io.MultiWriter(&stderr, combined)

	ctxlog.From(ctx).Debug("running command",
		"cmd", name, "args", args, "dir", dir)

	err := cmd.Run()

	result := &Result{
		Cmd:      strings.Join(append([]string{name}, args...), " "),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, goerr.Wrap(err, "command failed",
				goerr.V("cmd", result.Cmd),
				goerr.V("exit_code", result.ExitCode),
				goerr.V("stderr", result.Stderr),
				goerr.T(types.ErrTagExternalTool))
		}
		result.ExitCode = -1
		return result, goerr.Wrap(err, "command could not be started",
			goerr.V("cmd", result.Cmd),
			goerr.T(types.ErrTagExternalTool))
	}

	return result, nil
}

// lockedBuffer serializes writes; exec copies stdout and stderr from
// separate goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
