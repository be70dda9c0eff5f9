// Package gap drives the GAP interpreter. Both metadata extraction and the
// documentation or website scripts go through here, and every interpreter
// invocation is mirrored into a log file for postmortem diagnosis.
package gap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/interfaces"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/cmdx"
)

// extractScript prints the release-relevant PackageInfo fields as KEY=value
// lines. OnBreak is replaced first so a broken metadata file terminates the
// interpreter instead of dropping into a break loop.
const extractScript = `OnBreak := function() QuitGap(1); end;;
Read("PackageInfo.g");;
info := GAPInfo.PackageInfoCurrent;;
Print("PackageName=", info.PackageName, "\n");;
Print("Version=", info.Version, "\n");;
Print("ArchiveFormats=", info.ArchiveFormats, "\n");;
Print("ArchiveURL=", info.ArchiveURL, "\n");;
QuitGap(0);;
`

const validateScript = `OnBreak := function() QuitGap(1); end;;
if ValidatePackageInfo("PackageInfo.g") <> true then QuitGap(1); fi;;
QuitGap(0);;
`

type runner struct {
	exec    cmdx.Runner
	gapCmd  string
	logPath string
}

// Option configures the GAP runner.
type Option func(*runner)

// WithExecutable overrides the interpreter binary (default "gap").
func WithExecutable(cmd string) Option {
	return func(r *runner) {
		if cmd != "" {
			r.gapCmd = cmd
		}
	}
}

// NewRunner creates a GAPRunner. All interpreter output is appended to
// logPath.
func NewRunner(exec cmdx.Runner, logPath string, opts ...Option) interfaces.GAPRunner {
	r := &runner{
		exec:    exec,
		gapCmd:  "gap",
		logPath: logPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *runner) LogPath() string {
	return r.logPath
}

func (r *runner) ExtractPackageInfo(ctx context.Context, dir string) (map[string]string, error) {
	res, err := r.run(ctx, dir, "", extractScript)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	for _, line := range strings.Split(res.Stdout, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "PackageName", "Version", "ArchiveFormats", "ArchiveURL":
			fields[key] = strings.TrimSpace(value)
		}
	}
	return fields, nil
}

func (r *runner) ValidatePackageInfo(ctx context.Context, dir string) error {
	if _, err := r.run(ctx, dir, "", validateScript); err != nil {
		return goerr.New("PackageInfo.g validation failed",
			goerr.V("dir", dir), goerr.V("log", r.logPath),
			goerr.T(types.ErrTagExternalTool))
	}
	return nil
}

func (r *runner) RunScript(ctx context.Context, dir string, roots []string, script string) error {
	// The leading semicolon keeps GAP's default root paths and appends
	// the extra roots after them.
	rootArg := ""
	if len(roots) > 0 {
		rootArg = ";" + strings.Join(roots, ";")
	}
	if _, err := r.run(ctx, dir, rootArg, "", script); err != nil {
		return goerr.Wrap(err, "GAP script failed",
			goerr.V("script", script), goerr.V("log", r.logPath))
	}
	return nil
}

// run invokes GAP with input on stdin or a script file argument, persists
// the combined output and scans it for error markers. The interpreter's
// exit code alone is not trustworthy; syntax errors in read files can leave
// it zero.
func (r *runner) run(ctx context.Context, dir, rootArg, input string, scripts ...string) (*cmdx.Result, error) {
	args := []string{"-A", "-q", "-b", "--quitonbreak"}
	if rootArg != "" {
		args = append(args, "-l", rootArg)
	}
	for _, s := range scripts {
		if s != "" {
			args = append(args, s)
		}
	}

	res, runErr := r.exec.RunInput(ctx, dir, input, r.gapCmd, args...)
	if res != nil {
		r.appendLog(res)
	}
	if runErr != nil {
		return res, goerr.Wrap(runErr, "GAP exited abnormally, see the log file",
			goerr.V("log", r.logPath),
			goerr.T(types.ErrTagExternalTool))
	}

	if strings.Contains(res.Combined, "Error,") || strings.Contains(res.Combined, "Syntax error") {
		return res, goerr.New("GAP reported an error, see the log file",
			goerr.V("log", r.logPath),
			goerr.T(types.ErrTagExternalTool))
	}
	return res, nil
}

func (r *runner) appendLog(res *cmdx.Result) {
	f, err := os.OpenFile(r.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "$ %s\n%s\n", res.Cmd, res.Combined)
}
