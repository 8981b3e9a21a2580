// Package runner executes the external formatter binary against source text
// staged in a temporary file.
//
// nimpretty rewrites its input file in place rather than emitting to stdout,
// so a run writes the source to a fresh temp file, invokes the formatter on
// it, and reads the file back as the formatted output. The temp file is
// removed on every exit path.
//
// Runs are synchronous. The caller blocks until the subprocess completes;
// this is deliberate, as formatting in the background invites races where
// newer edits are overwritten by a stale result.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/nimfmt/internal/logger"
)

// tempPattern names formatter temp files. The .nim suffix matters: nimpretty
// keys its behavior off the extension.
const tempPattern = "nimfmt-*.nim"

// Command invokes a formatter binary. It follows the http.Client pattern:
// create once, use for many runs.
type Command struct {
	// Cmd is the binary name followed by its fixed arguments. The temp file
	// path is appended on each run. Must be non-empty.
	Cmd []string

	// Dir is the working directory for the subprocess. The formatter
	// resolves relative imports in the source against it.
	Dir string

	// Timeout bounds a single run; 0 means no limit.
	Timeout time.Duration

	// Logger receives run traces. Can be nil for silent operation.
	Logger logger.Logger
}

// Result holds the outcome of one formatter run.
type Result struct {
	// Output is the formatted text, re-read from the temp file after the
	// subprocess exits.
	Output string

	// Stderr is the subprocess stderr output.
	Stderr string

	// ExitCode is the subprocess exit code.
	ExitCode int
}

// Failed reports whether the run is a formatting failure: nonzero exit code
// or any stderr output, regardless of what the formatter wrote to the file.
func (r *Result) Failed() bool {
	return r.ExitCode != 0 || r.Stderr != ""
}

// Name returns the binary name, used in user-facing status messages.
func (c *Command) Name() string {
	if len(c.Cmd) == 0 {
		return ""
	}
	return c.Cmd[0]
}

// Run formats source with the external binary and returns its result.
//
// A nonzero exit code is not an error at this layer; it is data in the
// Result, classified by the caller. Errors are reserved for environmental
// failures: missing binary, temp file I/O, context cancellation.
func (c *Command) Run(ctx context.Context, source string) (*Result, error) {
	if len(c.Cmd) == 0 {
		return nil, errors.New("runner: empty command")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	tmp, err := os.CreateTemp("", tempPattern)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(source); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	args := append(append([]string{}, c.Cmd[1:]...), tmpName)
	cmd := exec.CommandContext(ctx, c.Cmd[0], args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	hideConsoleWindow(cmd)

	c.trace(fmt.Sprintf("running %s %s (cwd %s)", c.Cmd[0], strings.Join(args, " "), c.Dir))

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", c.Name(), err)
		}
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("run %s: %w", c.Name(), ctxErr)
	}

	// The formatter rewrites the file in place; its stdout is not the
	// formatted output.
	formatted, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, fmt.Errorf("read formatted output: %w", err)
	}

	c.trace(fmt.Sprintf("%s exited with code %d, %d stderr bytes", c.Name(), exitCode, stderr.Len()))

	return &Result{
		Output:   string(formatted),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

func (c *Command) trace(msg string) {
	if c.Logger != nil {
		c.Logger.LogTrace(msg)
	}
}

// GuessWorkDir picks the subprocess working directory for a document: the
// directory containing fileName or, for unsaved buffers, the first open
// project folder. Returns "" when neither is available, which leaves the
// subprocess in the host's working directory.
func GuessWorkDir(fileName string, folders []string) string {
	if fileName != "" {
		return filepath.Dir(fileName)
	}
	if len(folders) > 0 {
		return folders[0]
	}
	return ""
}
