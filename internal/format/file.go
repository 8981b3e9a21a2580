package format

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/nimfmt/internal/diag"
	"github.com/harrison/nimfmt/internal/runner"
)

// FileResult is the outcome of formatting one file on disk.
type FileResult struct {
	Path string

	// Output is the formatted text when the run succeeded.
	Output string

	// Changed reports whether Output differs from the file's contents.
	Changed bool

	// Failed reports whether the formatter rejected the file; Diagnostics
	// and ExitCode describe the failure.
	Failed      bool
	Diagnostics []diag.Diagnostic
	ExitCode    int
}

// FormatFile runs the formatter over the file at path. When write is true
// and the formatted output differs, the file is rewritten in place with its
// original permissions. A formatter rejection is reported in the FileResult,
// not as an error; errors are environmental failures only.
func (f *Formatter) FormatFile(ctx context.Context, path string, write bool) (*FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cmd := &runner.Command{
		Cmd:     f.cfg.Cmd,
		Dir:     filepath.Dir(path),
		Timeout: f.cfg.Timeout,
		Logger:  f.log,
	}

	res, err := cmd.Run(ctx, string(src))
	if err != nil {
		return nil, err
	}

	result := &FileResult{Path: path, ExitCode: res.ExitCode}
	if res.Failed() {
		result.Failed = true
		result.Diagnostics = diag.Parse([]byte(res.Stderr), path)
		return result, nil
	}

	result.Output = res.Output
	result.Changed = res.Output != string(src)
	if write && result.Changed {
		if err := os.WriteFile(path, []byte(res.Output), info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		f.log.LogDebug(fmt.Sprintf("%s rewrote %s", cmd.Name(), path))
	}
	return result, nil
}
