package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable fake formatter receiving the temp file
// path as $1.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake formatter scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-formatter")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// writeFmtConfig writes a config file pointing at the fake formatter with
// file logging disabled.
func writeFmtConfig(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("cmd: [%q]\nlog_dir: \"\"\n", script)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeNimFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.nim")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestFmtRewritesFile(t *testing.T) {
	script := writeScript(t, `printf 'var x = 1\n' > "$1"`)
	cfg := writeFmtConfig(t, script)
	file := writeNimFile(t, "var x=1")

	err := execute(t, "fmt", "--config", cfg, file)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "var x = 1\n", string(onDisk))
}

func TestFmtCheckReportsChanges(t *testing.T) {
	script := writeScript(t, `printf 'var x = 1\n' > "$1"`)
	cfg := writeFmtConfig(t, script)
	file := writeNimFile(t, "var x=1")

	err := execute(t, "fmt", "--check", "--config", cfg, file)
	assert.EqualError(t, err, "fmt: formatting changes required")

	// Check mode never rewrites.
	onDisk, rerr := os.ReadFile(file)
	require.NoError(t, rerr)
	assert.Equal(t, "var x=1", string(onDisk))
}

func TestFmtCheckCleanFile(t *testing.T) {
	script := writeScript(t, `exit 0`)
	cfg := writeFmtConfig(t, script)
	file := writeNimFile(t, "var x = 1\n")

	err := execute(t, "fmt", "--check", "--config", cfg, file)
	assert.NoError(t, err)
}

func TestFmtFormatterFailure(t *testing.T) {
	script := writeScript(t, `echo '<standard input>(1, 5) Error: bad' >&2; exit 1`)
	cfg := writeFmtConfig(t, script)
	file := writeNimFile(t, "var x=1")

	err := execute(t, "fmt", "--config", cfg, file)
	assert.EqualError(t, err, "fmt: failed to format some files")

	onDisk, rerr := os.ReadFile(file)
	require.NoError(t, rerr)
	assert.Equal(t, "var x=1", string(onDisk), "failed formatting must not rewrite the file")
}

func TestFmtCmdFlagOverridesConfig(t *testing.T) {
	broken := writeScript(t, `exit 97`)
	working := writeScript(t, `printf 'ok\n' > "$1"`)
	cfg := writeFmtConfig(t, broken)
	file := writeNimFile(t, "var x=1")

	err := execute(t, "fmt", "--config", cfg, "--cmd", working, file)
	require.NoError(t, err)

	onDisk, rerr := os.ReadFile(file)
	require.NoError(t, rerr)
	assert.Equal(t, "ok\n", string(onDisk))
}

func TestFmtFlagConflicts(t *testing.T) {
	err := execute(t, "fmt", "--stdout", "--check", "a.nim")
	assert.Error(t, err)

	err = execute(t, "fmt", "--stdout", "a.nim", "b.nim")
	assert.Error(t, err)
}

func TestFmtSkipsNonNimFiles(t *testing.T) {
	script := writeScript(t, `printf 'should not run\n' > "$1"`)
	cfg := writeFmtConfig(t, script)
	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o644))

	err := execute(t, "fmt", "--config", cfg, file)
	require.NoError(t, err)

	onDisk, rerr := os.ReadFile(file)
	require.NoError(t, rerr)
	assert.Equal(t, "hello", string(onDisk))
}

func TestFmtInvalidTimeoutFlag(t *testing.T) {
	script := writeScript(t, `exit 0`)
	cfg := writeFmtConfig(t, script)

	err := execute(t, "fmt", "--config", cfg, "--timeout", "soon", "a.nim")
	assert.Error(t, err)
}
