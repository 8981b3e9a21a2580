package logger

import (
	"bytes"
	"strings"
	"testing"
)

// TestConsoleLoggerLevelFiltering verifies messages below the configured
// level are dropped
func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")

	cl.LogTrace("trace message")
	cl.LogDebug("debug message")
	cl.LogInfo("info message")
	cl.LogWarn("warn message")
	cl.LogError("error message")

	out := buf.String()
	if strings.Contains(out, "trace message") || strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn leaked through: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Errorf("warn message missing from output: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("error message missing from output: %q", out)
	}
}

// TestConsoleLoggerFormat verifies the [HH:MM:SS] [LEVEL] message format
func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogInfo("hello")

	out := buf.String()
	if !strings.HasSuffix(out, "] [INFO] hello\n") {
		t.Errorf("unexpected format: %q", out)
	}
	if !strings.HasPrefix(out, "[") {
		t.Errorf("missing timestamp prefix: %q", out)
	}
}

// TestConsoleLoggerNilWriter verifies nil writers discard silently
func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "trace")
	cl.LogError("should not panic")
}

// TestConsoleLoggerInvalidLevelDefaults verifies bad levels fall back to info
func TestConsoleLoggerInvalidLevelDefaults(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "shouting")

	cl.LogDebug("debug message")
	cl.LogInfo("info message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Errorf("debug should be filtered at default info level: %q", out)
	}
	if !strings.Contains(out, "info message") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{" WARN ", "warn"},
		{"", "info"},
		{"nonsense", "info"},
	}

	for _, tt := range tests {
		if got := NormalizeLevel(tt.in); got != tt.want {
			t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = Nop{}
	l.LogTrace("x")
	l.LogError("x")
}
