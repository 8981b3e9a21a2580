package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileLogger appends format-run events to a timestamped log file under a
// configured directory and maintains a latest.log symlink pointing to the
// most recent run. It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing under logDir with the given
// minimum level. It creates the directory if it doesn't exist, opens a
// timestamped run log file, and creates/updates the latest.log symlink.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Timestamped filename: run-YYYYMMDD-HHMMSS.log
	timestamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Refresh the latest.log symlink. Failure to symlink (e.g. on
	// filesystems without symlink support) is not fatal.
	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		os.Remove(symlinkPath)
	}
	_ = os.Symlink(filepath.Base(runFile), symlinkPath)

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: NormalizeLevel(logLevel),
	}

	fl.write(fmt.Sprintf("=== nimfmt run log ===\nStarted at: %s\n\n",
		time.Now().Format(time.RFC3339)))

	return fl, nil
}

// RunFile returns the path of the current run log file.
func (fl *FileLogger) RunFile() string { return fl.runFile }

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	ts := time.Now().Format("15:04:05")
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", ts, level, message))
}

func (fl *FileLogger) write(s string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return
	}
	fl.runLog.WriteString(s)
}

// Multi fans a message out to several loggers.
type Multi []Logger

func (m Multi) LogTrace(message string) {
	for _, l := range m {
		l.LogTrace(message)
	}
}

func (m Multi) LogDebug(message string) {
	for _, l := range m {
		l.LogDebug(message)
	}
}

func (m Multi) LogInfo(message string) {
	for _, l := range m {
		l.LogInfo(message)
	}
}

func (m Multi) LogWarn(message string) {
	for _, l := range m {
		l.LogWarn(message)
	}
}

func (m Multi) LogError(message string) {
	for _, l := range m {
		l.LogError(message)
	}
}
