// Package logger provides leveled logging for formatting runs.
//
// Implementations are thread-safe and support trace/debug/info/warn/error
// filtering. The console logger colorizes level tags when writing to a
// terminal; the file logger appends timestamped run logs under a configured
// directory.
package logger

// Logger is the leveled logging interface the formatting engine writes to.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Nop is a Logger that discards all messages.
type Nop struct{}

func (Nop) LogTrace(string) {}
func (Nop) LogDebug(string) {}
func (Nop) LogInfo(string)  {}
func (Nop) LogWarn(string)  {}
func (Nop) LogError(string) {}

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}
