package testutil

import "fmt"

// CaptureLogger records log messages in memory so tests can assert on
// warnings (e.g. the unknown-snapshot-key leniency). Not goroutine-safe;
// the whole system under test is single-threaded anyway.
type CaptureLogger struct {
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

// NewCaptureLogger creates an empty capture logger.
func NewCaptureLogger() *CaptureLogger { return &CaptureLogger{} }

func record(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf("%s %v", msg, args)
}

// Debug records a debug message.
func (l *CaptureLogger) Debug(msg string, args ...any) { l.Debugs = append(l.Debugs, record(msg, args...)) }

// Info records an informational message.
func (l *CaptureLogger) Info(msg string, args ...any) { l.Infos = append(l.Infos, record(msg, args...)) }

// Warn records a warning message.
func (l *CaptureLogger) Warn(msg string, args ...any) { l.Warns = append(l.Warns, record(msg, args...)) }

// Error records an error message.
func (l *CaptureLogger) Error(msg string, args ...any) { l.Errors = append(l.Errors, record(msg, args...)) }
