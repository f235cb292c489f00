package lib

import "testing"

// Logger receives debug information from the API client and the mailbox entities.
// *log.Logger satisfies it.
type Logger interface {
	Print(a ...any)
	Println(a ...any)
	Printf(format string, a ...any)
}

// NoLog discards everything
type NoLog struct{}

func (l *NoLog) Print(a ...any)                 {}
func (l *NoLog) Println(a ...any)               {}
func (l *NoLog) Printf(format string, a ...any) {}

// LoggerOrDefault returns logger, or a NoLog when logger is nil
func LoggerOrDefault(logger Logger) Logger {
	if logger == nil {
		return &NoLog{}
	}
	return logger
}

// TestLogger sends the output to the test log, so it only shows on failure or with -v
type TestLogger struct {
	tb     testing.TB
	prefix string
}

func NewTestLogger(tb testing.TB, prefix string) *TestLogger {
	return &TestLogger{
		tb:     tb,
		prefix: prefix,
	}
}

func (l *TestLogger) Print(a ...any) {
	l.tb.Helper()
	if l.prefix == "" {
		l.tb.Log(a...)
		return
	}
	l.tb.Log(append([]any{l.prefix + ":"}, a...)...)
}

func (l *TestLogger) Println(a ...any) {
	l.tb.Helper()
	l.Print(a...)
}

func (l *TestLogger) Printf(format string, a ...any) {
	l.tb.Helper()
	if l.prefix != "" {
		format = l.prefix + ": " + format
	}
	l.tb.Logf(format, a...)
}
