package calculation

import "log"

// Logger is the logging interface used by the projection engine and the
// layers built on it. The default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// StdLogger writes level-prefixed lines through a standard library logger.
// Debug lines are dropped unless Verbose is set.
type StdLogger struct {
	L       *log.Logger
	Verbose bool
}

// NewStdLogger wraps l; a nil l uses the log package's default logger.
func NewStdLogger(l *log.Logger, verbose bool) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{L: l, Verbose: verbose}
}

func (s *StdLogger) Debugf(format string, args ...any) {
	if s.Verbose {
		s.L.Printf("DEBUG: "+format, args...)
	}
}

func (s *StdLogger) Infof(format string, args ...any)  { s.L.Printf("INFO: "+format, args...) }
func (s *StdLogger) Warnf(format string, args ...any)  { s.L.Printf("WARN: "+format, args...) }
func (s *StdLogger) Errorf(format string, args ...any) { s.L.Printf("ERROR: "+format, args...) }
