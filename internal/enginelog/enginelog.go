// Package enginelog is the engine's process-level logger: one leveled,
// prefixed writer per subsystem (scheduler, router, sink, ...), backed by
// charmbracelet/log instead of a hand-rolled writer.
package enginelog

import (
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger wraps a charmbracelet/log.Logger, adding the printf-style Errorf
// the rest of this module's packages expect (they format one string, they
// don't build key/value pairs).
type Logger struct {
	*charmlog.Logger
}

// New builds a Logger writing to w (os.Stderr if nil) at the given level
// name ("debug", "info", "warn", "error"; unrecognized names fall back to
// info, matching pkg/framework/debug's default).
func New(w io.Writer, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
	})
	l.SetLevel(parseLevel(level))
	return &Logger{Logger: l}
}

func parseLevel(s string) charmlog.Level {
	lvl, err := charmlog.ParseLevel(s)
	if err != nil {
		return charmlog.InfoLevel
	}
	return lvl
}

// For returns a child logger prefixed with component, so log lines read
// "component: message" the way pkg/framework/debug.Logger.SetPrefix did.
func (l *Logger) For(component string) *Logger {
	return &Logger{Logger: l.Logger.WithPrefix(component)}
}

// Errorf logs a formatted error message. Satisfies router.Logger and every
// other Errorf(format, args...) consumer in this module.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Logger.Error(fmt.Sprintf(format, args...))
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Logger.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Logger.Warn(fmt.Sprintf(format, args...))
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Logger.Debug(fmt.Sprintf(format, args...))
}
