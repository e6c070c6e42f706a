package log

import (
	"bytes"
	stdlog "log"
)

// stdWriter adapts a Logger to io.Writer for the standard library logger.
type stdWriter struct {
	logger Logger
	level  Level
}

func (w stdWriter) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\n"))
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger that writes through l at the given level.
func ToStdLogger(l Logger, level Level) *stdlog.Logger {
	return stdlog.New(stdWriter{logger: l.WithComponent("stdlog"), level: level}, "", 0)
}

// RedirectStdLog routes the standard library's default logger through l at info level.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{logger: l.WithComponent("stdlog"), level: InfoLevel})
}
