package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Context keys for propagating logging context
const (
	RequestIDKey = "request_id"
	TraceIDKey   = "trace_id"
	ComponentKey = "component"
	OperationKey = "operation"
)

type ctxKey string

// ContextWithRequestID returns a child context carrying a request id picked up by WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey(RequestIDKey), id)
}

// RequestIDFromContext returns the request id set by ContextWithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey(RequestIDKey)).(string)
	return id
}

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
	Error     error
}

// Logger defines the core logging interface for tixid components.
type Logger interface {
	// Standard logging methods with structured context (Field-based API)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// Printf-style variants
	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
	Fatalf(msg string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger

	// With adds multiple fields to the logger
	With(fields ...Field) Logger

	// WithContext adds request context to the Logger
	WithContext(ctx context.Context) Logger

	// WithComponent tags logs with a component name
	WithComponent(component string) Logger

	// SetLevel sets the minimum log level
	SetLevel(level Level)

	// GetLevel returns the current minimum log level
	GetLevel() Level
}

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements the Logger interface.
type BaseLogger struct {
	level      *atomic.Int32
	formatter  Formatter
	outputs    []Output
	handler    *bridgeHandler
	slogLogger *slog.Logger
}

// ContextExtractor extracts logging context from a context.Context.
func ContextExtractor(ctx context.Context) Fields {
	if ctx == nil {
		return Fields{}
	}
	fields := Fields{}
	for _, k := range []string{RequestIDKey, TraceIDKey, ComponentKey, OperationKey} {
		if v := ctx.Value(ctxKey(k)); v != nil {
			fields[k] = v
		}
	}
	return fields
}

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		level:     new(atomic.Int32),
		formatter: &JSONFormatter{},
		outputs:   []Output{},
	}
	logger.level.Store(int32(InfoLevel))

	for _, option := range options {
		option(logger)
	}

	// Add default output if none specified
	if len(logger.outputs) == 0 {
		logger.outputs = append(logger.outputs, NewConsoleOutput())
	}

	logger.handler = newBridgeHandler(logger)
	logger.slogLogger = slog.New(logger.handler)
	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) {
		l.level.Store(int32(level))
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) {
		l.formatter = formatter
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) {
		l.outputs = append(l.outputs, output)
	}
}

// derive returns a logger sharing level, formatter and outputs with l but using handler h.
func (l *BaseLogger) derive(h *bridgeHandler) *BaseLogger {
	nl := &BaseLogger{
		level:     l.level,
		formatter: l.formatter,
		outputs:   l.outputs,
	}
	nh := *h
	nh.logger = nl
	nl.handler = &nh
	nl.slogLogger = slog.New(nl.handler)
	return nl
}

func (l *BaseLogger) currentLevel() Level { return Level(l.level.Load()) }

func (l *BaseLogger) log(level Level, msg string, attrs []slog.Attr) {
	if level < l.currentLevel() {
		return
	}
	l.slogLogger.LogAttrs(context.Background(), toSlogLevel(level), msg, attrs...)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *BaseLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, attrsFromFieldSlice(fields))
}
func (l *BaseLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, attrsFromFieldSlice(fields))
}
func (l *BaseLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, attrsFromFieldSlice(fields))
}
func (l *BaseLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, attrsFromFieldSlice(fields))
}
func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, msg, attrsFromFieldSlice(fields))
}

func (l *BaseLogger) Debugf(msg string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(msg, args...), nil)
}
func (l *BaseLogger) Infof(msg string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(msg, args...), nil)
}
func (l *BaseLogger) Warnf(msg string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(msg, args...), nil)
}
func (l *BaseLogger) Errorf(msg string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(msg, args...), nil)
}
func (l *BaseLogger) Fatalf(msg string, args ...interface{}) {
	l.log(FatalLevel, fmt.Sprintf(msg, args...), nil)
}

func (l *BaseLogger) WithField(key string, value interface{}) Logger {
	return l.With(Any(key, value))
}

func (l *BaseLogger) WithFields(fields Fields) Logger {
	return l.derive(l.handler.WithAttrs(attrsFromMap(fields)).(*bridgeHandler))
}

func (l *BaseLogger) WithError(err error) Logger {
	return l.With(Err(err))
}

func (l *BaseLogger) With(fields ...Field) Logger {
	return l.derive(l.handler.WithAttrs(attrsFromFieldSlice(fields)).(*bridgeHandler))
}

func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	return l.WithFields(ContextExtractor(ctx))
}

func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

func (l *BaseLogger) SetLevel(level Level) { l.level.Store(int32(level)) }

func (l *BaseLogger) GetLevel() Level { return l.currentLevel() }
