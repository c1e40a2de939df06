// Package log is the application logging facade. It keeps a small printf
// style API and structured fields on top of logrus.
package log

import (
	"fmt"
	"io"
	"os"

	"imgtriage/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// F creates a field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus entry so fields can be chained
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// Option configures a Logger
type Option func(*logrus.Logger, *Logger)

// WithOutput sends log lines to w
func WithOutput(w io.Writer) Option {
	return func(base *logrus.Logger, _ *Logger) {
		base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(base *logrus.Logger, _ *Logger) {
		base.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	}
}

// WithFile appends log lines to the file at path. Used while the TUI owns
// the terminal.
func WithFile(path string) Option {
	return func(base *logrus.Logger, l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", path, err)
			return
		}
		base.SetOutput(f)
		l.file = f
	}
}

// Discard drops all output
func Discard() Option {
	return WithOutput(io.Discard)
}

// NewLogger creates a logger writing text lines to stdout
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.DebugLevel) // debug output is gated by SetDebug
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{entry: logrus.NewEntry(base)}
	for _, opt := range opts {
		opt(base, l)
	}
	return l
}

// Configure replaces the package logger
func Configure(opts ...Option) {
	logger.Close()
	logger = NewLogger(opts...)
}

// Close releases the log file, if any
func (l *Logger) Close() {
	if l != nil && l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// SetDebug enables or disables debug output
func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a logger carrying the given fields
func (l *Logger) With(fields ...Field) *Logger {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(lf), file: l.file}
}

func (l *Logger) Info(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Debug logs only when debug output is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if isDebug {
		l.entry.Debugf(format, args...)
	}
}

// Debugf logs a formatted message when debug output is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(format, args...)
}

func Info(format string, args ...interface{})   { logger.Info(format, args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Debug(format string, args ...interface{})  { logger.Debug(format, args...) }
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Warn(format string, args ...interface{})   { logger.Warn(format, args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Error(format string, args ...interface{})  { logger.Error(format, args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError attaches the error, its kind and the error specific context
func LogWithError(err error) *Logger {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}

	fields := []Field{
		F("error", err.Error()),
		F("error_kind", int(errors.KindOf(err))),
	}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var stateErr *errors.StateError
	if errors.As(err, &stateErr) {
		fields = append(fields, F("operation", stateErr.Operation()))
	}

	return logger.With(fields...)
}

// LogError is shorthand for LogWithError(err).Error(msg)
func LogError(err error, msg string) {
	LogWithError(err).Error("%s", msg)
}
