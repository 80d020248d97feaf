// Package log is the logging facade shared by every gatehouse component.
//
// Components receive a Logger through the core provider pool ("Log") and
// should not reach for the package-level helpers except during bootstrap.
package log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger handed to components.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger
}

// Config selects level, format and destination of the default logger.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text | json
	Output string `json:"output" yaml:"output"` // stdout | stderr | file
	File   string `json:"file" yaml:"file"`
}

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps a logrus logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(args ...any) { l.entry.Debug(args...) }
func (l *logrusLogger) Info(args ...any)  { l.entry.Info(args...) }
func (l *logrusLogger) Warn(args ...any)  { l.entry.Warn(args...) }
func (l *logrusLogger) Error(args ...any) { l.entry.Error(args...) }

func (l *logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields map[string]any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}

func (l *logrusLogger) WithContext(ctx context.Context) Logger {
	return &logrusLogger{entry: l.entry.WithContext(ctx)}
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(args ...any)                        {}
func (NopLogger) Info(args ...any)                         {}
func (NopLogger) Warn(args ...any)                         {}
func (NopLogger) Error(args ...any)                        {}
func (NopLogger) Debugf(format string, args ...any)        {}
func (NopLogger) Infof(format string, args ...any)         {}
func (NopLogger) Warnf(format string, args ...any)         {}
func (NopLogger) Errorf(format string, args ...any)        {}
func (n NopLogger) WithField(key string, value any) Logger { return n }
func (n NopLogger) WithFields(fields map[string]any) Logger {
	return n
}
func (n NopLogger) WithError(err error) Logger             { return n }
func (n NopLogger) WithContext(ctx context.Context) Logger { return n }

// NewNopLogger returns a logger that drops all output.
func NewNopLogger() Logger {
	return NopLogger{}
}

// TestingT is the subset of *testing.T used by TestLogger.
type TestingT interface {
	Log(args ...any)
	Logf(format string, args ...any)
}

// TestLogger forwards log lines to a test's output.
type TestLogger struct {
	t      TestingT
	fields map[string]any
}

// NewTestLogger creates a logger bound to t.
func NewTestLogger(t TestingT) Logger {
	return &TestLogger{t: t, fields: make(map[string]any)}
}

func (l *TestLogger) Debug(args ...any) { l.t.Log(append([]any{"[DEBUG]"}, args...)...) }
func (l *TestLogger) Info(args ...any)  { l.t.Log(append([]any{"[INFO]"}, args...)...) }
func (l *TestLogger) Warn(args ...any)  { l.t.Log(append([]any{"[WARN]"}, args...)...) }
func (l *TestLogger) Error(args ...any) { l.t.Log(append([]any{"[ERROR]"}, args...)...) }

func (l *TestLogger) Debugf(format string, args ...any) { l.t.Logf("[DEBUG] "+format, args...) }
func (l *TestLogger) Infof(format string, args ...any)  { l.t.Logf("[INFO] "+format, args...) }
func (l *TestLogger) Warnf(format string, args ...any)  { l.t.Logf("[WARN] "+format, args...) }
func (l *TestLogger) Errorf(format string, args ...any) { l.t.Logf("[ERROR] "+format, args...) }

func (l *TestLogger) WithField(key string, value any) Logger {
	return l.WithFields(map[string]any{key: value})
}

func (l *TestLogger) WithFields(fields map[string]any) Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{t: l.t, fields: merged}
}

func (l *TestLogger) WithError(err error) Logger {
	return l.WithField("error", err)
}

func (l *TestLogger) WithContext(ctx context.Context) Logger {
	return l
}

var (
	defaultLogger     Logger
	defaultLoggerOnce sync.Once
	defaultLoggerMu   sync.RWMutex
	currentLogFile    *os.File
)

func initDefaultLogger() {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	defaultLogger = NewLogrusLogger(l)
}

// Default returns the process-wide logger.
func Default() Logger {
	defaultLoggerOnce.Do(initDefaultLogger)
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l Logger) {
	defaultLoggerOnce.Do(initDefaultLogger)
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}

// Configure builds a logrus logger from cfg and installs it as the default.
func Configure(cfg Config) (Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	out, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	l.SetOutput(out)

	logger := NewLogrusLogger(l)
	SetDefault(logger)
	return logger, nil
}

func openOutput(cfg Config) (io.Writer, error) {
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		return os.Stderr, nil
	case "file":
		if cfg.File == "" {
			return os.Stdout, nil
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		defaultLoggerMu.Lock()
		if currentLogFile != nil {
			currentLogFile.Close()
		}
		currentLogFile = f
		defaultLoggerMu.Unlock()
		return f, nil
	default:
		return os.Stdout, nil
	}
}
