package log

// Package-level helpers for code that runs before the provider pool exists.

func Debug(args ...any) { Default().Debug(args...) }
func Info(args ...any)  { Default().Info(args...) }
func Warn(args ...any)  { Default().Warn(args...) }
func Error(args ...any) { Default().Error(args...) }

func Debugf(format string, args ...any) { Default().Debugf(format, args...) }
func Infof(format string, args ...any)  { Default().Infof(format, args...) }
func Warnf(format string, args ...any)  { Default().Warnf(format, args...) }
func Errorf(format string, args ...any) { Default().Errorf(format, args...) }

// WithField returns the default logger with one extra field.
func WithField(key string, value any) Logger {
	return Default().WithField(key, value)
}

// WithFields returns the default logger with extra fields.
func WithFields(fields map[string]any) Logger {
	return Default().WithFields(fields)
}

// WithError returns the default logger annotated with err.
func WithError(err error) Logger {
	return Default().WithError(err)
}

// Component tags log lines with the component that emitted them.
func Component(l Logger, name string) Logger {
	if l == nil {
		l = Default()
	}
	return l.WithField("component", name)
}
