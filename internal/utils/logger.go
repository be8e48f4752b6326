// Package utils provides common utilities shared across packages
package utils

// Logger defines a common logging interface used throughout the application
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NoopLogger is a logger implementation that does nothing
type NoopLogger struct{}

func (l NoopLogger) Debug(format string, args ...interface{}) {}
func (l NoopLogger) Info(format string, args ...interface{})  {}
func (l NoopLogger) Warn(format string, args ...interface{})  {}
func (l NoopLogger) Error(format string, args ...interface{}) {}

// OrNoop returns logger, or a NoopLogger when logger is nil
func OrNoop(logger Logger) Logger {
	if logger == nil {
		return NoopLogger{}
	}
	return logger
}

// prefixed prepends a component name to every message
type prefixed struct {
	prefix string
	next   Logger
}

// WithPrefix returns a Logger that writes "prefix: message" to logger
func WithPrefix(logger Logger, prefix string) Logger {
	return prefixed{prefix: prefix + ": ", next: OrNoop(logger)}
}

func (p prefixed) Debug(format string, args ...interface{}) { p.next.Debug(p.prefix+format, args...) }
func (p prefixed) Info(format string, args ...interface{})  { p.next.Info(p.prefix+format, args...) }
func (p prefixed) Warn(format string, args ...interface{})  { p.next.Warn(p.prefix+format, args...) }
func (p prefixed) Error(format string, args ...interface{}) { p.next.Error(p.prefix+format, args...) }
