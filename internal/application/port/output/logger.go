package output

// LoggerPort is the structured logger used across the application. Arguments after the
// message are alternating key-value pairs.
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort
	Named(name string) LoggerPort

	Close() error
}
