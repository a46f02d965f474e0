package core

// Logger reports application events to an external service and/or stdout.
// The variadic arguments are alternating key/value pairs or bare values with
// meaningful string representations.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
