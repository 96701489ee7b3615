package core

// Logger is any leveled logging service.
// Implementations may inspect trailing args for known types (eg. a logged-in
// staff value) before forwarding the rest.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
