package logsvc

import (
	"io/ioutil"
	"log"

	"github.com/taufwerk/baptizo/core"
)

// StdLogger logs to the standard library logger only.
type StdLogger struct {
	std     *log.Logger
	enabled bool
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std, enabled: true}
}

// NewNopLogger returns a logger that discards everything; for tests.
func NewNopLogger() *StdLogger {
	return &StdLogger{std: log.New(ioutil.Discard, "", 0), enabled: true}
}

func (l *StdLogger) Enable(enabled bool) { l.enabled = enabled }

func (l *StdLogger) print(lvl, msg string, args []interface{}) {
	if !l.enabled {
		return
	}
	if len(args) == 0 {
		l.std.Printf("%s %s", lvl, msg)
		return
	}
	l.std.Printf("%s %s %v", lvl, msg, args)
}

func (l *StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l *StdLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l *StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l *StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }
