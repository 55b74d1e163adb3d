package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	telematics "github.com/goliatone/go-telematics"
)

// stderrLogger writes structured key/value lines to stderr. The library's
// logger contract is provider-shaped; the CLI only needs a flat sink.
type stderrLogger struct {
	name string
}

func newStderrLogger() *stderrLogger {
	return &stderrLogger{name: "telematics"}
}

func (l *stderrLogger) log(level, msg string, args ...any) {
	line := fmt.Sprintf("%s %-5s %s: %s", time.Now().UTC().Format(time.RFC3339), level, l.name, msg)
	for index := 0; index+1 < len(args); index += 2 {
		line += fmt.Sprintf(" %v=%v", args[index], args[index+1])
	}
	fmt.Fprintln(os.Stderr, line)
}

func (l *stderrLogger) Trace(msg string, args ...any) { l.log("trace", msg, args...) }
func (l *stderrLogger) Debug(msg string, args ...any) { l.log("debug", msg, args...) }
func (l *stderrLogger) Info(msg string, args ...any)  { l.log("info", msg, args...) }
func (l *stderrLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args...) }
func (l *stderrLogger) Error(msg string, args ...any) { l.log("error", msg, args...) }

func (l *stderrLogger) Fatal(msg string, args ...any) {
	l.log("fatal", msg, args...)
	os.Exit(1)
}

func (l *stderrLogger) WithContext(context.Context) telematics.Logger {
	return l
}
