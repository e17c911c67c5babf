package agent

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ANSI color codes for terminal output formatting
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// Logger writes REPL output. Command results go out unadorned; status
// messages carry a timestamp and, when enabled, a color.
type Logger struct {
	verbose  bool
	useColor bool
	out      io.Writer // command results
	writer   io.Writer // status messages
}

// SetVerbose enables or disables debug messages.
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

// NewDevNullLogger creates a logger that discards everything.
func NewDevNullLogger() *Logger {
	return &Logger{out: io.Discard, writer: io.Discard}
}

// NewLogger creates a logger writing to stdout.
func NewLogger(verbose, useColor bool) *Logger {
	return NewLoggerWithWriter(verbose, useColor, os.Stdout)
}

// NewLoggerWithWriter creates a logger writing results and status to w.
func NewLoggerWithWriter(verbose, useColor bool, w io.Writer) *Logger {
	return &Logger{
		verbose:  verbose,
		useColor: useColor,
		out:      w,
		writer:   w,
	}
}

// Output writes a command result without timestamp.
func (l *Logger) Output(format string, args ...interface{}) {
	fmt.Fprintf(l.out, format, args...)
}

// OutputLine is Output followed by a newline.
func (l *Logger) OutputLine(format string, args ...interface{}) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Writer returns the result writer, for renderers.
func (l *Logger) Writer() io.Writer {
	return l.out
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) colorize(text, colorCode string) string {
	if !l.useColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, colorReset)
}

func (l *Logger) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), msg)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(msg, colorGray))
}

func (l *Logger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(msg, colorRed))
}

func (l *Logger) Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(msg, colorGreen))
}
