package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// Default returns a stderr logger, at debug level when verbose is set.
func Default(verbose bool) *Logger {
	if verbose {
		return NewWithLevel(os.Stderr, log.DebugLevel)
	}
	return New(os.Stderr)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// Named returns a child logger tagged with a component prefix.
func (l *Logger) Named(component string) *Logger {
	return &Logger{Logger: l.WithPrefix(component)}
}

// BuildStarted logs the start of a site build
func (l *Logger) BuildStarted(contentDir, outputDir string) {
	l.Info("build started",
		"content_dir", contentDir,
		"output_dir", outputDir)
}

// BuildCompleted logs the completion of a site build
func (l *Logger) BuildCompleted(pages int, posts int, duration time.Duration) {
	l.Info("build completed",
		"pages", pages,
		"posts", posts,
		"duration", duration.Round(time.Millisecond))
}

// PageWritten logs a generated page
func (l *Logger) PageWritten(path, layout string) {
	l.Debug("page written",
		"path", path,
		"layout", layout)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}
