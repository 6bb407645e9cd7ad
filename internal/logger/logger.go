package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Options configures where log lines go besides stdout.
type Options struct {
	Level int
	// Dir enables a daily rotated log file inside the directory when non-empty.
	Dir    string
	MaxAge time.Duration
}

// New creates new Logger instance with the specified level.
func New(level int) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a Logger writing text records to w.
func NewWithWriter(w io.Writer, level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// NewWithOptions creates a Logger that writes to stdout and, when opts.Dir is set,
// to a daily rotated file named fingerprintd.YYYYMMDD.log.
func NewWithOptions(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		return New(opts.Level), nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}

	rl, err := rotatelogs.New(
		filepath.Join(opts.Dir, "fingerprintd.%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(opts.Dir, "fingerprintd.log")),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open rotated log file: %w", err)
	}

	l := NewWithWriter(io.MultiWriter(os.Stdout, rl), opts.Level)
	l.closer = rl
	return l, nil
}

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), closer: l.closer}
}

// Close flushes and closes the rotated log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
