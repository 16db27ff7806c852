package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error. Empty means info.
	Level string
	// Format is json (default) or text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// AddSource adds the calling file and line to each entry.
	AddSource bool
}

// Levels and formats accepted by ParseLevel and ParseFormat.
const (
	Levels  = "debug, info, warn, error"
	Formats = "json, text"
)

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel converts a level name. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	if lvl, ok := levelNames[strings.ToLower(s)]; ok {
		return lvl, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (want %s)", s, Levels)
}

// ParseFormat normalizes a format name. Empty means json and "console" is
// accepted as text.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return "json", nil
	case "text", "console":
		return "text", nil
	default:
		return "", fmt.Errorf("unknown log format %q (want %s)", s, Formats)
	}
}

// level is shared by every logger built with New, so SetLevel applies to
// loggers already handed out.
var level = new(slog.LevelVar)

// New creates a logger and sets the process-wide level to cfg.Level.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level.Set(lvl)
	return newSlogLogger(newHandler(out, format, level, cfg.AddSource)), nil
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() Logger {
	return newSlogLogger(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(w io.Writer, format string, lvl slog.Leveler, addSource bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// SetLevel changes the level of every logger built with New. It is used
// when log.level changes in a watched config file.
func SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	level.Set(lvl)
	return nil
}

// GetLevel returns the current level name.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

// slogLogger binds a context so that context-aware handlers see it.
type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

func newSlogLogger(h slog.Handler) *slogLogger {
	return &slogLogger{logger: slog.New(h), ctx: context.Background()}
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.DebugContext(l.ctx, msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.InfoContext(l.ctx, msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.WarnContext(l.ctx, msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.ErrorContext(l.ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{logger: l.logger, ctx: ctx}
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	defaultLogger.Store(newSlogLogger(newHandler(os.Stderr, "json", level, false)))
}

// SetDefault replaces the process default logger. Loggers not created by
// this package are ignored.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the process default logger. Components fall back to it
// when no logger is injected.
func Default() Logger {
	return defaultLogger.Load()
}
