package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Options configures the process logger
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Output io.Writer // defaults to stderr
}

var (
	logger      *slog.Logger
	atomicLevel = new(slog.LevelVar)
)

// Init installs the process-wide logger and sets it as slog default
func Init(opts Options) *slog.Logger {
	atomicLevel.Set(ParseLevel(opts.Level))

	writer := opts.Output
	if writer == nil {
		writer = os.Stderr
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: atomicLevel})
	} else {
		handler = tint.NewHandler(writer, &tint.Options{
			Level:      atomicLevel,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(writer),
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == "error" && a.Value.Kind() == slog.KindAny {
					if err, ok := a.Value.Any().(error); ok {
						return tint.Err(err)
					}
				}
				return a
			},
		})
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to slog, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Get returns the process logger, initialising a console logger on first use
func Get() *slog.Logger {
	if logger == nil {
		return Init(Options{})
	}
	return logger
}

// WithComponent returns a logger tagged with a component name
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}
