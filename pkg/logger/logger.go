// Package logger configures the process-wide slog logger used by the tools.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the global logger. It discards output until Init is called.
var Log = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to a slog level.
// Unknown values yield INFO.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init initializes the global logger writing text records to stderr.
func Init(levelStr string) {
	InitWriter(os.Stderr, levelStr)
}

// InitWriter initializes the global logger writing text records to w.
func InitWriter(w io.Writer, levelStr string) {
	Log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(levelStr)}))
	slog.SetDefault(Log)
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }
