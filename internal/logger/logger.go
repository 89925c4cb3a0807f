// Package logger configures slog and records crash reports.
package logger

import (
	"io"
	"log/slog"
)

// Options selects the handler.
type Options struct {
	Verbose bool
	JSON    bool
}

// New builds a logger writing to w. Verbose lowers the level to Debug.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	ho := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	return slog.New(slog.NewTextHandler(w, ho))
}

// Setup installs New(w, opts) as the default logger and returns it.
func Setup(w io.Writer, opts Options) *slog.Logger {
	l := New(w, opts)
	slog.SetDefault(l)
	return l
}
