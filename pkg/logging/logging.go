// Package logging configures the process-wide structured logger. The
// tool logs through slog's default logger; this package only decides
// where it writes and at what level, so the -log tee and -verbose flag
// apply to every package at once.
package logging

import (
	"io"
	"log/slog"
)

// Setup installs the default logger. w is typically os.Stdout, or the
// tee writer in -log mode. verbose lowers the level to DEBUG.
func Setup(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// SetupJSON installs a JSON logger instead, for machine-readable runs.
func SetupJSON(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}
