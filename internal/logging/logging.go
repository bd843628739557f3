// Package logging constructs the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New returns a slog.Logger writing colorized output to w. Verbose enables
// debug-level records. Logs always go to a side channel (stderr in the
// binary) because stdout carries the preprocessor protocol.
func New(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
}
