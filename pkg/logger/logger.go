package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a text slog logger writing to w (stderr when nil) at the
// named level: debug, info, warn or error.
func New(w io.Writer, level string) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
