// Package logging builds the structured logger shared by commands and the
// sync engine.
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"gtasksync/internal/config"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Level returns the level selected by the --debug and --quiet flags.
// Debug wins when both are set.
func Level(cfg *config.Config) slog.Level {
	switch {
	case cfg.Debug:
		return slog.LevelDebug
	case cfg.Quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to errOut, or to a rotating file when
// cfg.LogFile is set. The returned closer releases the file and must be
// called when the command finishes.
func New(cfg *config.Config, errOut io.Writer) (*slog.Logger, io.Closer) {
	var (
		w                = errOut
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		w, closer = file, file
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(cfg)})
	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
