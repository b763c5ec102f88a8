// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger provides structured logging for olivia.
//
// Logging goes to a file under the olivia home directory so it never
// interferes with the TUI. In verbose mode a console writer is added on
// stderr. The zero value is a no-op logger, so packages can log before
// Init has run without nil checks.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// GLOBAL LOGGER
// =============================================================================

var global = zerolog.Nop()

// Config holds logger configuration.
type Config struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string

	// Path is the log file path. Empty disables the file sink.
	Path string

	// Console adds a human-readable writer on stderr (verbose mode).
	Console bool
}

// Init configures the global logger. Safe to call more than once; the last
// call wins.
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)

	var sinks []io.Writer

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		sinks = append(sinks, f)
	}

	if cfg.Console {
		sinks = append(sinks, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if len(sinks) == 0 {
		global = zerolog.Nop()
		return nil
	}

	global = zerolog.New(zerolog.MultiLevelWriter(sinks...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return nil
}

// L returns the global logger.
func L() *zerolog.Logger {
	return &global
}

// SetOutput replaces the global logger with one writing to w. Used by tests.
func SetOutput(w io.Writer) {
	global = zerolog.New(w).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
