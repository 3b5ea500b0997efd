// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging configures structured logging for AluSearch components.
//
// Built on Go's standard library slog package. The format defaults to
// human-readable text when stderr is a terminal and JSON otherwise, so the
// same binary logs readably during development and machine-parseably under
// a process supervisor.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{Service: "browser"})
//	logger.Info("dataset loaded", "rows", ds.Len())
//
// All loggers write to stderr, following Unix conventions for diagnostic
// output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatAuto picks text on a terminal and JSON otherwise.
	FormatAuto Format = "auto"

	// FormatText forces human-readable key=value output.
	FormatText Format = "text"

	// FormatJSON forces machine-parseable JSON output.
	FormatJSON Format = "json"
)

// Config configures a logger. The zero value logs Info+ to stderr with
// automatic format selection.
type Config struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	// Default: "info".
	Level string

	// Format selects the output encoding. Default: FormatAuto.
	Format Format

	// Service is added to every entry as the "service" attribute.
	Service string

	// Writer overrides the output destination. Default: os.Stderr.
	// Automatic format selection only applies when the writer is a
	// terminal file descriptor.
	Writer io.Writer
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info for
// unknown names.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a slog.Logger from the config.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	format := cfg.Format
	if format == "" {
		format = FormatAuto
	}
	if format == FormatAuto {
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = FormatText
		} else {
			format = FormatJSON
		}
	}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// Setup builds a logger from the config and installs it as the slog
// default. Returns the logger for direct use.
func Setup(cfg Config) *slog.Logger {
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}
