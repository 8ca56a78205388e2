// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctxlog carries a *slog.Logger through a context.Context and adds
// the NOTICE level used to report written files.
package ctxlog

import (
	"context"
	"log/slog"
)

// LevelNotice sits between INFO and WARN.
const LevelNotice = slog.Level(2)

type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx. If no logger is found, it
// returns the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

// Notice logs msg at LevelNotice.
func Notice(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Log(ctx, LevelNotice, msg, args...)
}

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr function that prints
// LevelNotice as "NOTICE" instead of "INFO+2".
func ReplaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelNotice {
		a.Value = slog.StringValue("NOTICE")
	}
	return a
}
