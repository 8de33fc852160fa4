// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

const toolName = "mkjar"

// newLogger creates the text logger for the command. Without debug, only
// warnings and errors are printed and the time attribute is omitted.
func newLogger(writer io.Writer, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelWarn,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return attr
		},
	}

	if debug {
		opts.Level = slog.LevelDebug
		opts.ReplaceAttr = nil
	}

	return slog.New(slog.NewTextHandler(writer, opts)).
		With(slog.String("tool", toolName))
}

func setupLogging(writer io.Writer, debug bool) {
	slog.SetDefault(newLogger(writer, debug))
}
