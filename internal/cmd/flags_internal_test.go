// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/aibor/compiletest/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAbs(t *testing.T, path string) string {
	t.Helper()

	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	return abs
}

func TestFlags_ParseArgs(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedFlags *flags
		expectedErr   error
	}{
		{
			name:        "help",
			args:        []string{"-help"},
			expectedErr: ErrHelp,
		},
		{
			name:        "version",
			args:        []string{"-version"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "no directory",
			args:        []string{"-out=app.jar"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "empty directory",
			args:        []string{""},
			expectedErr: ErrEmptyFilePath,
		},
		{
			name:        "digest without output",
			args:        []string{"-digest", "classes"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "unknown format",
			args:        []string{"-format=tar", "classes"},
			expectedErr: &ParseArgsError{},
		},
		{
			name: "defaults",
			args: []string{"classes"},
			expectedFlags: &flags{
				SourceDirs: []string{mustAbs(t, "classes")},
				Format:     archive.FormatJAR,
			},
		},
		{
			name: "all flags",
			args: []string{
				"-out", "app.cpio",
				"-format=cpio",
				"-package", "org.example",
				"-config=ws.yaml",
				"-digest",
				"-keepTree",
				"-debug",
				"a",
				"/b",
			},
			expectedFlags: &flags{
				SourceDirs: []string{mustAbs(t, "a"), "/b"},
				OutputPath: mustAbs(t, "app.cpio"),
				ConfigPath: mustAbs(t, "ws.yaml"),
				Package:    "org.example",
				Format:     archive.FormatCPIO,
				Digest:     true,
				KeepTree:   true,
				Debug:      true,
			},
		},
		{
			name: "later flags override earlier ones",
			args: []string{
				"-format=cpio",
				"-format=jar",
				"classes",
			},
			expectedFlags: &flags{
				SourceDirs: []string{mustAbs(t, "classes")},
				Format:     archive.FormatJAR,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newFlags(io.Discard)

			err := flags.ParseArgs(tt.args)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			flags.flagSet = nil
			assert.Equal(t, tt.expectedFlags, flags)
		})
	}
}

func TestFlags_PackageSegments(t *testing.T) {
	tests := []struct {
		pkg      string
		expected []string
	}{
		{"", nil},
		{"/", nil},
		{"org", []string{"org"}},
		{"org.example", []string{"org", "example"}},
		{"org/example/", []string{"org", "example"}},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			flags := &flags{Package: tt.pkg}
			assert.Equal(t, tt.expected, flags.packageSegments())
		})
	}
}
