// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/compiletest/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAbs(t *testing.T, path string) string {
	t.Helper()

	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	return abs
}

func TestFilePath_Set(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectedErr error
	}{
		{
			name:        "empty",
			expectedErr: cmd.ErrEmptyFilePath,
		},
		{
			name:     "relative",
			input:    "path",
			expected: mustAbs(t, "path"),
		},
		{
			name:     "absolute",
			input:    "/some/../path",
			expected: "/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path cmd.FilePath

			err := path.Set(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)

			assert.Equal(t, tt.expected, string(path))
		})
	}
}

func TestFilePath_String(t *testing.T) {
	path := cmd.FilePath("/path")
	assert.Equal(t, "/path", path.String())
}

func TestValidateDirPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	require.NoError(t, cmd.ValidateDirPath(dir))
	err := cmd.ValidateDirPath(file)
	require.ErrorIs(t, err, cmd.ErrNotDirectory)

	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, file, pathErr.Path)

	require.ErrorIs(t, cmd.ValidateDirPath(filepath.Join(dir, "missing")), os.ErrNotExist)
}
