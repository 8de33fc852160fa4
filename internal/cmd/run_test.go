// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aibor/compiletest/archive"
	"github.com/aibor/compiletest/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func run(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()

	t.Setenv("MKJAR_ARGS", "")

	var stdout, stderr bytes.Buffer

	exitCode := cmd.Run(ctx, args, cmd.IO{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})

	return exitCode, stdout.String(), stderr.String()
}

func TestRun_JAR(t *testing.T) {
	first := t.TempDir()
	writeFiles(t, first, map[string]string{
		"X.class":      "x",
		"sub/Y.class":  "y",
		"res/data.txt": "data",
	})

	second := t.TempDir()
	writeFiles(t, second, map[string]string{
		"Z.class": "z",
	})

	out := filepath.Join(t.TempDir(), "app.jar")

	exitCode, stdout, stderr := run(t, t.Context(),
		"-out", out, "-package=org.example", "-digest", first, second)
	require.Equal(t, 0, exitCode, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	artifact, err := archive.Create(fsForJAR(t, data), archive.FormatJAR)
	require.NoError(t, err)
	assert.Equal(t, data, artifact.Bytes(), "repackaging is stable")

	assert.Equal(t, "blake3:"+artifact.Digest()+"  "+out+"\n", stdout)

	jarFS := fsForJAR(t, data)

	for name, expected := range map[string]string{
		"org/example/X.class":      "x",
		"org/example/sub/Y.class":  "y",
		"org/example/res/data.txt": "data",
		"org/example/Z.class":      "z",
	} {
		content, err := fs.ReadFile(jarFS, name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, string(content), name)
	}

	_, err = fs.Stat(jarFS, "META-INF/MANIFEST.MF")
	require.NoError(t, err)
}

func fsForJAR(t *testing.T, data []byte) fs.FS {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	return reader
}

func TestRun_CPIOToStdout(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{"a/b.txt": "b"})

	exitCode, stdout, stderr := run(t, t.Context(), "-format=cpio", src)
	require.Equal(t, 0, exitCode, stderr)

	expected, err := archive.Create(os.DirFS(src), archive.FormatCPIO)
	require.NoError(t, err)

	assert.Equal(t, string(expected.Bytes()), stdout)
}

func TestRun_Errors(t *testing.T) {
	empty := t.TempDir()

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	config := filepath.Join(t.TempDir(), "ws.yaml")
	require.NoError(t, os.WriteFile(config, []byte("allowEmptyTrees: true\n"), 0o600))

	badConfig := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("unknown: true\n"), 0o600))

	canceled, cancel := context.WithCancel(t.Context())
	cancel()

	tests := []struct {
		name             string
		ctx              context.Context
		args             []string
		expectedExitCode int
	}{
		{
			name:             "help",
			args:             []string{"-help"},
			expectedExitCode: 0,
		},
		{
			name:             "no directory",
			args:             []string{"-format=cpio"},
			expectedExitCode: 2,
		},
		{
			name:             "missing directory",
			args:             []string{filepath.Join(empty, "missing")},
			expectedExitCode: 1,
		},
		{
			name:             "not a directory",
			args:             []string{file},
			expectedExitCode: 1,
		},
		{
			name:             "empty directory",
			args:             []string{empty},
			expectedExitCode: 1,
		},
		{
			name:             "empty directory allowed by config",
			args:             []string{"-config", config, empty},
			expectedExitCode: 0,
		},
		{
			name:             "invalid config",
			args:             []string{"-config", badConfig, empty},
			expectedExitCode: 1,
		},
		{
			name:             "canceled",
			ctx:              canceled,
			args:             []string{empty},
			expectedExitCode: 130,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.ctx
			if ctx == nil {
				ctx = t.Context()
			}

			exitCode, _, _ := run(t, ctx, tt.args...)
			assert.Equal(t, tt.expectedExitCode, exitCode)
		})
	}
}
