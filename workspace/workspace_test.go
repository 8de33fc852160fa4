// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/aibor/compiletest/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(t *testing.T, cfg workspace.Config) *workspace.Workspace {
	t.Helper()

	cfg.NoAutoCleanup = true

	ws, err := workspace.New(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = ws.Close() })

	return ws
}

func readFile(t *testing.T, dir *workspace.Directory, name string) string {
	t.Helper()

	fsys, err := dir.FS()
	require.NoError(t, err)

	data, err := fs.ReadFile(fsys, name)
	require.NoError(t, err)

	return string(data)
}

func TestNew(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{Name: "named-workspace"})

	assert.Equal(t, "named-workspace", ws.Name())
	assert.Equal(t, "/named-workspace", ws.Root().Path())
	assert.Equal(t, "memory:///named-workspace/", ws.Root().URI())
	assert.False(t, ws.Closed())
	assert.NotNil(t, ws.Registry())
}

func TestNew_GeneratedNamesDoNotCollide(t *testing.T) {
	first := newWorkspace(t, workspace.Config{})
	second := newWorkspace(t, workspace.Config{})

	require.NotEqual(t, first.Name(), second.Name())
	assert.Equal(t, first.Name(), filepath.Base(first.Root().Path()))

	dir, err := first.CreatePackage(workspace.SourcePath)
	require.NoError(t, err)
	require.NoError(t, dir.CreateFile("A.java", "class A {}"))

	other, err := second.CreatePackage(workspace.SourcePath)
	require.NoError(t, err)

	fsys, err := other.FS()
	require.NoError(t, err)

	_, err = fs.Stat(fsys, "A.java")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNew_InvalidName(t *testing.T) {
	for _, name := range []string{".", "..", "a/b", "a\x00b"} {
		t.Run(name, func(t *testing.T) {
			_, err := workspace.New(workspace.Config{Name: name})
			assert.ErrorIs(t, err, workspace.ErrInvalidIdentifier)
		})
	}
}

func TestNew_NameInUse(t *testing.T) {
	newWorkspace(t, workspace.Config{Name: "taken-workspace"})

	_, err := workspace.New(workspace.Config{Name: "taken-workspace"})
	assert.ErrorIs(t, err, workspace.ErrInvalidIdentifier)
}

func TestWorkspace_Close(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{})

	dir, err := ws.CreatePackage(workspace.SourcePath, "org", "example")
	require.NoError(t, err)

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close(), "second close")
	assert.True(t, ws.Closed())

	tests := []struct {
		name string
		op   func() error
	}{
		{
			name: "create package",
			op: func() error {
				_, err := ws.CreatePackage(workspace.ClassPath)
				return err
			},
		},
		{
			name: "create file",
			op:   func() error { return dir.CreateFile("A.java", "class A {}") },
		},
		{
			name: "copy tree",
			op: func() error {
				fsys := fstest.MapFS{"a.txt": {Data: []byte("a")}}
				return dir.CopyTreeFrom(workspace.FromPackage(fsys, "."), "")
			},
		},
		{
			name: "root fs",
			op: func() error {
				_, err := dir.Root().FS()
				return err
			},
		},
		{
			name: "add root",
			op:   func() error { return ws.AddRoot(workspace.ClassPath, dir.Root()) },
		},
		{
			name: "copy to host",
			op: func() error {
				_, err := ws.CopyToTempDir(t.TempDir())
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), workspace.ErrClosed)
		})
	}
}

func TestWorkspace_NameReusableAfterClose(t *testing.T) {
	ws, err := workspace.New(workspace.Config{Name: "reused-workspace", NoAutoCleanup: true})
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	newWorkspace(t, workspace.Config{Name: "reused-workspace"})
}

func TestWorkspace_CreatePackage(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{Name: "packages"})

	first, err := ws.CreatePackage(workspace.SourcePath, "org", "example")
	require.NoError(t, err)

	second, err := ws.CreatePackage(workspace.SourcePath, "org/other")
	require.NoError(t, err)

	assert.Equal(t, "/packages/source-path/org/example", first.Path())
	assert.Equal(t, "/packages/source-path-2/org/other", second.Path())
	assert.Equal(t, workspace.SourcePath, first.Location())
	assert.Equal(t, []workspace.PathRoot{first.Root(), second.Root()},
		ws.Registry().Roots(workspace.SourcePath))
}

func TestWorkspace_CreatePackage_OutputReused(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{Name: "outputs"})

	first, err := ws.CreatePackage(workspace.ClassOutput)
	require.NoError(t, err)

	second, err := ws.CreatePackage(workspace.ClassOutput, "org")
	require.NoError(t, err)

	assert.True(t, workspace.SameRoot(first.Root(), second.Root()))
	assert.Equal(t, "/outputs/class-output/org", second.Path())
	assert.Len(t, ws.Registry().Roots(workspace.ClassOutput), 1)
}

func TestWorkspace_CreatePackage_Module(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{Name: "modules"})

	loc := workspace.ModuleSourcePath.ForModule("org.example.mod")

	dir, err := ws.CreatePackage(loc, "org", "example")
	require.NoError(t, err)

	assert.Equal(t, "/modules/module-source-path/org.example.mod/org/example", dir.Path())
	assert.Equal(t, []workspace.Location{loc}, ws.Registry().Modules(workspace.ModuleSourcePath))
}

func TestWorkspace_CreatePackage_Errors(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{})

	_, err := ws.CreatePackage(workspace.Location{Name: "UNDECLARED"})
	require.ErrorIs(t, err, workspace.ErrInvalidArgument)

	_, err = ws.CreatePackage(workspace.SourcePath, "..", "escape")
	require.ErrorIs(t, err, workspace.ErrInvalidArgument)

	_, err = ws.CreatePackage(workspace.SourcePath, "/abs")
	require.ErrorIs(t, err, workspace.ErrInvalidArgument)
}

func TestWorkspace_CreatePackage_InvalidModule(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{Name: "contained"})

	tests := []struct {
		name   string
		module string
	}{
		{name: "parent", module: ".."},
		{name: "parent escape", module: "../../escaped"},
		{name: "inner parent", module: "mod/../.."},
		{name: "absolute", module: "/mod"},
		{name: "trailing slash", module: "mod/"},
		{name: "dot", module: "."},
		{name: "backslash", module: `mod\other`},
		{name: "nul", module: "mod\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := workspace.ModuleSourcePath.ForModule(tt.module)

			_, err := ws.CreatePackage(loc)
			require.ErrorIs(t, err, workspace.ErrInvalidIdentifier)

			_, err = ws.CreatePackage(loc, "org")
			require.ErrorIs(t, err, workspace.ErrInvalidIdentifier)

			assert.Empty(t, ws.Registry().Roots(loc))
		})
	}

	fsys, err := ws.Root().FS()
	require.NoError(t, err)

	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing created")
}

func TestWorkspace_CopyToTempDir(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{Name: "exported"})

	src, err := ws.CreatePackage(workspace.SourcePath, "org", "example")
	require.NoError(t, err)
	require.NoError(t, src.CreateFile("Main.java", "class Main {}"))
	require.NoError(t, src.CreateFile("res/data.txt", "data"))

	_, err = ws.CreatePackage(workspace.ClassOutput)
	require.NoError(t, err)

	hostDir, err := ws.CopyToTempDir(t.TempDir())
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(hostDir))
	assert.Contains(t, filepath.Base(hostDir), "exported-")

	data, err := os.ReadFile(filepath.Join(hostDir, "source-path", "org", "example", "Main.java"))
	require.NoError(t, err)
	assert.Equal(t, "class Main {}\n", string(data))

	data, err = os.ReadFile(filepath.Join(hostDir, "source-path", "org", "example", "res", "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data\n", string(data))

	info, err := os.Stat(filepath.Join(hostDir, "class-output"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWorkspace_OutputDirectory(t *testing.T) {
	ws := newWorkspace(t, workspace.Config{Name: "output-dirs"})

	dir, internal, err := ws.OutputDirectory(workspace.ClassOutput)
	require.NoError(t, err)
	require.True(t, internal)
	assert.Equal(t, "/output-dirs/class-output", dir.Path())

	again, internal, err := ws.OutputDirectory(workspace.ClassOutput)
	require.NoError(t, err)
	require.True(t, internal)
	assert.Same(t, dir.Root(), again.Root())

	hostRoot, err := workspace.NewDirRoot(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ws.AddRoot(workspace.SourceOutput, hostRoot))

	_, internal, err = ws.OutputDirectory(workspace.SourceOutput)
	require.NoError(t, err)
	assert.False(t, internal)

	_, _, err = ws.OutputDirectory(workspace.SourcePath)
	assert.ErrorIs(t, err, workspace.ErrInvalidArgument)
}
