// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aibor/compiletest/platform"
	"github.com/aibor/compiletest/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJAR(t *testing.T, name string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o700))

	file, err := os.Create(name)
	require.NoError(t, err)

	writer := zip.NewWriter(file)
	_, err = writer.Create("java/lang/Object.class")
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}

func rootIDs(roots []workspace.PathRoot) []workspace.RootID {
	ids := make([]workspace.RootID, 0, len(roots))
	for _, root := range roots {
		ids = append(ids, root.ID())
	}

	return ids
}

func TestDiscovery_Roots(t *testing.T) {
	javaHome := t.TempDir()
	writeJAR(t, filepath.Join(javaHome, "jre", "lib", "rt.jar"))
	writeJAR(t, filepath.Join(javaHome, "jre", "lib", "charsets.jar"))

	extra := t.TempDir()
	classesDir := filepath.Join(extra, "classes")
	require.NoError(t, os.Mkdir(classesDir, 0o700))

	libJAR := filepath.Join(extra, "lib.jar")
	writeJAR(t, libJAR)

	textFile := filepath.Join(extra, "notes.txt")
	require.NoError(t, os.WriteFile(textFile, nil, 0o600))

	classPath := strings.Join([]string{
		classesDir,
		filepath.Join(extra, "missing"),
		"",
		textFile,
		libJAR,
	}, string(os.PathListSeparator))

	discovery := platform.New(javaHome, classPath)

	roots, err := discovery.Roots()
	require.NoError(t, err)

	expected := []workspace.RootID{
		{Scheme: workspace.SchemeFile, Path: classesDir},
		{Scheme: workspace.SchemeJAR, Path: libJAR},
		{Scheme: workspace.SchemeJAR, Path: filepath.Join(javaHome, "jre", "lib", "charsets.jar")},
		{Scheme: workspace.SchemeJAR, Path: filepath.Join(javaHome, "jre", "lib", "rt.jar")},
	}
	assert.Equal(t, expected, rootIDs(roots))

	for _, root := range roots {
		assert.Nil(t, root.Parent())
	}

	fsys, err := roots[3].FS()
	require.NoError(t, err)

	_, err = fsys.Open("java/lang/Object.class")
	require.NoError(t, err)
}

func TestDiscovery_Roots_Cached(t *testing.T) {
	extra := t.TempDir()
	discovery := platform.New("", extra)

	first, err := discovery.Roots()
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, os.RemoveAll(extra))

	second, err := discovery.Roots()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscovery_Roots_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read anything")
	}

	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0o000))

	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	roots, err := platform.New("", dir).Roots()
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestDiscovery_Empty(t *testing.T) {
	discovery := platform.New("", "")

	roots, err := discovery.Roots()
	require.NoError(t, err)
	assert.Empty(t, roots)

	_, found := discovery.SystemModules()
	assert.False(t, found)
}

func TestDiscovery_SystemModules(t *testing.T) {
	javaHome := t.TempDir()
	jmods := filepath.Join(javaHome, "jmods")
	require.NoError(t, os.Mkdir(jmods, 0o700))

	root, found := platform.New(javaHome, "").SystemModules()
	require.True(t, found)
	assert.Equal(t, jmods, root.Path())

	_, found = platform.New(t.TempDir(), "").SystemModules()
	assert.False(t, found, "no jmods directory")
}

func TestFromEnv(t *testing.T) {
	t.Setenv(platform.EnvJavaHome, "/opt/java")
	t.Setenv(platform.EnvClassPath, "/a:/b")

	discovery := platform.FromEnv()

	assert.Equal(t, "/opt/java", discovery.JavaHome)
	assert.Equal(t, "/a:/b", discovery.ClassPath)
}
