// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aibor/compiletest/workspace"
)

// Environment variables read by [FromEnv].
const (
	EnvJavaHome  = "JAVA_HOME"
	EnvClassPath = "COMPILETEST_PLATFORM_CLASSPATH"
)

// Current returns the [Discovery] for the process environment. It is
// created once on first use.
var Current = sync.OnceValue(FromEnv)

// Discovery finds platform roots of a Java installation.
//
// Results are computed on first use and cached. A Discovery must not be
// copied after first use.
type Discovery struct {
	// JavaHome is the root directory of the Java installation. May be empty.
	JavaHome string
	// ClassPath is an additional list of class path entries separated by
	// [os.PathListSeparator].
	ClassPath string

	rootsOnce sync.Once
	roots     []workspace.PathRoot
	rootsErr  error

	modulesOnce sync.Once
	modules     workspace.PathRoot
}

// New creates a new [Discovery] for the given Java home and class path.
func New(javaHome, classPath string) *Discovery {
	return &Discovery{
		JavaHome:  javaHome,
		ClassPath: classPath,
	}
}

// FromEnv creates a new [Discovery] from the environment variables
// [EnvJavaHome] and [EnvClassPath].
func FromEnv() *Discovery {
	return New(os.Getenv(EnvJavaHome), os.Getenv(EnvClassPath))
}

// Roots returns the platform class path roots. Entries that do not exist or
// are not readable are skipped. Directories become directory roots and JAR
// or ZIP files archive roots.
func (d *Discovery) Roots() ([]workspace.PathRoot, error) {
	d.rootsOnce.Do(func() {
		d.roots, d.rootsErr = d.findRoots()
	})

	return d.roots, d.rootsErr
}

func (d *Discovery) findRoots() ([]workspace.PathRoot, error) {
	entries, err := d.entries()
	if err != nil {
		return nil, err
	}

	var roots []workspace.PathRoot

	for _, entry := range entries {
		root, err := newRoot(entry)
		if errors.Is(err, errSkip) {
			slog.Debug("Skipping platform class path entry",
				slog.String("entry", entry),
				slog.Any("reason", err),
			)

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("platform class path entry %s: %w", entry, err)
		}

		roots = append(roots, root)
	}

	slog.Debug("Discovered platform class path", slog.Int("roots", len(roots)))

	return roots, nil
}

func (d *Discovery) entries() ([]string, error) {
	var entries []string

	for _, entry := range filepath.SplitList(d.ClassPath) {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}

	if d.JavaHome == "" {
		return entries, nil
	}

	// Legacy layouts ship the platform classes as archives.
	jars, err := filepath.Glob(filepath.Join(d.JavaHome, "jre", "lib", "*.jar"))
	if err != nil {
		return nil, fmt.Errorf("glob platform archives: %w", err)
	}

	return append(entries, jars...), nil
}

var errSkip = errors.New("skipped")

func newRoot(entry string) (workspace.PathRoot, error) {
	err := checkReadable(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSkip, err)
	}

	info, err := os.Stat(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSkip, err)
	}

	switch {
	case info.IsDir():
		return workspace.NewDirRoot(entry) //nolint:wrapcheck
	case isArchive(entry):
		return workspace.NewArchiveFileRoot(entry) //nolint:wrapcheck
	default:
		return nil, fmt.Errorf("%w: not a directory or archive", errSkip)
	}
}

func isArchive(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jar", ".zip":
		return true
	default:
		return false
	}
}

// SystemModules returns the root of the system modules directory of the
// Java installation. It returns false if there is none.
func (d *Discovery) SystemModules() (workspace.PathRoot, bool) {
	d.modulesOnce.Do(func() {
		if d.JavaHome == "" {
			return
		}

		dir := filepath.Join(d.JavaHome, "jmods")

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() || checkReadable(dir) != nil {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Ignoring system modules",
					slog.String("dir", dir),
					slog.Any("error", err),
				)
			}

			return
		}

		root, err := workspace.NewDirRoot(dir)
		if err == nil {
			d.modules = root
		}
	})

	return d.modules, d.modules != nil
}
