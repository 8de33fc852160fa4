// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

// FilePath is a [flag.Value] for output and config file paths. It is made
// absolute on set, so the value stays valid if the working directory changes.
type FilePath string

// String implements [flag.Value].
func (f *FilePath) String() string {
	return string(*f)
}

// Set implements [flag.Value].
func (f *FilePath) Set(s string) error {
	path, err := AbsoluteFilePath(s)
	if err != nil {
		return err
	}

	*f = FilePath(path)

	return nil
}

// AbsoluteFilePath returns the absolute and cleaned path of the given
// non-empty path.
func AbsoluteFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyFilePath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}

// ValidateDirPath returns an [os.PathError] if the given path is not an
// existing directory.
func ValidateDirPath(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !info.IsDir() {
		return &os.PathError{Op: "source", Path: name, Err: ErrNotDirectory}
	}

	return nil
}
