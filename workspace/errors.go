// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/aibor/compiletest/internal/virtfs"
)

var (
	// ErrInvalidIdentifier is returned if a workspace name is not a valid
	// single path segment or is in use already.
	ErrInvalidIdentifier = virtfs.ErrInvalidIdentifier

	// ErrInvalidArgument is returned for invalid arguments, like absolute
	// target paths or undeclared locations.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrClosed is returned for any operation on a closed workspace.
	ErrClosed = virtfs.ErrClosed

	// ErrNotFound is returned if a source resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrIO is returned if copying fails. It wraps the underlying error.
	ErrIO = errors.New("i/o failure")
)

// PathError records an error and the operation and file path that caused it.
type PathError = fs.PathError

// wrapIOErr classifies errors of file operations. Errors of closed trees are
// returned as is, missing files are reported as [ErrNotFound] and anything
// else as [ErrIO].
func wrapIOErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrClosed),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
}
