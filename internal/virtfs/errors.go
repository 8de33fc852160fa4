// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"errors"
	"io/fs"
)

var (
	// ErrFileNotExist is returned if a file that is looked up does not exist.
	ErrFileNotExist = fs.ErrNotExist

	// ErrFileExist is returned if a file exists that was not expected.
	ErrFileExist = fs.ErrExist

	// ErrFileInvalid is returned if a file is invalid for the requested
	// operation.
	ErrFileInvalid = fs.ErrInvalid

	// ErrClosed is returned for any operation on a closed [FS].
	ErrClosed = fs.ErrClosed

	// ErrFileNotDir is returned if a file exists but is not a directory.
	ErrFileNotDir = errors.New("not a directory")

	// ErrFileIsDir is returned if a file is a directory but a regular file is
	// required.
	ErrFileIsDir = errors.New("is a directory")

	// ErrDirNotEmpty is returned on removal of a non empty directory.
	ErrDirNotEmpty = errors.New("directory not empty")

	// ErrSymlinkTooDeep is returned if too many symbolic links are followed.
	ErrSymlinkTooDeep = errors.New("too many levels of symbolic links")

	// ErrInvalidIdentifier is returned if a tree name is not a valid single
	// path segment or is in use already.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// PathError records an error and the operation and file path that caused it.
type PathError = fs.PathError
