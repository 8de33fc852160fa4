// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"io/fs"
)

var (
	// ErrPackaging is returned if a tree can not be packaged. It wraps the
	// underlying error.
	ErrPackaging = errors.New("packaging failed")

	// ErrFormatInvalid is returned for unknown archive formats.
	ErrFormatInvalid = errors.New("invalid archive format")

	// ErrFileTypeUnsupported is returned for files that are neither
	// directories, regular files nor symbolic links.
	ErrFileTypeUnsupported = errors.New("unsupported file type")
)

// PathError records an error and the operation and file path that caused it.
type PathError = fs.PathError
