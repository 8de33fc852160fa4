// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
)

// Writer defines the archive writer interface.
type Writer interface {
	WriteRegular(path string, data []byte) error
	WriteDirectory(path string) error
	WriteLink(path, target string) error
	Close() error
}

// ReadLinkFS is a [fs.FS] with an additional method for reading the target of
// a symbolic link.
//
// Replace with [fs.ReadLinkFS] once go 1.25 is the minimum version.
type ReadLinkFS interface {
	fs.FS

	ReadLink(name string) (string, error)
}

// linkFollower is implemented by writers of formats that can not hold
// symbolic links.
type linkFollower interface {
	followsLinks()
}

// WriteFS writes all files of the given [fs.FS] into the given [Writer].
//
// Files are walked in lexical order. The root directory itself is not
// written. Symbolic links are written as links if the [fs.FS] implements
// [ReadLinkFS] and the format supports links. Otherwise they are
// dereferenced. Any error aborts the walk.
func WriteFS(fsys fs.FS, writer Writer) error {
	return fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if name == "." {
			return nil
		}

		return writeEntry(fsys, writer, name, entry.Type())
	})
}

func writeEntry(fsys fs.FS, writer Writer, name string, typ fs.FileMode) error {
	switch {
	case typ.IsDir():
		return writer.WriteDirectory(name)
	case typ&fs.ModeSymlink != 0:
		return writeLink(fsys, writer, name)
	case typ.IsRegular():
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		return writer.WriteRegular(name, data)
	default:
		return &PathError{Op: "package", Path: name, Err: ErrFileTypeUnsupported}
	}
}

func writeLink(fsys fs.FS, writer Writer, name string) error {
	_, follow := writer.(linkFollower)

	if rlFS, ok := fsys.(ReadLinkFS); ok && !follow {
		target, err := rlFS.ReadLink(name)
		if err != nil {
			return fmt.Errorf("read link: %w", err)
		}

		return writer.WriteLink(name, target)
	}

	info, err := fs.Stat(fsys, name)
	if err != nil {
		return fmt.Errorf("dereference link: %w", err)
	}

	slog.Debug("Dereferencing symbolic link",
		slog.String("path", name),
		slog.String("type", info.Mode().Type().String()),
	)

	switch {
	// Directories behind links are not descended into, to not run into
	// loops.
	case info.IsDir():
		return writer.WriteDirectory(name)
	case info.Mode().IsRegular():
		return writeEntry(fsys, writer, name, 0)
	default:
		return &PathError{Op: "package", Path: name, Err: ErrFileTypeUnsupported}
	}
}

// closeWriter closes the writer and joins its error with the given one.
func closeWriter(writer Writer, err error) error {
	closeErr := writer.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("close: %w", closeErr)
	}

	return errors.Join(err, closeErr)
}
