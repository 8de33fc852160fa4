// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// DefaultManifest is written as "META-INF/MANIFEST.MF" into JAR archives of
// trees that do not have a manifest.
const DefaultManifest = "Manifest-Version: 1.0\r\nCreated-By: compiletest\r\n\r\n"

var _ Writer = (*JARWriter)(nil)

// JARWriter implements [Writer] for JAR archives.
//
// Entries carry no modification time and fixed permissions. Directory
// entries are written only once, so a directory can be written before the
// walk reaches it.
type JARWriter struct {
	zipWriter *zip.Writer
	written   map[string]bool
}

// NewJARWriter creates a new archive writer.
func NewJARWriter(w io.Writer) *JARWriter {
	return &JARWriter{
		zipWriter: zip.NewWriter(w),
		written:   make(map[string]bool),
	}
}

// Close writes the central directory. It does not close the underlying
// [io.Writer].
func (w *JARWriter) Close() error {
	err := w.zipWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *JARWriter) create(name string, mode fs.FileMode, method uint16) (io.Writer, error) {
	header := &zip.FileHeader{
		Name:   name,
		Method: method,
	}
	header.SetMode(mode)

	writer, err := w.zipWriter.CreateHeader(header)
	if err != nil {
		return nil, fmt.Errorf("write header for %s: %w", name, err)
	}

	w.written[name] = true

	return writer, nil
}

// WriteDirectory adds a directory entry for the given path to the archive.
func (w *JARWriter) WriteDirectory(path string) error {
	name := strings.TrimSuffix(path, separator) + separator
	if w.written[name] {
		return nil
	}

	_, err := w.create(name, fs.ModeDir|dirMode, zip.Store)

	return err
}

// WriteLink fails with [ErrFileTypeUnsupported]. Class loaders do not
// resolve links in archives, so [WriteFS] stores the link's target content
// instead.
func (w *JARWriter) WriteLink(path, _ string) error {
	return &PathError{Op: "write", Path: path, Err: ErrFileTypeUnsupported}
}

func (*JARWriter) followsLinks() {}

// WriteRegular adds a deflate compressed regular file with the given content.
func (w *JARWriter) WriteRegular(path string, data []byte) error {
	body, err := w.create(path, fileMode, zip.Deflate)
	if err != nil {
		return err
	}

	if _, err := body.Write(data); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}
