// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"

	"github.com/cavaliergopher/cpio"
)

const (
	numLinks  = 2
	dirMode   = 0o755
	fileMode  = 0o644
	linkMode  = 0o777
	manifest  = "META-INF/MANIFEST.MF"
	separator = "/"
)

var _ Writer = (*CPIOWriter)(nil)

// CPIOWriter implements [Writer] for newc cpio archives.
//
// Headers carry only name, mode, size and link count, so equal trees always
// produce equal archives.
type CPIOWriter struct {
	cpioWriter *cpio.Writer
}

// NewCPIOWriter creates a new archive writer.
func NewCPIOWriter(w io.Writer) *CPIOWriter {
	return &CPIOWriter{cpio.NewWriter(w)}
}

// Close writes the trailer and flushes. It does not close the underlying
// [io.Writer].
func (w *CPIOWriter) Close() error {
	if err := w.cpioWriter.Close(); err != nil {
		return fmt.Errorf("close cpio: %w", err)
	}

	return nil
}

// WriteDirectory adds a directory entry.
func (w *CPIOWriter) WriteDirectory(path string) error {
	return w.writeEntry(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | dirMode,
		Links: numLinks,
	}, nil)
}

// WriteLink adds a symbolic link. The link body is the target path.
func (w *CPIOWriter) WriteLink(path, target string) error {
	return w.writeEntry(&cpio.Header{
		Name: path,
		Mode: cpio.TypeSymlink | linkMode,
	}, []byte(target))
}

// WriteRegular adds a regular file with the given content.
func (w *CPIOWriter) WriteRegular(path string, data []byte) error {
	return w.writeEntry(&cpio.Header{
		Name: path,
		Mode: cpio.TypeReg | fileMode,
	}, data)
}

func (w *CPIOWriter) writeEntry(hdr *cpio.Header, body []byte) error {
	hdr.Size = int64(len(body))

	if err := w.cpioWriter.WriteHeader(hdr); err != nil {
		return fmt.Errorf("cpio header %s: %w", hdr.Name, err)
	}

	if len(body) == 0 {
		return nil
	}

	if _, err := w.cpioWriter.Write(body); err != nil {
		return fmt.Errorf("cpio body %s: %w", hdr.Name, err)
	}

	return nil
}
