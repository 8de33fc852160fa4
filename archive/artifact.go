// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/aibor/compiletest/internal/virtfs"
	"github.com/cavaliergopher/cpio"
	"github.com/zeebo/blake3"
)

// Artifact is an immutable in-memory archive.
//
// It holds no reference to the tree it was created from. Later changes of
// the tree do not affect it.
type Artifact struct {
	format Format
	data   []byte
}

// Create packages all files of the given [fs.FS] into a new [Artifact] of
// the given [Format].
//
// For [FormatJAR] a default manifest is added, if the tree does not have
// one. Any error aborts packaging, so there is never a partial archive. The
// error wraps [ErrPackaging].
func Create(fsys fs.FS, format Format) (*Artifact, error) {
	var buf bytes.Buffer

	writer, err := format.newWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	err = writeArchive(fsys, format, writer)

	err = closeWriter(writer, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	artifact := &Artifact{
		format: format,
		data:   buf.Bytes(),
	}

	slog.Debug("Created archive",
		slog.String("format", string(format)),
		slog.Int("size", artifact.Len()),
	)

	return artifact, nil
}

func writeArchive(fsys fs.FS, format Format, writer Writer) error {
	if format == FormatJAR {
		err := addDefaultManifest(fsys, writer)
		if err != nil {
			return err
		}
	}

	return WriteFS(fsys, writer)
}

func addDefaultManifest(fsys fs.FS, writer Writer) error {
	_, err := fs.Stat(fsys, manifest)
	if err == nil {
		return nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat manifest: %w", err)
	}

	err = writer.WriteDirectory(path.Dir(manifest))
	if err != nil {
		return err
	}

	return writer.WriteRegular(manifest, []byte(DefaultManifest))
}

// Format returns the archive's [Format].
func (a *Artifact) Format() Format {
	return a.format
}

// Len returns the size of the archive in bytes.
func (a *Artifact) Len() int {
	return len(a.data)
}

// Bytes returns a copy of the archive.
func (a *Artifact) Bytes() []byte {
	return bytes.Clone(a.data)
}

// Reader returns a new reader for the archive.
func (a *Artifact) Reader() *bytes.Reader {
	return bytes.NewReader(a.data)
}

// WriteTo implements [io.WriterTo].
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	return a.Reader().WriteTo(w) //nolint:wrapcheck
}

// Digest returns the hex encoded BLAKE3 hash of the archive.
func (a *Artifact) Digest() string {
	sum := blake3.Sum256(a.data)
	return hex.EncodeToString(sum[:])
}

// FS returns a read only [fs.FS] view of the archive's content.
func (a *Artifact) FS() (fs.FS, error) {
	switch a.format {
	case FormatJAR:
		reader, err := zip.NewReader(a.Reader(), int64(a.Len()))
		if err != nil {
			return nil, fmt.Errorf("open zip: %w", err)
		}

		return reader, nil
	case FormatCPIO:
		return readCPIO(a.Reader())
	default:
		return nil, ErrFormatInvalid
	}
}

func readCPIO(r io.Reader) (fs.FS, error) {
	fsys := virtfs.New()
	reader := cpio.NewReader(r)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return fsys, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read cpio: %w", err)
		}

		err = extractCPIOEntry(fsys, reader, hdr)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", hdr.Name, err)
		}
	}
}

func extractCPIOEntry(fsys *virtfs.FS, reader *cpio.Reader, hdr *cpio.Header) error {
	name := strings.TrimPrefix(path.Clean("/"+hdr.Name), "/")
	if name == "" {
		return nil
	}

	err := fsys.MkdirAll(path.Dir(name))
	if err != nil {
		return err //nolint:wrapcheck
	}

	switch hdr.Mode &^ cpio.ModePerm {
	case cpio.TypeDir:
		return fsys.MkdirAll(name) //nolint:wrapcheck
	case cpio.TypeSymlink:
		return fsys.Symlink(hdr.Linkname, name) //nolint:wrapcheck
	case cpio.TypeReg:
		return fsys.WriteFile(name, reader) //nolint:wrapcheck
	default:
		return ErrFileTypeUnsupported
	}
}
