// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"bytes"
	"io"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
	"time"
)

const (
	dirFileMode     = 0o755
	regularFileMode = 0o644
	symlinkFileMode = 0o777
)

type file interface {
	open(entry dirEntry) fs.File
	mode() fs.FileMode
}

var (
	_ fs.FileInfo = (*fileInfo)(nil)
	_ fs.DirEntry = (*fileInfo)(nil)
	_ fs.DirEntry = (*dirEntry)(nil)
)

type dirEntry struct {
	name string
	file file
}

func (e *dirEntry) Name() string      { return path.Base(e.name) }
func (e *dirEntry) Type() fs.FileMode { return e.file.mode().Type() }
func (e *dirEntry) IsDir() bool       { return e.file.mode().IsDir() }
func (e *dirEntry) String() string    { return fs.FormatDirEntry(e) }

func (e *dirEntry) Info() (fs.FileInfo, error) {
	return e.file.open(*e).Stat()
}

type fileInfo struct {
	dirEntry

	size int64
}

func (i *fileInfo) Size() int64       { return i.size }
func (i *fileInfo) Mode() fs.FileMode { return i.file.mode() }
func (*fileInfo) ModTime() time.Time  { return time.Time{} }
func (*fileInfo) Sys() any            { return nil }
func (i *fileInfo) String() string    { return fs.FormatFileInfo(i) }

var (
	_ fs.File        = (*openFile)(nil)
	_ fs.ReadDirFile = (*openFile)(nil)
	_ io.ReaderAt    = (*openFile)(nil)
	_ io.Seeker      = (*openFile)(nil)
)

type openFile struct {
	info    fileInfo
	reader  *bytes.Reader
	entries []fs.DirEntry
	offset  int
}

// Stat implements [fs.File].
func (f *openFile) Stat() (fs.FileInfo, error) {
	return &f.info, nil
}

// content returns the reader of a regular file or symbolic link. Directories
// have no content.
func (f *openFile) content(op string) (*bytes.Reader, error) {
	if f.reader == nil {
		return nil, &PathError{Op: op, Path: f.info.name, Err: ErrFileIsDir}
	}

	return f.reader, nil
}

// Read implements [fs.File].
func (f *openFile) Read(b []byte) (int, error) {
	r, err := f.content("read")
	if err != nil {
		return 0, err
	}

	return r.Read(b) //nolint:wrapcheck
}

// ReadAt implements [io.ReaderAt].
func (f *openFile) ReadAt(b []byte, off int64) (int, error) {
	r, err := f.content("read")
	if err != nil {
		return 0, err
	}

	return r.ReadAt(b, off) //nolint:wrapcheck
}

// Seek implements [io.Seeker].
func (f *openFile) Seek(offset int64, whence int) (int64, error) {
	r, err := f.content("seek")
	if err != nil {
		return 0, err
	}

	return r.Seek(offset, whence) //nolint:wrapcheck
}

// Close implements [fs.File].
func (*openFile) Close() error {
	return nil
}

// ReadDir implements [fs.ReadDirFile].
func (f *openFile) ReadDir(count int) ([]fs.DirEntry, error) {
	if !f.info.IsDir() {
		return nil, &PathError{Op: "readdir", Path: f.info.name, Err: ErrFileNotDir}
	}

	rest := f.entries[f.offset:]

	switch {
	case count <= 0:
	case len(rest) == 0:
		return nil, io.EOF
	case len(rest) > count:
		rest = rest[:count]
	}

	f.offset += len(rest)

	return rest, nil
}

var _ file = (*regularFile)(nil)

// regularFile holds the content of a regular file. The content slice is never
// modified in place. Writes replace it, so open readers keep their snapshot.
type regularFile struct {
	data []byte
}

func (*regularFile) mode() fs.FileMode {
	return regularFileMode
}

func (f *regularFile) open(info dirEntry) fs.File {
	return &openFile{
		info: fileInfo{
			dirEntry: info,
			size:     int64(len(f.data)),
		},
		reader: bytes.NewReader(f.data),
	}
}

var _ file = (*symbolicLink)(nil)

type symbolicLink string

func (symbolicLink) mode() fs.FileMode {
	return symlinkFileMode | fs.ModeSymlink
}

func (l symbolicLink) open(info dirEntry) fs.File {
	reader := bytes.NewReader([]byte(l))

	return &openFile{
		info: fileInfo{
			dirEntry: info,
			size:     reader.Size(),
		},
		reader: reader,
	}
}

var _ file = (*directory)(nil)

type directory map[string]file

func (*directory) mode() fs.FileMode {
	return dirFileMode | fs.ModeDir
}

func (d *directory) open(info dirEntry) fs.File {
	return &openFile{
		info: fileInfo{
			dirEntry: info,
		},
		entries: d.entries(info.name),
	}
}

func (d *directory) entries(base string) []fs.DirEntry {
	entries := make([]fs.DirEntry, 0, len(*d))

	for _, name := range slices.Sorted(maps.Keys(*d)) {
		entries = append(entries, &dirEntry{
			name: path.Join(base, name),
			file: (*d)[name],
		})
	}

	return entries
}

func (d *directory) add(name string, file file) error {
	if name == "." || name == "" || strings.Contains(name, "/") {
		return ErrFileInvalid
	}

	_, exists := (*d)[name]
	if exists {
		return ErrFileExist
	}

	(*d)[name] = file

	return nil
}
