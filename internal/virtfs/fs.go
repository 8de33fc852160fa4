// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
)

const symlinkDepth = 10

// ReadLinkFS is a [fs.FS] with additional methods for reading the target of
// a symbolic link.
//
// Replace with [fs.ReadLinkFS] once go 1.25 is the minimum version.
type ReadLinkFS interface {
	fs.FS

	ReadLink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)
}

var (
	_ fs.FS         = (*FS)(nil)
	_ fs.StatFS     = (*FS)(nil)
	_ fs.SubFS      = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
	_ ReadLinkFS    = (*FS)(nil)
	_ io.Closer     = (*FS)(nil)
)

// FS represents a simple writable [fs.FS] that supports directories, regular
// files and symbolic links.
//
// All methods are safe for concurrent use. Paths are slash separated. Reading
// methods require names valid for [fs.ValidPath]. Modifying methods clean the
// given names and accept a leading slash, so "/a/b" and "a/b" are the same
// file there. Once closed, all methods return a [PathError] wrapping
// [ErrClosed].
type FS struct {
	mu     sync.RWMutex
	root   directory
	closed bool
}

// New creates a new empty [FS].
func New() *FS {
	return &FS{
		root: make(directory),
	}
}

// Close releases all files. It is safe to call it more than once.
func (fsys *FS) Close() error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	fsys.root = nil
	fsys.closed = true

	return nil
}

// Closed returns true if the [FS] has been closed.
func (fsys *FS) Closed() bool {
	fsys.mu.RLock()
	defer fsys.mu.RUnlock()

	return fsys.closed
}

// Open opens the named file. Symbolic links are followed.
//
// It returns a [PathError] in case of errors.
func (fsys *FS) Open(name string) (fs.File, error) {
	fsys.mu.RLock()
	defer fsys.mu.RUnlock()

	dEntry, err := fsys.lookup(name, true)
	if err != nil {
		return nil, &PathError{Op: "open", Path: name, Err: err}
	}

	return dEntry.file.open(dEntry), nil
}

// Stat returns information about the named file. Symbolic links are followed.
func (fsys *FS) Stat(name string) (fs.FileInfo, error) {
	return fsys.stat("stat", name, true)
}

// Lstat returns information about the named file. It does not follow symbolic
// links and returns information about the link itself.
func (fsys *FS) Lstat(name string) (fs.FileInfo, error) {
	return fsys.stat("lstat", name, false)
}

func (fsys *FS) stat(op, name string, follow bool) (fs.FileInfo, error) {
	fsys.mu.RLock()
	defer fsys.mu.RUnlock()

	dEntry, err := fsys.lookup(name, follow)
	if err != nil {
		return nil, &PathError{Op: op, Path: name, Err: err}
	}

	return dEntry.file.open(dEntry).Stat()
}

// ReadFile returns the content of the named regular file.
func (fsys *FS) ReadFile(name string) ([]byte, error) {
	fsys.mu.RLock()
	defer fsys.mu.RUnlock()

	dEntry, err := fsys.lookup(name, true)
	if err != nil {
		return nil, &PathError{Op: "readfile", Path: name, Err: err}
	}

	regular, isRegular := dEntry.file.(*regularFile)
	if !isRegular {
		return nil, &PathError{Op: "readfile", Path: name, Err: ErrFileIsDir}
	}

	return append([]byte(nil), regular.data...), nil
}

// ReadLink returns the target of the symbolic link with the given name.
//
// It returns ErrFileInvalid in case the file is not a symbolic link.
func (fsys *FS) ReadLink(name string) (string, error) {
	fsys.mu.RLock()
	defer fsys.mu.RUnlock()

	dEntry, err := fsys.lookup(name, false)
	if err != nil {
		return "", &PathError{Op: "readlink", Path: name, Err: err}
	}

	symlink, isSymlink := dEntry.file.(symbolicLink)
	if !isSymlink {
		return "", &PathError{Op: "readlink", Path: name, Err: ErrFileInvalid}
	}

	return string(symlink), nil
}

// Sub returns a view of the [FS] rooted at the given directory.
func (fsys *FS) Sub(dir string) (fs.FS, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, &PathError{Op: "sub", Path: dir, Err: ErrFileNotDir}
	}

	return &subFS{fsys: fsys, dir: clean(dir)}, nil
}

// Mkdir creates a new directory with the given name. The parent must exist.
func (fsys *FS) Mkdir(name string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.add(name, &directory{})
	if err != nil {
		return &PathError{Op: "mkdir", Path: name, Err: err}
	}

	return nil
}

// MkdirAll creates a directory with the given name along with all necessary
// parents.
//
// If the directory exists already, it does nothing and returns nil.
func (fsys *FS) MkdirAll(name string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.mkdirAll(clean(name))
	if err != nil {
		return &PathError{Op: "mkdir", Path: name, Err: err}
	}

	return nil
}

func (fsys *FS) mkdirAll(name string) error {
	dEntry, err := fsys.lookup(name, true)
	if err == nil {
		if dEntry.IsDir() {
			return nil
		}

		return ErrFileNotDir
	}

	if !errors.Is(err, ErrFileNotExist) {
		return err
	}

	parent := path.Dir(name)
	if parent != name {
		err = fsys.mkdirAll(parent)
		if err != nil {
			return err
		}
	}

	return fsys.add(name, &directory{})
}

// WriteFile creates the named regular file with the content read from the
// given reader. An existing regular file is truncated. The parent directory
// must exist.
//
// The content is read completely before the file is replaced, so a failing
// reader leaves an existing file untouched.
func (fsys *FS) WriteFile(name string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &PathError{Op: "write", Path: name, Err: err}
	}

	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err = fsys.write(name, data)
	if err != nil {
		return &PathError{Op: "write", Path: name, Err: err}
	}

	return nil
}

func (fsys *FS) write(name string, data []byte) error {
	parent, fileName, err := fsys.parentDir(name)
	if err != nil {
		return err
	}

	existing, exists := (*parent)[fileName]
	if !exists {
		(*parent)[fileName] = &regularFile{data: data}
		return nil
	}

	dEntry, err := fsys.follow(dirEntry{clean(name), existing}, symlinkDepth)
	if err != nil {
		return err
	}

	regular, isRegular := dEntry.file.(*regularFile)
	if !isRegular {
		return ErrFileIsDir
	}

	regular.data = data

	return nil
}

// Symlink adds a new symbolic link at newname that links to oldname.
//
// Relative targets are resolved relative to the directory of the link.
func (fsys *FS) Symlink(oldname, newname string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.add(newname, symbolicLink(oldname))
	if err != nil {
		return &PathError{Op: "symlink", Path: newname, Err: err}
	}

	return nil
}

// Remove removes the named file or empty directory. Symbolic links are
// removed, not their targets.
func (fsys *FS) Remove(name string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.remove(name)
	if err != nil {
		return &PathError{Op: "remove", Path: name, Err: err}
	}

	return nil
}

func (fsys *FS) remove(name string) error {
	parent, fileName, err := fsys.parentDir(name)
	if err != nil {
		return err
	}

	existing, exists := (*parent)[fileName]
	if !exists {
		return ErrFileNotExist
	}

	if dir, isDir := existing.(*directory); isDir && len(*dir) > 0 {
		return ErrDirNotEmpty
	}

	delete(*parent, fileName)

	return nil
}

func (fsys *FS) add(name string, file file) error {
	parent, fileName, err := fsys.parentDir(name)
	if err != nil {
		return err
	}

	return parent.add(fileName, file)
}

func (fsys *FS) parentDir(name string) (*directory, string, error) {
	cleaned := clean(name)
	if cleaned == "." {
		return nil, "", ErrFileInvalid
	}

	dirName, fileName := path.Split(cleaned)

	dEntry, err := fsys.lookup(clean(dirName), true)
	if err != nil {
		return nil, "", err
	}

	dir, isDir := dEntry.file.(*directory)
	if !isDir {
		return nil, "", ErrFileNotDir
	}

	return dir, fileName, nil
}

// lookup finds the named file. The caller must hold the lock. The returned
// entry carries the name as given, not the resolved target name.
func (fsys *FS) lookup(name string, follow bool) (dirEntry, error) {
	if fsys.closed {
		return dirEntry{}, ErrClosed
	}

	if !fs.ValidPath(name) {
		return dirEntry{}, ErrFileInvalid
	}

	dEntry, err := fsys.findNoFollow(name, symlinkDepth)
	if err != nil {
		return dirEntry{}, err
	}

	if follow {
		dEntry, err = fsys.follow(dEntry, symlinkDepth)
		if err != nil {
			return dirEntry{}, err
		}
	}

	dEntry.name = name

	return dEntry, nil
}

func (fsys *FS) find(name string, depth uint) (dirEntry, error) {
	dEntry, err := fsys.findNoFollow(name, depth)
	if err != nil {
		return dirEntry{}, err
	}

	return fsys.follow(dEntry, depth)
}

func (fsys *FS) findNoFollow(name string, depth uint) (dirEntry, error) {
	dEntry := dirEntry{".", &fsys.root}

	if name == "" || name == "." {
		return dEntry, nil
	}

	if !fs.ValidPath(name) {
		return dirEntry{}, ErrFileInvalid
	}

	for segment := range strings.SplitSeq(name, "/") {
		var err error

		dEntry, err = fsys.follow(dEntry, depth)
		if err != nil {
			return dirEntry{}, err
		}

		dir, isDir := dEntry.file.(*directory)
		if !isDir {
			return dirEntry{}, ErrFileNotDir
		}

		next, exists := (*dir)[segment]
		if !exists {
			return dirEntry{}, ErrFileNotExist
		}

		dEntry = dirEntry{path.Join(dEntry.name, segment), next}
	}

	return dEntry, nil
}

func (fsys *FS) follow(dEntry dirEntry, depth uint) (dirEntry, error) {
	symlink, isSymlink := dEntry.file.(symbolicLink)
	if !isSymlink {
		return dEntry, nil
	}

	if depth == 0 {
		return dirEntry{}, ErrSymlinkTooDeep
	}

	target := string(symlink)
	if !path.IsAbs(target) {
		target = path.Join(path.Dir(dEntry.name), target)
	}

	return fsys.find(clean(target), depth-1)
}

func clean(name string) string {
	name = path.Clean("/" + name)
	if name == "/" {
		return "."
	}

	return strings.TrimPrefix(name, "/")
}

var (
	_ ReadLinkFS    = (*subFS)(nil)
	_ fs.StatFS     = (*subFS)(nil)
	_ fs.ReadFileFS = (*subFS)(nil)
)

type subFS struct {
	fsys *FS
	dir  string
}

func (s *subFS) full(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &PathError{Op: op, Path: name, Err: ErrFileInvalid}
	}

	return path.Join(s.dir, name), nil
}

func (s *subFS) Open(name string) (fs.File, error) {
	full, err := s.full("open", name)
	if err != nil {
		return nil, err
	}

	file, err := s.fsys.Open(full)
	if err != nil {
		return nil, s.fixErr(err, name)
	}

	return file, nil
}

func (s *subFS) Stat(name string) (fs.FileInfo, error) {
	full, err := s.full("stat", name)
	if err != nil {
		return nil, err
	}

	info, err := s.fsys.Stat(full)
	if err != nil {
		return nil, s.fixErr(err, name)
	}

	return info, nil
}

func (s *subFS) Lstat(name string) (fs.FileInfo, error) {
	full, err := s.full("lstat", name)
	if err != nil {
		return nil, err
	}

	info, err := s.fsys.Lstat(full)
	if err != nil {
		return nil, s.fixErr(err, name)
	}

	return info, nil
}

func (s *subFS) ReadFile(name string) ([]byte, error) {
	full, err := s.full("readfile", name)
	if err != nil {
		return nil, err
	}

	data, err := s.fsys.ReadFile(full)
	if err != nil {
		return nil, s.fixErr(err, name)
	}

	return data, nil
}

func (s *subFS) ReadLink(name string) (string, error) {
	full, err := s.full("readlink", name)
	if err != nil {
		return "", err
	}

	target, err := s.fsys.ReadLink(full)
	if err != nil {
		return "", s.fixErr(err, name)
	}

	return target, nil
}

// fixErr reports errors with the path as seen by the caller of the view.
func (s *subFS) fixErr(err error, name string) error {
	pathErr, ok := err.(*PathError) //nolint:errorlint
	if !ok {
		return err
	}

	return &PathError{
		Op:   pathErr.Op,
		Path: name,
		Err:  fmt.Errorf("%s: %w", path.Join(s.dir, name), pathErr.Err),
	}
}
