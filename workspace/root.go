// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/aibor/compiletest/archive"
	"github.com/aibor/compiletest/internal/virtfs"
)

// Scheme identifies the kind of storage a [PathRoot] is backed by.
type Scheme string

// Known schemes.
const (
	SchemeMemory Scheme = "memory"
	SchemeFile   Scheme = "file"
	SchemeJAR    Scheme = "jar"
)

// RootID identifies a [PathRoot]. Two roots with equal IDs are the same
// root.
type RootID struct {
	Scheme Scheme
	Path   string
}

// String implements [fmt.Stringer].
func (id RootID) String() string {
	return string(id.Scheme) + ":" + id.Path
}

// PathRoot is a directory like root that can be registered for a
// [Location].
//
// A PathRoot never owns the storage it refers to. Roots in a workspace's
// tree become unusable once the workspace is closed.
type PathRoot interface {
	// ID returns the identity of the root.
	ID() RootID
	// Path returns the absolute path of the root.
	Path() string
	// URI returns the URI of the root.
	URI() string
	// URL returns the URI of the root as [url.URL].
	URL() *url.URL
	// Parent returns the root the root is nested in, or nil.
	Parent() PathRoot
	// FS returns a read only view of the root's content.
	FS() (fs.FS, error)
	// AsArchive packages the root's content into a JAR [archive.Artifact].
	AsArchive() (*archive.Artifact, error)
}

// SameRoot returns true if both roots have the same identity.
func SameRoot(a, b PathRoot) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.ID() == b.ID()
}

func packageRoot(root PathRoot) (*archive.Artifact, error) {
	fsys, err := root.FS()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", archive.ErrPackaging, root.URI(), err)
	}

	return archive.Create(fsys, archive.FormatJAR) //nolint:wrapcheck
}

var _ PathRoot = (*memRoot)(nil)

// memRoot is a directory in a workspace tree.
type memRoot struct {
	tree *virtfs.Tree
	rel  string
}

func (r *memRoot) ID() RootID {
	return RootID{Scheme: SchemeMemory, Path: r.Path()}
}

func (r *memRoot) Path() string {
	return path.Join(r.tree.Root(), r.rel)
}

func (r *memRoot) URI() string {
	return r.URL().String()
}

func (r *memRoot) URL() *url.URL {
	return &url.URL{Scheme: string(SchemeMemory), Path: r.Path() + "/"}
}

func (*memRoot) Parent() PathRoot {
	return nil
}

func (r *memRoot) FS() (fs.FS, error) {
	return r.tree.FS().Sub(r.tree.Resolve(r.rel)) //nolint:wrapcheck
}

func (r *memRoot) AsArchive() (*archive.Artifact, error) {
	return packageRoot(r)
}

// resolve returns the path of the given relative path in the tree's FS.
func (r *memRoot) resolve(rel string) string {
	return r.tree.Resolve(path.Join(r.rel, rel))
}

var _ PathRoot = (*dirRoot)(nil)

type dirRoot struct {
	path string
}

// NewDirRoot returns a [PathRoot] for a directory on the host file system.
//
// Relative paths are made absolute. The directory does not need to exist
// yet. [PathRoot.FS] fails with [ErrNotFound] as long as it does not.
func NewDirRoot(dir string) (PathRoot, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return &dirRoot{path: abs}, nil
}

func (r *dirRoot) ID() RootID {
	return RootID{Scheme: SchemeFile, Path: r.path}
}

func (r *dirRoot) Path() string {
	return r.path
}

func (r *dirRoot) URI() string {
	return r.URL().String()
}

func (r *dirRoot) URL() *url.URL {
	return &url.URL{Scheme: string(SchemeFile), Path: filepath.ToSlash(r.path) + "/"}
}

func (*dirRoot) Parent() PathRoot {
	return nil
}

func (r *dirRoot) FS() (fs.FS, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, wrapIOErr(err)
	}

	if !info.IsDir() {
		return nil, &PathError{Op: "open", Path: r.path, Err: ErrInvalidArgument}
	}

	return os.DirFS(r.path), nil
}

func (r *dirRoot) AsArchive() (*archive.Artifact, error) {
	return packageRoot(r)
}

var _ PathRoot = (*archiveRoot)(nil)

type archiveRoot struct {
	path   string
	outer  Scheme
	parent PathRoot
	open   func() (*zip.Reader, error)
}

// NewArchiveRoot returns a [PathRoot] for the given in-memory JAR or ZIP
// archive.
//
// The name is used as path of the root. If a parent is given, the name is
// relative to the parent's path, like a nested archive is.
func NewArchiveRoot(name string, data []byte, parent PathRoot) PathRoot {
	rootPath := path.Join("/", name)
	outer := SchemeMemory

	if parent != nil {
		rootPath = path.Join(parent.Path(), name)
		outer = Scheme(parent.URL().Scheme)
	}

	return &archiveRoot{
		path:   rootPath,
		outer:  outer,
		parent: parent,
		open: func() (*zip.Reader, error) {
			return zip.NewReader(bytes.NewReader(data), int64(len(data)))
		},
	}
}

// NewArchiveFileRoot returns a [PathRoot] for a JAR or ZIP archive on the
// host file system. The archive is read each time [PathRoot.FS] is called.
func NewArchiveFileRoot(file string) (PathRoot, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return &archiveRoot{
		path:  abs,
		outer: SchemeFile,
		open: func() (*zip.Reader, error) {
			data, err := os.ReadFile(abs)
			if err != nil {
				return nil, wrapIOErr(err)
			}

			return zip.NewReader(bytes.NewReader(data), int64(len(data)))
		},
	}, nil
}

func (r *archiveRoot) ID() RootID {
	return RootID{Scheme: SchemeJAR, Path: r.path}
}

func (r *archiveRoot) Path() string {
	return r.path
}

func (r *archiveRoot) URI() string {
	return r.URL().String()
}

func (r *archiveRoot) URL() *url.URL {
	inner := url.URL{Scheme: string(r.outer), Path: filepath.ToSlash(r.path)}

	return &url.URL{Scheme: string(SchemeJAR), Opaque: inner.String() + "!/"}
}

func (r *archiveRoot) Parent() PathRoot {
	return r.parent
}

func (r *archiveRoot) FS() (fs.FS, error) {
	reader, err := r.open()
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", r.path, err)
	}

	return reader, nil
}

func (r *archiveRoot) AsArchive() (*archive.Artifact, error) {
	return packageRoot(r)
}
