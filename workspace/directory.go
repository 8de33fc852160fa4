// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/aibor/compiletest/internal/virtfs"
)

// Directory is a handle for a directory in a location root of a
// [Workspace].
//
// Target paths given to its methods are slash separated and relative to the
// directory. Absolute paths and paths leaving the directory are rejected
// with [ErrInvalidArgument]. Missing parent directories are created and
// existing files are replaced.
type Directory struct {
	ws   *Workspace
	loc  Location
	root *memRoot
	rel  string
}

// Location returns the location the directory's root is registered for.
func (d *Directory) Location() Location {
	return d.loc
}

// Root returns the location root the directory is in.
func (d *Directory) Root() PathRoot {
	return d.root
}

// Path returns the absolute path of the directory.
func (d *Directory) Path() string {
	return path.Join(d.root.Path(), d.rel)
}

// FS returns a read only view of the directory's content.
func (d *Directory) FS() (fs.FS, error) {
	fsys, err := d.ws.tree.FS().Sub(d.root.resolve(d.rel))
	if err != nil {
		return nil, wrapIOErr(err)
	}

	return fsys, nil
}

// resolve returns the target path relative to the location root.
func (d *Directory) resolve(op, target string) (string, error) {
	slashed := filepath.ToSlash(target)
	if path.IsAbs(slashed) || filepath.IsAbs(target) {
		return "", &PathError{Op: op, Path: target, Err: fmt.Errorf(
			"%w: absolute path", ErrInvalidArgument)}
	}

	rel := path.Clean(slashed)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", &PathError{Op: op, Path: target, Err: fmt.Errorf(
			"%w: path escapes %s", ErrInvalidArgument, d.Path())}
	}

	return path.Join(d.rel, rel), nil
}

// CreatePackage creates the directory with the given path segments and
// returns a handle for it.
func (d *Directory) CreatePackage(segments ...string) (*Directory, error) {
	target := path.Join(segments...)
	if target == "" {
		return nil, fmt.Errorf("%w: empty package", ErrInvalidArgument)
	}

	rel, err := d.resolve("mkdir", target)
	if err != nil {
		return nil, err
	}

	err = d.ws.tree.FS().MkdirAll(d.root.resolve(rel))
	if err != nil {
		return nil, wrapIOErr(err)
	}

	return &Directory{ws: d.ws, loc: d.loc, root: d.root, rel: rel}, nil
}

// CreateFile creates the target file with the given lines. Each line is
// terminated by a newline.
func (d *Directory) CreateFile(target string, lines ...string) error {
	var content strings.Builder

	for _, line := range lines {
		content.WriteString(line)
		content.WriteByte('\n')
	}

	return d.CopyFrom(FromReader(strings.NewReader(content.String())), target)
}

// CopyFrom copies a single file [Source] to the target file.
func (d *Directory) CopyFrom(src Source, target string) error {
	if src.isTree() {
		return fmt.Errorf("%w: %s is a tree source", ErrInvalidArgument, src)
	}

	rel, err := d.resolve("copy", target)
	if err != nil {
		return err
	}

	if rel == d.rel {
		return &PathError{Op: "copy", Path: target, Err: fmt.Errorf(
			"%w: target is the directory itself", ErrInvalidArgument)}
	}

	reader, scheme, err := src.open(d.ws)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer reader.Close()

	err = d.writeFile(rel, maybeBuffer(reader, scheme))
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	slog.Debug("Copied file",
		slog.String("source", src.String()),
		slog.String("target", path.Join(d.root.Path(), rel)),
	)

	return nil
}

func (d *Directory) writeFile(rel string, reader io.Reader) error {
	fsys := d.ws.tree.FS()
	name := d.root.resolve(rel)

	err := fsys.MkdirAll(path.Dir(name))
	if err != nil {
		return wrapIOErr(err)
	}

	return wrapIOErr(fsys.WriteFile(name, reader))
}

type treeEntry struct {
	name string
	dest string
	typ  fs.FileMode
}

// CopyTreeFrom copies all files of a tree [Source] into the target
// directory. An empty target is the directory itself.
//
// Directories, regular files and symbolic links are copied. Symbolic links
// are dereferenced if the source can not read them. Unless the workspace
// allows empty trees, it fails with [ErrNotFound] if the source has no
// files. Nothing is written in that case.
func (d *Directory) CopyTreeFrom(src Source, target string) error {
	if !src.isTree() {
		return fmt.Errorf("%w: %s is not a tree source", ErrInvalidArgument, src)
	}

	rel, err := d.resolve("copytree", target)
	if err != nil {
		return err
	}

	err = d.checkOverlap(src, rel)
	if err != nil {
		return err
	}

	fsys, err := src.tree()
	if err != nil {
		return fmt.Errorf("copy tree %s: %w", src, wrapIOErr(err))
	}

	entries, files, err := collectTree(fsys, rel)
	if err != nil {
		return fmt.Errorf("copy tree %s: %w", src, wrapIOErr(err))
	}

	if files == 0 && !d.ws.cfg.AllowEmptyTrees {
		return &PathError{Op: "copytree", Path: src.String(), Err: fmt.Errorf(
			"%w: no files found", ErrNotFound)}
	}

	local := d.isLocal(src)

	for _, entry := range entries {
		err := d.copyTreeEntry(fsys, entry, local)
		if err != nil {
			return fmt.Errorf("copy tree %s: %s: %w", src, entry.name, err)
		}
	}

	slog.Debug("Copied tree",
		slog.String("source", src.String()),
		slog.String("target", path.Join(d.root.Path(), rel)),
		slog.Int("files", files),
	)

	return nil
}

// isLocal returns true if the source is a root in the workspace's own tree.
func (d *Directory) isLocal(src Source) bool {
	mem, ok := src.root.(*memRoot)
	return ok && mem.tree == d.ws.tree
}

// checkOverlap rejects copying a root of the workspace into itself.
func (d *Directory) checkOverlap(src Source, rel string) error {
	mem, ok := src.root.(*memRoot)
	if !ok || mem.tree != d.ws.tree {
		return nil
	}

	from := mem.resolve(".")
	to := d.root.resolve(rel)

	if to == from || strings.HasPrefix(to, from+"/") {
		return fmt.Errorf("%w: can not copy %s into itself", ErrInvalidArgument, src)
	}

	return nil
}

func collectTree(fsys fs.FS, rel string) ([]treeEntry, int, error) {
	var (
		entries []treeEntry
		files   int
	)

	err := fs.WalkDir(fsys, ".", func(name string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		entry := treeEntry{
			name: name,
			dest: path.Join(rel, name),
			typ:  dirEntry.Type(),
		}

		switch {
		case entry.typ.IsDir():
		case entry.typ.IsRegular(), entry.typ&fs.ModeSymlink != 0:
			files++
		default:
			slog.Warn("Skipping file of unsupported type",
				slog.String("file", name),
				slog.String("type", entry.typ.String()),
			)

			return nil
		}

		entries = append(entries, entry)

		return nil
	})

	return entries, files, err //nolint:wrapcheck
}

func (d *Directory) copyTreeEntry(fsys fs.FS, entry treeEntry, local bool) error {
	switch {
	case entry.typ.IsDir():
		return wrapIOErr(d.ws.tree.FS().MkdirAll(d.root.resolve(entry.dest)))
	case entry.typ&fs.ModeSymlink != 0:
		return d.copyLink(fsys, entry, local)
	default:
		return d.copyRegular(fsys, entry)
	}
}

func (d *Directory) copyRegular(fsys fs.FS, entry treeEntry) error {
	file, err := fsys.Open(entry.name)
	if err != nil {
		return wrapIOErr(err)
	}
	defer file.Close()

	return d.writeFile(entry.dest, file)
}

// copyLink recreates the symbolic link if its target stays valid in the
// workspace tree. Otherwise the link is dereferenced.
func (d *Directory) copyLink(fsys fs.FS, entry treeEntry, local bool) error {
	linkFS, ok := fsys.(virtfs.ReadLinkFS)
	if !ok {
		return d.copyDereferenced(fsys, entry)
	}

	target, err := linkFS.ReadLink(entry.name)
	if err != nil {
		return wrapIOErr(err)
	}

	if !portableLink(entry.name, target, local) {
		slog.Debug("Dereferencing symbolic link",
			slog.String("file", entry.name),
			slog.String("target", target),
		)

		return d.copyDereferenced(fsys, entry)
	}

	tree := d.ws.tree.FS()
	name := d.root.resolve(entry.dest)

	info, err := tree.Lstat(name)
	if err == nil && !info.IsDir() {
		err = tree.Remove(name)
		if err != nil {
			return wrapIOErr(err)
		}
	}

	return wrapIOErr(tree.Symlink(target, name))
}

// portableLink returns true if the link target resolves to the same file
// after the link has been copied. Absolute targets are only valid in the
// tree they were read from. Relative targets must not leave the source root.
func portableLink(name, target string, local bool) bool {
	if path.IsAbs(target) || filepath.IsAbs(target) {
		return local
	}

	return fs.ValidPath(path.Join(path.Dir(name), target))
}

func (d *Directory) copyDereferenced(fsys fs.FS, entry treeEntry) error {
	info, err := fs.Stat(fsys, entry.name)
	if err != nil {
		return wrapIOErr(err)
	}

	switch {
	case info.Mode().IsRegular():
		return d.copyRegular(fsys, entry)
	case info.IsDir():
		slog.Warn("Skipping symbolic link to directory",
			slog.String("file", entry.name),
		)

		return nil
	default:
		return wrapIOErr(errors.ErrUnsupported)
	}
}
