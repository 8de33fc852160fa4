// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"runtime"
	"strings"

	"github.com/aibor/compiletest/internal/lifecycle"
	"github.com/google/uuid"
)

// TreeSpec describes a [Tree] to create.
type TreeSpec struct {
	// Name of the tree. Must be a valid single path segment. If empty, a
	// random UUID is used.
	Name string

	// NoAutoCleanup disables the release of the tree once it becomes
	// unreachable. [Tree.Close] must be called then, or the tree's name stays
	// reserved for the lifetime of the process.
	NoAutoCleanup bool

	// Registry the tree is registered with. If nil, [lifecycle.Default] is
	// used.
	Registry *lifecycle.Registry
}

// Tree is a named [FS]. Its root path is "/" followed by its name.
type Tree struct {
	name    string
	fsys    *FS
	handle  *lifecycle.Handle
	cleanup *runtime.Cleanup
}

// ValidName returns true if the given name can be used as tree name.
func ValidName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}

	return fs.ValidPath(name) && !strings.ContainsAny(name, "/\\\x00")
}

// NewTree creates a new [Tree] as specified.
//
// It returns [ErrInvalidIdentifier] if the name is not valid or a tree with
// the same name is still open.
func NewTree(spec TreeSpec) (*Tree, error) {
	name := spec.Name
	if name == "" {
		name = uuid.NewString()
	}

	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q is not a valid path segment",
			ErrInvalidIdentifier, name)
	}

	registry := spec.Registry
	if registry == nil {
		registry = lifecycle.Default
	}

	fsys := New()

	// Never fails on a new FS with a valid name.
	_ = fsys.Mkdir(name)

	handle, err := registry.Register(name, closeFunc(name, fsys))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIdentifier, err)
	}

	tree := &Tree{
		name:   name,
		fsys:   fsys,
		handle: handle,
	}

	if !spec.NoAutoCleanup {
		cleanup := lifecycle.Watch(tree, handle)
		tree.cleanup = &cleanup
	}

	slog.Debug("Created virtual tree", slog.String("root", tree.Root()))

	return tree, nil
}

// closeFunc must not reference the [Tree], so the tree can become
// unreachable.
func closeFunc(name string, fsys *FS) lifecycle.Action {
	return func() error {
		slog.Debug("Closing virtual tree", slog.String("name", name))
		return fsys.Close()
	}
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Root returns the absolute root path of the tree.
func (t *Tree) Root() string {
	return "/" + t.name
}

// FS returns the backing [FS]. Its only top level entry is the directory
// named like the tree.
func (t *Tree) FS() *FS {
	return t.fsys
}

// Resolve returns the path of the given slash separated relative path in
// the [FS], which is relative to the tree's root directory.
func (t *Tree) Resolve(rel string) string {
	return clean(path.Join(t.name, rel))
}

// Closed returns true if the tree has been closed.
func (t *Tree) Closed() bool {
	return t.fsys.Closed()
}

// Close releases the tree. It is safe to call it more than once.
func (t *Tree) Close() error {
	if t.cleanup != nil {
		t.cleanup.Stop()
	}

	err := t.handle.Release()
	if err != nil {
		return fmt.Errorf("close tree %s: %w", t.name, err)
	}

	return nil
}
