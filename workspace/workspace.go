// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aibor/compiletest/internal/virtfs"
)

// Workspace is an in-memory file tree with a [Registry] of compiler
// locations.
//
// A Workspace exclusively owns its tree. Once closed, all operations on it
// and on the [Directory] handles and roots created from it fail with
// [ErrClosed].
type Workspace struct {
	cfg      Config
	tree     *virtfs.Tree
	registry *Registry

	mu   sync.Mutex
	dirs map[string]int
}

// New creates a new [Workspace] as configured.
//
// It fails with [ErrInvalidIdentifier] if the name is invalid or used by
// another open workspace.
func New(cfg Config) (*Workspace, error) {
	tree, err := virtfs.NewTree(virtfs.TreeSpec{
		Name:          cfg.Name,
		NoAutoCleanup: cfg.NoAutoCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &Workspace{
		cfg:      cfg,
		tree:     tree,
		registry: NewRegistry(),
		dirs:     make(map[string]int),
	}, nil
}

// Name returns the name of the workspace.
func (w *Workspace) Name() string {
	return w.tree.Name()
}

// Root returns the root of the workspace's whole tree.
func (w *Workspace) Root() PathRoot {
	return &memRoot{tree: w.tree, rel: "."}
}

// Registry returns the workspace's location [Registry].
func (w *Workspace) Registry() *Registry {
	return w.registry
}

// Closed returns true if the workspace has been closed.
func (w *Workspace) Closed() bool {
	return w.tree.Closed()
}

// Close releases the workspace's tree. It is safe to call it more than once.
func (w *Workspace) Close() error {
	return w.tree.Close() //nolint:wrapcheck
}

// AddRoot registers an existing root for the given location. See
// [Registry.AddRoot].
func (w *Workspace) AddRoot(loc Location, root PathRoot) error {
	if w.Closed() {
		return &PathError{Op: "addroot", Path: loc.String(), Err: ErrClosed}
	}

	return w.registry.AddRoot(loc, root)
}

// CreatePackage returns a [Directory] for the package with the given path
// segments in a new root of the given location.
//
// A new root directory is created and registered for search path
// locations on each call. Output locations have a single root that is
// reused once created. Without segments, the returned [Directory] is the
// root itself.
func (w *Workspace) CreatePackage(loc Location, segments ...string) (*Directory, error) {
	if err := loc.validate(); err != nil {
		return nil, err
	}

	kind, declared := w.registry.Kind(loc)
	if !declared {
		return nil, fmt.Errorf("%w: location %s is not declared", ErrInvalidArgument, loc)
	}

	root := w.outputRoot(loc, kind)
	if root == nil {
		var err error

		root, err = w.newRoot(loc)
		if err != nil {
			return nil, err
		}
	}

	dir := &Directory{ws: w, loc: loc, root: root, rel: "."}

	if len(segments) == 0 {
		return dir, nil
	}

	return dir.CreatePackage(segments...)
}

// outputRoot returns the current root of an output location if it is a
// root in the workspace's tree.
func (w *Workspace) outputRoot(loc Location, kind Kind) *memRoot {
	if kind != KindOutput {
		return nil
	}

	for _, root := range w.registry.Roots(loc) {
		if mem, ok := root.(*memRoot); ok && mem.tree == w.tree {
			return mem
		}
	}

	return nil
}

func (w *Workspace) newRoot(loc Location) (*memRoot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	name := loc.dirName()

	w.dirs[name]++
	if n := w.dirs[name]; n > 1 {
		name += "-" + strconv.Itoa(n)
	}

	root := &memRoot{tree: w.tree, rel: name}

	err := w.tree.FS().MkdirAll(root.resolve("."))
	if err != nil {
		return nil, wrapIOErr(err)
	}

	err = w.registry.AddRoot(loc, root)
	if err != nil {
		return nil, err
	}

	slog.Debug("Created location root",
		slog.String("location", loc.String()),
		slog.String("uri", root.URI()),
	)

	return root, nil
}

// OutputDirectory returns a [Directory] for the root of the given output
// location. A root is created if the location has none yet.
//
// It returns false if the location's root is not in the workspace's tree,
// like a host directory registered with [Workspace.AddRoot].
func (w *Workspace) OutputDirectory(loc Location) (*Directory, bool, error) {
	kind, declared := w.registry.Kind(loc)
	if !declared || kind != KindOutput {
		return nil, false, fmt.Errorf("%w: %s is not an output location", ErrInvalidArgument, loc)
	}

	if w.registry.HasRoots(loc) && w.outputRoot(loc, kind) == nil {
		return nil, false, nil
	}

	dir, err := w.CreatePackage(loc)
	if err != nil {
		return nil, false, err
	}

	return dir, true, nil
}
