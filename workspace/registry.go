// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry maps [Location]s to ordered sets of [PathRoot]s.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[Location]Kind
	roots map[Location][]PathRoot
}

// NewRegistry creates a new [Registry] with all known locations declared.
func NewRegistry() *Registry {
	return &Registry{
		kinds: knownLocations(),
		roots: make(map[Location][]PathRoot),
	}
}

// Declare declares a custom location of the given [Kind].
//
// Declaring a location again with the same kind does nothing. It fails with
// [ErrInvalidArgument] if the location is declared with another kind
// already and with [ErrInvalidIdentifier] if the name or module can not be
// used as directory name.
func (r *Registry) Declare(loc Location, kind Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if loc.Name == "" {
		return fmt.Errorf("%w: empty location name", ErrInvalidArgument)
	}

	if err := loc.validate(); err != nil {
		return err
	}

	current, exists := r.kinds[loc]
	if exists && current != kind {
		return fmt.Errorf("%w: location %s is declared as %s already",
			ErrInvalidArgument, loc, current)
	}

	r.kinds[loc] = kind

	return nil
}

// Kind returns the [Kind] of the given location. Module qualified locations
// have the kind of their base location unless declared explicitly.
func (r *Registry) Kind(loc Location) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.kind(loc)
}

func (r *Registry) kind(loc Location) (Kind, bool) {
	kind, exists := r.kinds[loc]
	if !exists && loc.Module != "" {
		kind, exists = r.kinds[loc.Base()]
	}

	return kind, exists
}

// AddRoot adds the given root to the location.
//
// For [KindSearchPath] locations the root is appended, unless a root with
// the same [RootID] is present already. For [KindOutput] locations the root
// replaces the current one. It fails with [ErrInvalidArgument] if the
// location is not declared and with [ErrInvalidIdentifier] if its module is
// malformed.
func (r *Registry) AddRoot(loc Location, root PathRoot) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}

	if err := loc.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind, exists := r.kind(loc)
	if !exists {
		return fmt.Errorf("%w: location %s is not declared", ErrInvalidArgument, loc)
	}

	if kind == KindOutput {
		r.roots[loc] = []PathRoot{root}
		return nil
	}

	if slices.ContainsFunc(r.roots[loc], func(p PathRoot) bool {
		return SameRoot(p, root)
	}) {
		return nil
	}

	r.roots[loc] = append(r.roots[loc], root)

	return nil
}

// Roots returns the roots of the given location in the order they were
// added.
func (r *Registry) Roots(loc Location) []PathRoot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.roots[loc])
}

// HasRoots returns true if at least one root is registered for the
// location.
func (r *Registry) HasRoots(loc Location) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.roots[loc]) > 0
}

// Locations returns all locations that have roots, sorted by name and
// module.
func (r *Registry) Locations() []Location {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locs := slices.Collect(maps.Keys(r.roots))
	slices.SortFunc(locs, compareLocations)

	return locs
}

// Modules returns all module qualified locations with roots for the given
// base location, sorted by module.
func (r *Registry) Modules(base Location) []Location {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var locs []Location

	for loc := range r.roots {
		if loc.Module != "" && loc.Name == base.Name {
			locs = append(locs, loc)
		}
	}

	slices.SortFunc(locs, compareLocations)

	return locs
}

func compareLocations(a, b Location) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}

	return strings.Compare(a.Module, b.Module)
}

// Lookup returns the first root of the location that contains the named
// file. It fails with [ErrNotFound] if no root contains it.
func (r *Registry) Lookup(loc Location, name string) (PathRoot, error) {
	for _, root := range r.Roots(loc) {
		fsys, err := root.FS()
		if errors.Is(err, ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", name, err)
		}

		_, err = fs.Stat(fsys, name)
		if err == nil {
			return root, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("lookup %s: %w", name, wrapIOErr(err))
		}
	}

	return nil, &PathError{Op: "lookup", Path: name, Err: ErrNotFound}
}

// Snapshot returns a copy of all locations with their roots. Later changes
// of the registry do not affect it.
func (r *Registry) Snapshot() map[Location][]PathRoot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[Location][]PathRoot, len(r.roots))
	for loc, roots := range r.roots {
		snapshot[loc] = slices.Clone(roots)
	}

	return snapshot
}
