// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// Action releases a resource.
type Action func() error

// Default is the process wide [Registry].
var Default = NewRegistry()

// Registry keeps track of live resources by their identifier.
type Registry struct {
	mu   sync.Mutex
	live map[string]*Handle

	// Background releases are queued from runtime cleanups at any time, also
	// while Wait is blocked, so a counter guarded by its own lock is used
	// instead of a [sync.WaitGroup].
	pendingMu sync.Mutex
	idle      *sync.Cond
	pending   int
}

// NewRegistry creates a new empty [Registry].
func NewRegistry() *Registry {
	r := &Registry{
		live: make(map[string]*Handle),
	}
	r.idle = sync.NewCond(&r.pendingMu)

	return r
}

// Register adds a new resource with the given identifier.
//
// It returns [ErrInvalidIdentifier] if the identifier is empty or a live
// resource with the same identifier exists already.
func (r *Registry) Register(id string, action Action) (*Handle, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.live[id]; exists {
		return nil, fmt.Errorf("%w: %s is in use", ErrInvalidIdentifier, id)
	}

	handle := &Handle{
		id:       id,
		action:   action,
		registry: r,
	}
	r.live[id] = handle

	slog.Debug("Registered resource", slog.String("id", id))

	return handle, nil
}

// IsLive returns true if a resource with the given identifier is registered
// and not released yet.
func (r *Registry) IsLive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.live[id]

	return exists
}

// Wait blocks until no background release is pending. Releases queued
// while waiting are waited for as well.
func (r *Registry) Wait() {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	for r.pending > 0 {
		r.idle.Wait()
	}
}

func (r *Registry) queue() {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	r.pending++
}

func (r *Registry) done() {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	r.pending--
	if r.pending == 0 {
		r.idle.Broadcast()
	}
}

func (r *Registry) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.live, id)
}

// Handle is the registration of a single resource.
type Handle struct {
	id       string
	action   Action
	released atomic.Bool
	registry *Registry
}

// ID returns the identifier the resource was registered with.
func (h *Handle) ID() string {
	return h.id
}

// Released returns true once the release of the resource has been claimed.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// Release runs the release action if it has not been run yet. The first
// caller claims the release, all later calls are no-ops and return nil.
func (h *Handle) Release() error {
	if !h.released.CompareAndSwap(false, true) {
		return nil
	}

	h.registry.forget(h.id)

	err := h.action()
	if err != nil {
		return fmt.Errorf("release %s: %w", h.id, err)
	}

	slog.Debug("Released resource", slog.String("id", h.id))

	return nil
}

// ReleaseAsync runs [Handle.Release] in the background. It never blocks and
// errors are logged only.
func (h *Handle) ReleaseAsync() {
	if h.Released() {
		return
	}

	h.registry.queue()

	go func() {
		defer h.registry.done()

		err := h.Release()
		if err != nil {
			slog.Error("Failed to release resource in background",
				slog.String("id", h.id),
				slog.Any("error", err),
			)
		}
	}()
}

// Watch releases the handle in the background once owner becomes unreachable
// without having been released before.
//
// The handle and its action must not reference owner, otherwise owner never
// becomes unreachable. The returned [runtime.Cleanup] can be stopped once the
// handle has been released explicitly.
func Watch[T any](owner *T, handle *Handle) runtime.Cleanup {
	return runtime.AddCleanup(owner, func(h *Handle) {
		if !h.Released() {
			slog.Debug("Releasing unreachable resource",
				slog.String("id", h.id))
		}

		h.ReleaseAsync()
	}, handle)
}
