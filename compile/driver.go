// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package compile

import (
	"context"

	"github.com/aibor/compiletest/workspace"
)

// Driver runs a compiler.
//
// A driver reads its input from the roots of the invocation's locations
// and writes its output into the invocation's output directories or, for
// output roots outside of the workspace, directly into the output roots'
// paths. Failed compilations are reported by error diagnostics in the
// [Result]. An error is returned only if the compiler can not be run.
type Driver interface {
	Compile(ctx context.Context, inv Invocation) (*Result, error)
}

// DriverFunc is an adapter to use ordinary functions as [Driver].
type DriverFunc func(ctx context.Context, inv Invocation) (*Result, error)

// Compile calls f(ctx, inv).
func (f DriverFunc) Compile(ctx context.Context, inv Invocation) (*Result, error) {
	return f(ctx, inv)
}

// Invocation is the input for a [Driver].
type Invocation struct {
	// Locations with their roots. It is a snapshot of the workspace's
	// registry.
	Locations map[workspace.Location][]workspace.PathRoot
	// Outputs are writable directories for output locations in the
	// workspace.
	Outputs map[workspace.Location]*workspace.Directory
	// Options for the compiler.
	Options []string
}

// Roots returns the roots of the given location.
func (i Invocation) Roots(loc workspace.Location) []workspace.PathRoot {
	return i.Locations[loc]
}

// Locator finds platform roots of the host.
type Locator interface {
	Roots() ([]workspace.PathRoot, error)
	SystemModules() (workspace.PathRoot, bool)
}

// Request configures [Run].
type Request struct {
	// Options passed to the compiler as is.
	Options []string `yaml:"options"`
	// InheritPlatformClassPath adds the host's platform class path and
	// system modules to the invocation.
	InheritPlatformClassPath bool `yaml:"inheritPlatformClassPath"`
	// Platform locates the host's platform roots. If nil,
	// [platform.Current] is used.
	Platform Locator `yaml:"-"`
}
