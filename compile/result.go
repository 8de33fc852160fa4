// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package compile

import (
	"fmt"

	"github.com/aibor/compiletest/archive"
	"github.com/aibor/compiletest/workspace"
)

// Result of a compilation.
type Result struct {
	// Diagnostics reported by the compiler in the order they were reported.
	Diagnostics []Diagnostic
	// Outputs are the roots of all output locations. Set by [Run].
	Outputs map[workspace.Location]workspace.PathRoot
}

// Success returns true if there are no error diagnostics.
func (r *Result) Success() bool {
	return len(r.Errors()) == 0
}

// Errors returns all error diagnostics.
func (r *Result) Errors() []Diagnostic {
	return r.filter(SeverityError)
}

// Warnings returns all warning diagnostics.
func (r *Result) Warnings() []Diagnostic {
	return r.filter(SeverityWarning)
}

func (r *Result) filter(severity Severity) []Diagnostic {
	var diagnostics []Diagnostic

	for _, diagnostic := range r.Diagnostics {
		if diagnostic.Severity == severity {
			diagnostics = append(diagnostics, diagnostic)
		}
	}

	return diagnostics
}

// Output returns the root of the given output location.
func (r *Result) Output(loc workspace.Location) (workspace.PathRoot, bool) {
	root, exists := r.Outputs[loc]
	return root, exists
}

// Artifact packages the content of the given output location into an
// archive of the given [archive.Format].
//
// The archive is a snapshot. Later changes of the workspace do not affect
// it.
func (r *Result) Artifact(loc workspace.Location, format archive.Format) (*archive.Artifact, error) {
	root, exists := r.Output(loc)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoOutput, loc)
	}

	fsys, err := root.FS()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", archive.ErrPackaging, loc, err)
	}

	return archive.Create(fsys, format) //nolint:wrapcheck
}
