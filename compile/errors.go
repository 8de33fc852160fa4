// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package compile

import (
	"errors"

	"github.com/aibor/compiletest/workspace"
)

var (
	// ErrInvalidArgument is returned for missing drivers or workspaces.
	ErrInvalidArgument = workspace.ErrInvalidArgument

	// ErrDriver is returned if the driver fails to run. Failed compilations
	// are not driver failures, but reported by error diagnostics.
	ErrDriver = errors.New("driver failed")

	// ErrNoOutput is returned if an output location has no root.
	ErrNoOutput = errors.New("no output")
)
