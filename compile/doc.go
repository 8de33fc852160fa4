// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package compile binds the locations of a [workspace.Workspace] to a
// compiler invocation.
//
// The compiler itself is not part of this package. It is plugged in as
// [Driver]. [Run] prepares the output locations, optionally adds the
// platform class path of the host and hands a snapshot of all locations to
// the driver. The returned [Result] gives access to the diagnostics and the
// output locations, which can be packaged into archives.
package compile
