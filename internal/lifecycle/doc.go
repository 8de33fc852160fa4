// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package lifecycle provides a process wide registry of releasable resources.
//
// Every resource is registered with a unique identifier and an [Action] that
// releases it. The action runs at most once, no matter if it is triggered
// explicitly by [Handle.Release] or by the garbage collector safety net set up
// with [Watch]. Garbage collector triggered releases run in the background and
// only log failures.
package lifecycle
