// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd implements the mkjar command. It packages host directories
// through an in-memory workspace into deterministic archives.
package cmd
