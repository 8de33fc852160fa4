// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package platform discovers the platform class path and system modules of
// the host's Java installation.
//
// Discovery is lazy and cached. It is consulted only if a compilation
// request asks to inherit the platform class path.
package platform
