// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package virtfs provides a writable in-memory file tree. It supports
// directories, regular files and symbolic links, implements [io/fs.FS] and
// [ReadLinkFS] and can be closed, after which every operation fails with
// [ErrClosed].
//
// A [Tree] is a named [FS] with a single top level directory carrying the
// tree's name. Trees are registered with the process wide lifecycle registry,
// so the backing storage is released exactly once, either on [Tree.Close] or,
// as a safety net, once the tree becomes unreachable.
package virtfs
