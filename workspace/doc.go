// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package workspace provides in-memory workspaces for driving compilers in
// tests without touching the real file system.
//
// A [Workspace] owns a virtual file tree and a [Registry] that maps compiler
// locations, like the source path or the class output directory, to ordered
// sets of [PathRoot]s. Roots can live in the workspace's tree, on the host
// file system or inside archives.
//
// Populate a workspace with [Workspace.CreatePackage] and the copy methods of
// the returned [Directory]:
//
//	ws, err := workspace.New(workspace.Config{})
//	if err != nil {
//		return err
//	}
//	defer ws.Close()
//
//	src, err := ws.CreatePackage(workspace.SourcePath, "org", "example")
//	if err != nil {
//		return err
//	}
//
//	err = src.CreateFile("Main.java", "package org.example;", "class Main {}")
//
// Always close a workspace once it is not needed anymore. Unless disabled with
// [Config.NoAutoCleanup], an unreachable workspace is released in the
// background eventually, but that is a safety net only.
package workspace
