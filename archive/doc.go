// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive packages file trees into reproducible archives.
//
// [Create] walks an [io/fs.FS] in lexical order and writes every directory,
// regular file and symbolic link into an in-memory archive. Entry metadata is
// normalized: no modification times, fixed permissions and forward slash
// separated names. So two logically identical trees always result in byte
// identical archives. The result is an immutable [Artifact].
//
// Supported formats are JAR ([FormatJAR], a zip archive with a manifest) and
// CPIO ([FormatCPIO], SVR4 "newc" as used for Linux initramfs images).
package archive
