// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

func checkReadable(name string) error {
	err := unix.Access(name, unix.R_OK)
	if err != nil {
		return &os.PathError{Op: "access", Path: name, Err: err}
	}

	return nil
}
