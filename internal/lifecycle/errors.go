// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import "errors"

// ErrInvalidIdentifier is returned if an identifier is empty or already in
// use by a live resource.
var ErrInvalidIdentifier = errors.New("invalid identifier")
