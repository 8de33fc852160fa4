// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package compile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseRequest parses a YAML encoded [Request]. Unknown fields are
// rejected. The platform locator can not be configured this way.
func ParseRequest(data []byte) (Request, error) {
	var req Request

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return Request{}, fmt.Errorf("%w: parse request: %w", ErrInvalidArgument, err)
	}

	return req, nil
}
