// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortableLink(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		target   string
		local    bool
		expected bool
	}{
		{"sibling", "lib/link", "real", false, true},
		{"parent in root", "lib/link", "../real", false, true},
		{"leaves root", "lib/link", "../../real", false, false},
		{"leaves root from top", "link", "../real", false, false},
		{"absolute foreign", "lib/link", "/ws/real", false, false},
		{"absolute local", "lib/link", "/ws/real", true, true},
		{"leaves root local", "lib/link", "../../real", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, portableLink(tt.file, tt.target, tt.local))
		})
	}
}
