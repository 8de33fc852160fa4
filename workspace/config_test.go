// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace_test

import (
	"testing"
	"testing/fstest"

	"github.com/aibor/compiletest/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected workspace.Config
		err      error
	}{
		{
			name:  "empty",
			input: "",
		},
		{
			name:  "all fields",
			input: "name: sources\nnoAutoCleanup: true\nallowEmptyTrees: true\n",
			expected: workspace.Config{
				Name:            "sources",
				NoAutoCleanup:   true,
				AllowEmptyTrees: true,
			},
		},
		{
			name:  "unknown field",
			input: "name: sources\nautoCleanup: false\n",
			err:   workspace.ErrInvalidArgument,
		},
		{
			name:  "malformed",
			input: "name: [",
			err:   workspace.ErrInvalidArgument,
		},
		{
			name:  "invalid name",
			input: "name: a/b\n",
			err:   workspace.ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := workspace.ParseConfig([]byte(tt.input))
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	fsys := fstest.MapFS{
		"workspace.yaml": {Data: []byte("allowEmptyTrees: true\n")},
	}

	cfg, err := workspace.LoadConfig(fsys, "workspace.yaml")
	require.NoError(t, err)
	assert.Equal(t, workspace.Config{AllowEmptyTrees: true}, cfg)

	cfg, err = workspace.LoadConfig(fsys, "missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, workspace.Config{}, cfg)
}
