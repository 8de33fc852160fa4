// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive_test

import (
	"testing"

	"github.com/aibor/compiletest/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Set(t *testing.T) {
	tests := []struct {
		input       string
		expected    archive.Format
		expectedErr error
	}{
		{input: "jar", expected: archive.FormatJAR},
		{input: "cpio", expected: archive.FormatCPIO},
		{input: "zip", expectedErr: archive.ErrFormatInvalid},
		{input: "", expectedErr: archive.ErrFormatInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var format archive.Format

			err := format.Set(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, format)
			assert.Equal(t, string(tt.expected), format.String())
		})
	}
}

func TestFormat_MarshalText(t *testing.T) {
	text, err := archive.FormatCPIO.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cpio", string(text))

	_, err = archive.Format("tar").MarshalText()
	require.ErrorIs(t, err, archive.ErrFormatInvalid)

	assert.Equal(t, ".jar", archive.FormatJAR.Extension())
}
