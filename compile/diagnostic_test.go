// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package compile_test

import (
	"testing"

	"github.com/aibor/compiletest/compile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name       string
		diagnostic compile.Diagnostic
		expected   string
	}{
		{
			name: "full position",
			diagnostic: compile.Diagnostic{
				Severity: compile.SeverityWarning,
				Message:  "unchecked cast",
				Source:   "org/example/X.java",
				Line:     3,
				Column:   7,
			},
			expected: "org/example/X.java:3:7: warning: unchecked cast",
		},
		{
			name: "source only",
			diagnostic: compile.Diagnostic{
				Severity: compile.SeverityError,
				Message:  "file not readable",
				Source:   "X.java",
			},
			expected: "X.java: error: file not readable",
		},
		{
			name: "no source",
			diagnostic: compile.Diagnostic{
				Severity: compile.SeverityNote,
				Message:  "recompile with -Xlint",
			},
			expected: "note: recompile with -Xlint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diagnostic.String())
		})
	}
}

func TestSeverity_Text(t *testing.T) {
	var severity compile.Severity

	require.NoError(t, severity.UnmarshalText([]byte("WARNING")))
	assert.Equal(t, compile.SeverityWarning, severity)

	text, err := compile.SeverityError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))

	require.ErrorIs(t, severity.UnmarshalText([]byte("fatal")), compile.ErrInvalidArgument)

	_, err = compile.Severity(42).MarshalText()
	require.ErrorIs(t, err, compile.ErrInvalidArgument)
	assert.Equal(t, "severity(42)", compile.Severity(42).String())
}

func TestResult_Filter(t *testing.T) {
	result := &compile.Result{
		Diagnostics: []compile.Diagnostic{
			{Severity: compile.SeverityNote, Message: "n"},
			{Severity: compile.SeverityWarning, Message: "w"},
			{Severity: compile.SeverityError, Message: "e"},
		},
	}

	assert.False(t, result.Success())
	assert.Equal(t, []compile.Diagnostic{{Severity: compile.SeverityError, Message: "e"}}, result.Errors())
	assert.Equal(t, []compile.Diagnostic{{Severity: compile.SeverityWarning, Message: "w"}}, result.Warnings())
}
