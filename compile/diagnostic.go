// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package compile

import (
	"fmt"
	"strings"
)

// Severity of a [Diagnostic].
type Severity int

// Severities in ascending order.
const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityNote:    "note",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

// String implements [fmt.Stringer].
func (s Severity) String() string {
	name, exists := severityNames[s]
	if !exists {
		return fmt.Sprintf("severity(%d)", int(s))
	}

	return name
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	if _, exists := severityNames[s]; !exists {
		return nil, fmt.Errorf("%w: unknown severity %d", ErrInvalidArgument, int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	for severity, name := range severityNames {
		if strings.EqualFold(name, string(text)) {
			*s = severity
			return nil
		}
	}

	return fmt.Errorf("%w: unknown severity %q", ErrInvalidArgument, text)
}

// Diagnostic is a message reported by the compiler.
type Diagnostic struct {
	Severity Severity
	Message  string

	// Source is the path of the file the diagnostic is about. May be empty.
	Source string

	// Line and Column are 1-based. Zero if unknown.
	Line   int
	Column int
}

// String formats the diagnostic like compilers print them on the command
// line.
func (d Diagnostic) String() string {
	var location strings.Builder

	if d.Source != "" {
		location.WriteString(d.Source)

		if d.Line > 0 {
			fmt.Fprintf(&location, ":%d", d.Line)

			if d.Column > 0 {
				fmt.Fprintf(&location, ":%d", d.Column)
			}
		}

		location.WriteString(": ")
	}

	return location.String() + d.Severity.String() + ": " + d.Message
}
