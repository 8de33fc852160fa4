// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"io"
	"slices"
)

const (
	// FormatJAR is a zip archive with a "META-INF/MANIFEST.MF" entry.
	FormatJAR Format = "jar"
	// FormatCPIO is a SVR4 CPIO archive without CRC ("newc").
	FormatCPIO Format = "cpio"
)

// Format is an archive format.
type Format string

func (f *Format) isKnown() bool {
	knownFormats := []Format{
		FormatJAR,
		FormatCPIO,
	}

	return slices.Contains(knownFormats, *f)
}

// String implements [fmt.Stringer].
func (f *Format) String() string {
	if !f.isKnown() {
		return ""
	}

	return string(*f)
}

// Set implements [flag.Value].
func (f *Format) Set(s string) error {
	return f.UnmarshalText([]byte(s))
}

// MarshalText implements [encoding.TextMarshaler].
func (f Format) MarshalText() ([]byte, error) {
	s := f.String()
	if s == "" {
		return nil, ErrFormatInvalid
	}

	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	format := Format(text)

	if !format.isKnown() {
		return ErrFormatInvalid
	}

	*f = format

	return nil
}

// Extension returns the usual file name extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) newWriter(w io.Writer) (Writer, error) {
	switch f {
	case FormatJAR:
		return NewJARWriter(w), nil
	case FormatCPIO:
		return NewCPIOWriter(w), nil
	default:
		return nil, ErrFormatInvalid
	}
}
