// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"fmt"
	"strings"

	"github.com/aibor/compiletest/internal/virtfs"
)

// Kind defines how a location treats added roots.
type Kind int

const (
	// KindSearchPath locations have any number of roots. Roots are looked up
	// in the order they were added.
	KindSearchPath Kind = iota
	// KindOutput locations have exactly one root. Adding a root replaces the
	// current one.
	KindOutput
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case KindSearchPath:
		return "search path"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Location is a symbolic compiler visible set of roots. Locations are
// comparable and can be used as map keys.
type Location struct {
	// Name of the location.
	Name string
	// Module the location is qualified for. Empty for locations that are not
	// module specific.
	Module string
}

// Known locations. All of them are declared in every new [Registry].
var (
	SourcePath              = Location{Name: "SOURCE_PATH"}
	SourceOutput            = Location{Name: "SOURCE_OUTPUT"}
	ClassPath               = Location{Name: "CLASS_PATH"}
	ClassOutput             = Location{Name: "CLASS_OUTPUT"}
	NativeHeaderOutput      = Location{Name: "NATIVE_HEADER_OUTPUT"}
	ModuleSourcePath        = Location{Name: "MODULE_SOURCE_PATH"}
	ModulePath              = Location{Name: "MODULE_PATH"}
	AnnotationProcessorPath = Location{Name: "ANNOTATION_PROCESSOR_PATH"}
	PlatformClassPath       = Location{Name: "PLATFORM_CLASS_PATH"}
	SystemModules           = Location{Name: "SYSTEM_MODULES"}
)

func knownLocations() map[Location]Kind {
	return map[Location]Kind{
		SourcePath:              KindSearchPath,
		SourceOutput:            KindOutput,
		ClassPath:               KindSearchPath,
		ClassOutput:             KindOutput,
		NativeHeaderOutput:      KindOutput,
		ModuleSourcePath:        KindSearchPath,
		ModulePath:              KindSearchPath,
		AnnotationProcessorPath: KindSearchPath,
		PlatformClassPath:       KindSearchPath,
		SystemModules:           KindSearchPath,
	}
}

// ForModule returns the location qualified for the given module.
func (l Location) ForModule(module string) Location {
	return Location{Name: l.Name, Module: module}
}

// Base returns the location without module qualification.
func (l Location) Base() Location {
	return Location{Name: l.Name}
}

// String implements [fmt.Stringer].
func (l Location) String() string {
	if l.Module == "" {
		return l.Name
	}

	return l.Name + "[" + l.Module + "]"
}

// dirName is the name of the directory created for the location in a
// workspace tree.
func (l Location) dirName() string {
	name := strings.ToLower(strings.ReplaceAll(l.Name, "_", "-"))
	if l.Module == "" {
		return name
	}

	return name + "/" + l.Module
}

// validate returns [ErrInvalidIdentifier] if the location's directory name
// is not a valid path segment or any "/" separated segment of its module is
// not.
func (l Location) validate() error {
	if !virtfs.ValidName(strings.ToLower(l.Name)) {
		return fmt.Errorf("%w: location name %q", ErrInvalidIdentifier, l.Name)
	}

	if l.Module == "" {
		return nil
	}

	for segment := range strings.SplitSeq(l.Module, "/") {
		if !virtfs.ValidName(segment) {
			return fmt.Errorf("%w: module name %q", ErrInvalidIdentifier, l.Module)
		}
	}

	return nil
}
