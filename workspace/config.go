// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aibor/compiletest/internal/virtfs"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a [Workspace].
type Config struct {
	// Name of the workspace. Must be a valid single path segment that is not
	// used by another open workspace. If empty, a random UUID is used.
	Name string `yaml:"name"`

	// NoAutoCleanup disables the release of the workspace once it becomes
	// unreachable. [Workspace.Close] must be called then.
	NoAutoCleanup bool `yaml:"noAutoCleanup"`

	// AllowEmptyTrees allows tree copies that do not copy any file. By
	// default, they fail with [ErrNotFound].
	AllowEmptyTrees bool `yaml:"allowEmptyTrees"`
}

// ParseConfig parses a YAML encoded [Config]. Unknown fields are rejected.
// Empty input results in the zero [Config].
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: parse config: %w", ErrInvalidArgument, err)
	}

	if cfg.Name != "" && !virtfs.ValidName(cfg.Name) {
		return Config{}, fmt.Errorf("%w: %q is not a valid workspace name",
			ErrInvalidIdentifier, cfg.Name)
	}

	return cfg, nil
}

// LoadConfig reads and parses the named config file from the given
// [fs.FS]. A missing file results in the zero [Config].
func LoadConfig(fsys fs.FS, name string) (Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(data)
}
