// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

var env map[string]string

func init() {
	env = make(map[string]string)

	gobin, exists := os.LookupEnv("GOBIN")
	if !exists {
		gobin = "./gobin"
	}

	if gobin != "" {
		p, err := filepath.Abs(gobin)
		if err == nil {
			gobin = p
		}
	}

	env["GOBIN"] = gobin
}

// Install mkjar to gobin directory.
func InstallMkjar() error {
	path := filepath.Join(env["GOBIN"], "mkjar")

	mod, err := target.Dir(path, "archive", "workspace", "internal", "cmd")
	if err != nil {
		return err
	}

	if !mod {
		return nil
	}

	return sh.RunWith(env, "go", "install", "./cmd/mkjar")
}

// Run all package tests with race detector and coverage.
func Test(verbose bool) error {
	args := []string{
		"test",
		"-race",
		"-timeout", "2m",
		"-cover",
		"-coverprofile", "/tmp/cover.out",
	}
	if verbose {
		args = append(args, "-v")
	}

	args = append(args, "./...")

	return sh.RunWithV(env, "go", args...)
}

// Package the given directory with the installed mkjar as a smoke test.
func Smoke(dir string) error {
	mg.Deps(InstallMkjar)

	return sh.RunWithV(env,
		filepath.Join(env["GOBIN"], "mkjar"),
		"-digest",
		"-out", filepath.Join(os.TempDir(), "mkjar-smoke.jar"),
		dir,
	)
}

// Remove volatile files.
func Clean() error {
	return sh.Rm(env["GOBIN"])
}
