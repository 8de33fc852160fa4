// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/aibor/compiletest/archive"
)

const (
	name = "mkjar"

	usageMessage = `Usage of 'mkjar':
    mkjar [flags...] dir...

Package a directory into a JAR file:
	mkjar -out=app.jar ./classes

Merge directories into a CPIO archive below a package:
	mkjar -format=cpio -package=org/example -out=app.cpio ./a ./b

All mkjar flags can also be provided via environment variable MKJAR_ARGS:
	MKJAR_ARGS="-debug -digest" mkjar -out=app.jar ./classes

All mkjar flags can also be provided via file ./.mkjar-args, with one
argument per line.
`
)

type flags struct {
	SourceDirs []string
	OutputPath string
	ConfigPath string
	Package    string
	Format     archive.Format
	Digest     bool
	KeepTree   bool
	Debug      bool
	Version    bool

	flagSet *flag.FlagSet
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		Format: archive.FormatJAR,
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.Var(
		(*FilePath)(&f.OutputPath),
		"out",
		"path of the archive to write (default writes to stdout)",
	)

	flagSet.Var(
		&f.Format,
		"format",
		"archive format: jar, cpio",
	)

	flagSet.StringVar(
		&f.Package,
		"package",
		f.Package,
		"package directory to put the files in, like org/example or org.example",
	)

	flagSet.Var(
		(*FilePath)(&f.ConfigPath),
		"config",
		"YAML file with workspace configuration",
	)

	flagSet.BoolVar(
		&f.Digest,
		"digest",
		f.Digest,
		"print the BLAKE3 digest of the archive (requires -out)",
	)

	flagSet.BoolVar(
		&f.KeepTree,
		"keepTree",
		f.KeepTree,
		"copy the workspace tree into a temporary directory and keep it. "+
			"Intended for debugging. The path is printed on stderr",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

func (f *flags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.Version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	if f.Digest && f.OutputPath == "" {
		return f.fail("digest requires an output file (use -out)", nil)
	}

	positionalArgs := f.flagSet.Args()
	if len(positionalArgs) < 1 {
		return f.fail("no directory given", nil)
	}

	f.SourceDirs = make([]string, 0, len(positionalArgs))

	for _, arg := range positionalArgs {
		dir, err := AbsoluteFilePath(arg)
		if err != nil {
			return f.fail("directory path", err)
		}

		f.SourceDirs = append(f.SourceDirs, dir)
	}

	return nil
}

// packageSegments returns the path segments of the package flag.
func (f *flags) packageSegments() []string {
	pkg := strings.Trim(strings.ReplaceAll(f.Package, ".", "/"), "/")
	if pkg == "" {
		return nil
	}

	return strings.Split(pkg, "/")
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
