// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/compiletest/archive"
	"github.com/aibor/compiletest/workspace"
)

const (
	localConfigFile = ".mkjar-args"
	outputFileMode  = 0o644
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func parseFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags := newFlags(cfg.Stderr)

	err = flags.ParseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func loadConfig(path string) (workspace.Config, error) {
	if path == "" {
		return workspace.Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return workspace.Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := workspace.ParseConfig(data)
	if err != nil {
		return workspace.Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func populate(ctx context.Context, ws *workspace.Workspace, flags *flags) (*workspace.Directory, error) {
	dir, err := ws.CreatePackage(workspace.ClassOutput, flags.packageSegments()...)
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	for _, srcDir := range flags.SourceDirs {
		err := ctx.Err()
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		err = ValidateDirPath(srcDir)
		if err != nil {
			return nil, fmt.Errorf("source dir %s: %w", srcDir, err)
		}

		err = dir.CopyTreeFrom(workspace.FromDir(srcDir), "")
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", srcDir, err)
		}
	}

	return dir, nil
}

func writeArtifact(artifact *archive.Artifact, flags *flags, cfg IO) error {
	if flags.OutputPath == "" {
		_, err := artifact.WriteTo(cfg.Stdout)
		if err != nil {
			return fmt.Errorf("write archive: %w", err)
		}

		return nil
	}

	err := os.WriteFile(flags.OutputPath, artifact.Bytes(), outputFileMode)
	if err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	slog.Debug("Wrote archive",
		slog.String("path", flags.OutputPath),
		slog.Int("size", artifact.Len()),
	)

	if flags.Digest {
		fmt.Fprintf(cfg.Stdout, "blake3:%s  %s\n", artifact.Digest(), flags.OutputPath)
	}

	return nil
}

func keepTree(ws *workspace.Workspace) {
	dir, err := ws.CopyToTempDir("")
	if err != nil {
		slog.Error("Failed to preserve workspace tree", slog.Any("error", err))
		return
	}

	slog.Warn("Preserving workspace tree", slog.String("path", dir))
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	wsConfig, err := loadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}

	ws, err := workspace.New(wsConfig)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer ws.Close()

	dir, err := populate(ctx, ws, flags)
	if err != nil {
		return err
	}

	if flags.KeepTree {
		defer keepTree(ws)
	}

	fsys, err := dir.Root().FS()
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}

	artifact, err := archive.Create(fsys, flags.Format)
	if err != nil {
		return fmt.Errorf("package: %w", err)
	}

	return writeArtifact(artifact, flags, cfg)
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return 2
}

func handleRunError(err error) int {
	if errors.Is(err, context.Canceled) {
		slog.Warn("Canceled")
		return 130
	}

	slog.Error(err.Error())

	return 1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := parseFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.Debug)

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}
