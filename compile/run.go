// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package compile

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aibor/compiletest/platform"
	"github.com/aibor/compiletest/workspace"
)

// Output locations that always exist in an [Invocation].
var requiredOutputs = []workspace.Location{
	workspace.ClassOutput,
	workspace.SourceOutput,
}

// Run compiles the content of the workspace with the given [Driver].
//
// Missing output locations are created in the workspace. If requested, the
// platform roots of the host are added to the locations handed to the
// driver, without changing the workspace's registry.
//
// An error is returned if the compiler could not be run. A failed
// compilation is not an error. Check [Result.Success] for that.
func Run(ctx context.Context, driver Driver, ws *workspace.Workspace, req Request) (*Result, error) {
	if driver == nil || ws == nil {
		return nil, fmt.Errorf("%w: driver and workspace are required", ErrInvalidArgument)
	}

	if ws.Closed() {
		return nil, &workspace.PathError{Op: "compile", Path: ws.Name(), Err: workspace.ErrClosed}
	}

	outputs, err := prepareOutputs(ws)
	if err != nil {
		return nil, err
	}

	locations := ws.Registry().Snapshot()

	if req.InheritPlatformClassPath {
		err := addPlatformRoots(locations, req.Platform)
		if err != nil {
			return nil, err
		}
	}

	err = ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	inv := Invocation{
		Locations: locations,
		Outputs:   outputs,
		Options:   slices.Clone(req.Options),
	}

	slog.Debug("Running compiler",
		slog.String("workspace", ws.Name()),
		slog.Any("options", inv.Options),
		slog.Int("locations", len(locations)),
	)

	start := time.Now()

	result, err := driver.Compile(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDriver, err)
	}

	if result == nil {
		result = &Result{}
	}

	result.Outputs = outputRoots(ws.Registry(), locations)

	slog.Info("Compilation finished",
		slog.String("workspace", ws.Name()),
		slog.Bool("success", result.Success()),
		slog.Int("errors", len(result.Errors())),
		slog.Int("warnings", len(result.Warnings())),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func prepareOutputs(ws *workspace.Workspace) (map[workspace.Location]*workspace.Directory, error) {
	locs := slices.Clone(requiredOutputs)
	if ws.Registry().HasRoots(workspace.NativeHeaderOutput) {
		locs = append(locs, workspace.NativeHeaderOutput)
	}

	outputs := make(map[workspace.Location]*workspace.Directory, len(locs))

	for _, loc := range locs {
		dir, internal, err := ws.OutputDirectory(loc)
		if err != nil {
			return nil, fmt.Errorf("prepare %s: %w", loc, err)
		}

		if internal {
			outputs[loc] = dir
		}
	}

	return outputs, nil
}

func addPlatformRoots(locations map[workspace.Location][]workspace.PathRoot, locator Locator) error {
	if locator == nil {
		locator = platform.Current()
	}

	roots, err := locator.Roots()
	if err != nil {
		return fmt.Errorf("discover platform class path: %w", err)
	}

	for _, root := range roots {
		locations[workspace.PlatformClassPath] = appendRoot(locations[workspace.PlatformClassPath], root)
	}

	if modules, found := locator.SystemModules(); found {
		locations[workspace.SystemModules] = appendRoot(locations[workspace.SystemModules], modules)
	}

	return nil
}

func appendRoot(roots []workspace.PathRoot, root workspace.PathRoot) []workspace.PathRoot {
	if slices.ContainsFunc(roots, func(r workspace.PathRoot) bool {
		return workspace.SameRoot(r, root)
	}) {
		return roots
	}

	return append(roots, root)
}

func outputRoots(
	registry *workspace.Registry,
	locations map[workspace.Location][]workspace.PathRoot,
) map[workspace.Location]workspace.PathRoot {
	outputs := make(map[workspace.Location]workspace.PathRoot)

	for loc, roots := range locations {
		kind, _ := registry.Kind(loc)
		if kind == workspace.KindOutput && len(roots) > 0 {
			outputs[loc] = roots[0]
		}
	}

	return outputs
}
