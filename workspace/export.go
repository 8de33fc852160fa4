// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aibor/compiletest/internal/virtfs"
	"golang.org/x/sync/errgroup"
)

const (
	hostDirMode  = 0o755
	hostFileMode = 0o644
)

// CopyToTempDir copies the whole workspace tree into a new temporary
// directory in the given directory and returns its path. If dir is empty,
// [os.TempDir] is used.
//
// The caller owns the returned directory and is responsible for removing
// it. On failure, nothing is left behind.
func (w *Workspace) CopyToTempDir(dir string) (string, error) {
	fsys, err := w.Root().FS()
	if err != nil {
		return "", fmt.Errorf("copy workspace: %w", wrapIOErr(err))
	}

	tmpDir, err := os.MkdirTemp(dir, w.Name()+"-")
	if err != nil {
		return "", fmt.Errorf("copy workspace: %w", wrapIOErr(err))
	}

	err = copyToHost(fsys, tmpDir, w.hostLinkTarget(tmpDir))
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("copy workspace: %w", wrapIOErr(err))
	}

	slog.Info("Copied workspace to host",
		slog.String("workspace", w.Name()),
		slog.String("dir", tmpDir),
	)

	return tmpDir, nil
}

// hostLinkTarget maps absolute link targets in the workspace tree to the
// host directory.
func (w *Workspace) hostLinkTarget(hostDir string) func(string) string {
	prefix := w.tree.Root()

	return func(target string) string {
		if !path.IsAbs(target) {
			return filepath.FromSlash(target)
		}

		rest, found := strings.CutPrefix(path.Clean(target), prefix)
		if !found || (rest != "" && !strings.HasPrefix(rest, "/")) {
			return filepath.FromSlash(target)
		}

		return filepath.Join(hostDir, filepath.FromSlash(rest))
	}
}

// copyToHost copies the content of the given [fs.FS] into the host
// directory. Directories and links are created in walk order, regular files
// are written concurrently.
func copyToHost(fsys fs.FS, dst string, linkTarget func(string) string) error {
	var group errgroup.Group

	group.SetLimit(runtime.GOMAXPROCS(0))

	walkErr := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		hostPath := filepath.Join(dst, filepath.FromSlash(name))

		switch typ := entry.Type(); {
		case typ.IsDir():
			return os.MkdirAll(hostPath, hostDirMode)
		case typ&fs.ModeSymlink != 0:
			linkFS, ok := fsys.(virtfs.ReadLinkFS)
			if !ok {
				group.Go(func() error { return copyFileToHost(fsys, name, hostPath) })
				return nil
			}

			target, err := linkFS.ReadLink(name)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return os.Symlink(linkTarget(target), hostPath)
		case typ.IsRegular():
			group.Go(func() error { return copyFileToHost(fsys, name, hostPath) })
		default:
			slog.Warn("Skipping file of unsupported type", slog.String("file", name))
		}

		return nil
	})

	err := group.Wait()
	if walkErr != nil {
		return walkErr //nolint:wrapcheck
	}

	return err //nolint:wrapcheck
}

func copyFileToHost(fsys fs.FS, name, hostPath string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer src.Close()

	dst, err := os.OpenFile(hostPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hostFileMode)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return fmt.Errorf("write %s: %w", hostPath, err)
	}

	return dst.Close() //nolint:wrapcheck
}
