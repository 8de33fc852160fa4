// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workspace

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type sourceKind int

const (
	sourceReader sourceKind = iota
	sourceURL
	sourceFile
	sourceResource
	sourcePackage
	sourceDir
	sourceRoot
)

// Source is something content can be copied from into a [Directory].
//
// Single file sources are created by [FromReader], [FromBytes], [FromURL],
// [FromFile] and [FromResource]. They can be used with [Directory.CopyFrom].
// Tree sources are created by [FromPackage], [FromDir] and [FromRoot]. They
// can be used with [Directory.CopyTreeFrom].
type Source struct {
	kind   sourceKind
	name   string
	scheme string
	reader io.Reader
	fsys   fs.FS
	root   PathRoot
	ctx    context.Context //nolint:containedctx
}

// FromReader returns a [Source] that reads from the given reader.
func FromReader(reader io.Reader) Source {
	scheme := "reader"

	switch reader.(type) {
	case *bytes.Reader, *bytes.Buffer, *strings.Reader:
		scheme = "memory"
	}

	return Source{kind: sourceReader, name: scheme, scheme: scheme, reader: reader}
}

// FromBytes returns a [Source] for the given content.
func FromBytes(data []byte) Source {
	return FromReader(bytes.NewReader(data))
}

// FromURL returns a [Source] for a single file addressed by URL. Supported
// schemes are http, https, file, memory and jar, so the URI of any
// [PathRoot] with a relative file name appended can be used. Memory URLs are
// resolved in the tree of the workspace copied into and fail with
// [ErrNotFound] for any other tree. Jar URLs have the form
// "jar:<archive URL>!/<entry>". The context is used for http requests.
func FromURL(ctx context.Context, rawURL string) Source {
	return Source{kind: sourceURL, name: rawURL, ctx: ctx}
}

// FromFile returns a [Source] for a regular file on the host file system.
func FromFile(file string) Source {
	return Source{kind: sourceFile, name: file, scheme: "file"}
}

// FromResource returns a [Source] for a named resource in the given
// [fs.FS], like an [embed.FS] with test fixtures.
func FromResource(fsys fs.FS, name string) Source {
	return Source{kind: sourceResource, name: name, scheme: "classpath", fsys: fsys}
}

// FromPackage returns a tree [Source] for a package directory in the given
// [fs.FS]. The package may be given with dots or slashes as separator, so
// "org.example" and "org/example" are the same.
func FromPackage(fsys fs.FS, pkg string) Source {
	dir := strings.ReplaceAll(strings.Trim(pkg, "./"), ".", "/")
	if dir == "" {
		dir = "."
	}

	return Source{kind: sourcePackage, name: dir, scheme: "classpath", fsys: fsys}
}

// FromDir returns a tree [Source] for a directory on the host file system.
func FromDir(dir string) Source {
	return Source{kind: sourceDir, name: dir, scheme: "file"}
}

// FromRoot returns a tree [Source] for the content of the given [PathRoot].
func FromRoot(root PathRoot) Source {
	src := Source{kind: sourceRoot, root: root}
	if root != nil {
		src.name = root.URI()
		src.scheme = string(root.ID().Scheme)
	}

	return src
}

// String implements [fmt.Stringer].
func (s Source) String() string {
	return s.name
}

func (s Source) isTree() bool {
	switch s.kind {
	case sourcePackage, sourceDir, sourceRoot:
		return true
	default:
		return false
	}
}

// open opens a single file source. Memory URLs are resolved in the given
// workspace. The caller must close the returned reader.
func (s Source) open(ws *Workspace) (io.ReadCloser, string, error) {
	switch s.kind {
	case sourceReader:
		if s.reader == nil {
			return nil, "", fmt.Errorf("%w: nil reader", ErrInvalidArgument)
		}

		return io.NopCloser(s.reader), s.scheme, nil
	case sourceFile:
		file, err := os.Open(s.name)
		if err != nil {
			return nil, "", wrapIOErr(err)
		}

		return file, s.scheme, nil
	case sourceResource:
		if s.fsys == nil {
			return nil, "", fmt.Errorf("%w: nil file system", ErrInvalidArgument)
		}

		file, err := s.fsys.Open(strings.TrimPrefix(path.Clean(s.name), "/"))
		if err != nil {
			return nil, "", wrapIOErr(err)
		}

		return file, s.scheme, nil
	case sourceURL:
		return openURL(s.ctx, ws, s.name)
	default:
		return nil, "", fmt.Errorf("%w: %s is a tree source", ErrInvalidArgument, s)
	}
}

func openURL(ctx context.Context, ws *Workspace, rawURL string) (io.ReadCloser, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	scheme := strings.ToLower(parsed.Scheme)

	switch scheme {
	case "file":
		file, err := os.Open(filepath.FromSlash(parsed.Path))
		if err != nil {
			return nil, "", wrapIOErr(err)
		}

		return file, scheme, nil
	case "http", "https":
		if ctx == nil {
			ctx = context.Background()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrIO, err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, "", &PathError{Op: "get", Path: rawURL, Err: ErrNotFound}
		case resp.StatusCode >= http.StatusBadRequest:
			resp.Body.Close()
			return nil, "", fmt.Errorf("%w: get %s: %s", ErrIO, rawURL, resp.Status)
		}

		return resp.Body, scheme, nil
	case string(SchemeMemory):
		return openMemoryURL(ws, parsed.Path)
	case string(SchemeJAR):
		return openJARURL(ctx, ws, parsed.Opaque)
	default:
		return nil, "", fmt.Errorf("%w: unsupported URL scheme %q",
			ErrInvalidArgument, parsed.Scheme)
	}
}

// openMemoryURL opens the file at the given absolute path in the workspace's
// tree. The first path segment is the tree name.
func openMemoryURL(ws *Workspace, name string) (io.ReadCloser, string, error) {
	treeName, rel, _ := strings.Cut(strings.TrimPrefix(name, "/"), "/")
	if ws == nil || treeName != ws.Name() {
		return nil, "", &PathError{Op: "open", Path: name, Err: ErrNotFound}
	}

	rel = path.Clean("/" + rel)
	if rel == "/" {
		return nil, "", &PathError{Op: "open", Path: name, Err: ErrInvalidArgument}
	}

	file, err := ws.tree.FS().Open(ws.tree.Resolve(rel[1:]))
	if err != nil {
		return nil, "", wrapIOErr(err)
	}

	return file, string(SchemeMemory), nil
}

// openJARURL opens the entry of an archive addressed by the opaque part of a
// jar URL. The archive URL may be a jar URL itself for nested archives.
func openJARURL(ctx context.Context, ws *Workspace, opaque string) (io.ReadCloser, string, error) {
	outer, entry, found := cutLast(opaque, "!/")
	if !found || outer == "" {
		return nil, "", fmt.Errorf("%w: malformed jar URL %q", ErrInvalidArgument, opaque)
	}

	entry = strings.TrimPrefix(path.Clean("/"+entry), "/")
	if entry == "" {
		return nil, "", fmt.Errorf("%w: jar URL %q has no entry", ErrInvalidArgument, opaque)
	}

	reader, _, err := openURL(ctx, ws, outer)
	if err != nil {
		return nil, "", fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read archive: %w", ErrIO, err)
	}

	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read archive %s: %w", ErrIO, outer, err)
	}

	file, err := zipReader.Open(entry)
	if err != nil {
		return nil, "", wrapIOErr(err)
	}

	return file, string(SchemeJAR), nil
}

func cutLast(s, sep string) (string, string, bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}

	return s[:idx], s[idx+len(sep):], true
}

// tree returns the [fs.FS] of a tree source.
func (s Source) tree() (fs.FS, error) {
	switch s.kind {
	case sourcePackage:
		if s.fsys == nil {
			return nil, fmt.Errorf("%w: nil file system", ErrInvalidArgument)
		}

		return subDir(s.fsys, s.name)
	case sourceDir:
		return subDir(os.DirFS(s.name), ".")
	case sourceRoot:
		if s.root == nil {
			return nil, fmt.Errorf("%w: nil root", ErrInvalidArgument)
		}

		return s.root.FS() //nolint:wrapcheck
	default:
		return nil, fmt.Errorf("%w: %s is not a tree source", ErrInvalidArgument, s)
	}
}

func subDir(fsys fs.FS, dir string) (fs.FS, error) {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		return nil, wrapIOErr(err)
	}

	if !info.IsDir() {
		return nil, &PathError{Op: "open", Path: dir, Err: ErrInvalidArgument}
	}

	return fs.Sub(fsys, dir) //nolint:wrapcheck
}

// maybeBuffer wraps the reader in a [bufio.Reader] unless it reads from
// memory already or is buffered.
func maybeBuffer(reader io.Reader, scheme string) io.Reader {
	if _, buffered := reader.(*bufio.Reader); buffered {
		return reader
	}

	switch strings.ToLower(scheme) {
	case "memory", "classpath", "jrt", "ram":
		return reader
	}

	slog.Debug("Buffering input", slog.String("scheme", scheme))

	return bufio.NewReader(reader)
}
