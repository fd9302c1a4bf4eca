// SPDX-License-Identifier: MPL-2.0

// Package fspath provides filesystem path helpers shared by the delocation
// pipeline: symlink-resolving canonicalization that tolerates missing path
// suffixes, containment checks for tree membership, and metadata-preserving
// file copies.
package fspath

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Realpath returns the canonical absolute form of path, resolving symlinks
// in every component that exists on disk. Components past the last existing
// one are appended verbatim, so a path to a not-yet-created file under an
// existing (possibly symlinked) directory still canonicalizes its parent.
// Realpath never fails; when nothing of the path exists it returns the
// cleaned absolute path unchanged.
func Realpath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	p := abs
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved
		}
		parent := filepath.Dir(p)
		if parent == p {
			return abs
		}
		tail = append(tail, filepath.Base(p))
		p = parent
	}
}

// IsWithin reports whether path points inside the tree rooted at root. Both
// arguments are compared lexically, so canonicalize them first when symlinks
// may be involved.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

// RelativeTo returns the lexical relative path from the directory start to
// targ. It exists so call sites read in dependency order (target first).
func RelativeTo(targ, start string) (string, error) {
	rel, err := filepath.Rel(start, targ)
	if err != nil {
		return "", fmt.Errorf("relativizing %s against %s: %w", targ, start, err)
	}
	return rel, nil
}

// CopyFile copies src to dst, preserving the source's permission bits and
// modification time. dst is truncated when it already exists.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stating copy source: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening copy source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating copy target: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing copy target: %w", err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserving mode on %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserving mtime on %s: %w", dst, err)
	}
	return nil
}
