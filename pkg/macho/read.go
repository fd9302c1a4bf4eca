// SPDX-License-Identifier: MPL-2.0

package macho

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// IsMachO reports whether path starts with a thin or fat Mach-O magic
// number. It reads only the first four bytes.
func IsMachO(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return hasMachOMagic(magic[:]), nil
}

// InstallNames returns the dependency install names recorded in path, in
// load command order. Weak, re-exported, lazy and upward dependencies are
// included; the file's own install id is not. For fat files the result is
// the union over all architecture slices, keeping first-seen order. A file
// that is not Mach-O at all yields (nil, nil): plain files simply record no
// install names.
func InstallNames(path string) ([]string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !hasMachOMagic(buf) {
		return nil, nil
	}
	slices, err := parseSlices(path, buf)
	if err != nil {
		return nil, err
	}
	var names []string
	seen := make(map[string]bool)
	for i := range slices {
		s := &slices[i]
		for _, lc := range s.cmds {
			if !isDylibLoadCmd(lc.cmd) {
				continue
			}
			name, err := commandName(s.bo, lc.data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// InstallID returns the install id (LC_ID_DYLIB name) recorded in path, or
// "" when the file carries none. Non-Mach-O files also yield "".
func InstallID(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !hasMachOMagic(buf) {
		return "", nil
	}
	slices, err := parseSlices(path, buf)
	if err != nil {
		return "", err
	}
	for i := range slices {
		s := &slices[i]
		for _, lc := range s.cmds {
			if lc.cmd != lcIDDylib {
				continue
			}
			name, err := commandName(s.bo, lc.data)
			if err != nil {
				return "", fmt.Errorf("%s: %w", path, err)
			}
			return name, nil
		}
	}
	return "", nil
}

// RPaths returns the run-path entries (LC_RPATH) recorded in path, in load
// command order, deduplicated across fat slices.
func RPaths(path string) ([]string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !hasMachOMagic(buf) {
		return nil, nil
	}
	slices, err := parseSlices(path, buf)
	if err != nil {
		return nil, err
	}
	var rpaths []string
	seen := make(map[string]bool)
	for i := range slices {
		s := &slices[i]
		for _, lc := range s.cmds {
			if lc.cmd != lcRPath {
				continue
			}
			rpath, err := commandName(s.bo, lc.data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if !seen[rpath] {
				seen[rpath] = true
				rpaths = append(rpaths, rpath)
			}
		}
	}
	return rpaths, nil
}

// Architectures returns the architecture names of every slice in path, in
// container order, e.g. ["x86_64", "arm64"] for a universal library.
func Architectures(path string) ([]string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	slices, err := parseSlices(path, buf)
	if err != nil {
		return nil, err
	}
	archs := make([]string, 0, len(slices))
	for i := range slices {
		archs = append(archs, archName(slices[i].cputype))
	}
	return archs, nil
}
