// SPDX-License-Identifier: MPL-2.0

package macho

import (
	"fmt"
	"io/fs"
	"os"
)

// ChangeInstallName rewrites every dependency load command in path whose
// install name equals old to carry new instead. All architecture slices of a
// fat file are rewritten. It fails with ErrNotMachO when path is not a
// Mach-O file, with *NameNotFoundError when no slice records old, and with
// *NoSpaceError when a grown load command area would no longer fit before
// the slice's section data. The file on disk is only written after every
// slice rewrote cleanly.
func ChangeInstallName(path, old, new string) error {
	buf, mode, err := readBinary(path)
	if err != nil {
		return err
	}
	slices, err := parseSlices(path, buf)
	if err != nil {
		return err
	}
	found := false
	for i := range slices {
		s := &slices[i]
		blob, err := renamedCommands(s, path, old, new, false)
		if err != nil {
			return err
		}
		if blob == nil {
			continue
		}
		if err := s.setCommands(path, blob, s.ncmds); err != nil {
			return err
		}
		found = true
	}
	if !found {
		return &NameNotFoundError{File: path, Name: old}
	}
	return writeBinary(path, buf, mode)
}

// SetInstallID rewrites the install id (LC_ID_DYLIB) of every slice in path
// to id. It fails with *NameNotFoundError (empty Name) when the file records
// no install id, which is the case for bundles and executables.
func SetInstallID(path, id string) error {
	buf, mode, err := readBinary(path)
	if err != nil {
		return err
	}
	slices, err := parseSlices(path, buf)
	if err != nil {
		return err
	}
	found := false
	for i := range slices {
		s := &slices[i]
		blob, err := renamedCommands(s, path, "", id, true)
		if err != nil {
			return err
		}
		if blob == nil {
			continue
		}
		if err := s.setCommands(path, blob, s.ncmds); err != nil {
			return err
		}
		found = true
	}
	if !found {
		return &NameNotFoundError{File: path}
	}
	return writeBinary(path, buf, mode)
}

// AddRPath appends an LC_RPATH load command carrying rpath to every slice of
// path.
func AddRPath(path, rpath string) error {
	buf, mode, err := readBinary(path)
	if err != nil {
		return err
	}
	slices, err := parseSlices(path, buf)
	if err != nil {
		return err
	}
	for i := range slices {
		s := &slices[i]
		size := alignUp(12+len(rpath)+1, s.nameAlign())
		cmd := make([]byte, size)
		s.bo.PutUint32(cmd[0:4], lcRPath)
		s.bo.PutUint32(cmd[4:8], uint32(size))
		s.bo.PutUint32(cmd[8:12], 12)
		copy(cmd[12:], rpath)

		blob := make([]byte, 0, int(s.sizeofcmds)+size)
		for _, lc := range s.cmds {
			blob = append(blob, lc.data...)
		}
		blob = append(blob, cmd...)
		if err := s.setCommands(path, blob, s.ncmds+1); err != nil {
			return err
		}
	}
	return writeBinary(path, buf, mode)
}

// renamedCommands rebuilds a slice's load command blob with the matching
// name replaced. With matchID set it targets the LC_ID_DYLIB command
// regardless of its current name; otherwise it targets dependency commands
// whose name equals old. It returns nil when nothing matched.
func renamedCommands(s *machoSlice, path, old, new string, matchID bool) ([]byte, error) {
	blob := make([]byte, 0, int(s.sizeofcmds))
	matched := false
	for _, lc := range s.cmds {
		replace := false
		if matchID {
			replace = lc.cmd == lcIDDylib
		} else if isDylibLoadCmd(lc.cmd) {
			name, err := commandName(s.bo, lc.data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			replace = name == old
		}
		if !replace {
			blob = append(blob, lc.data...)
			continue
		}
		renamed, err := commandWithName(s.bo, lc.data, new, s.nameAlign())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		blob = append(blob, renamed...)
		matched = true
	}
	if !matched {
		return nil, nil
	}
	return blob, nil
}

func readBinary(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("stating %s: %w", path, err)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf, info.Mode().Perm(), nil
}

func writeBinary(path string, buf []byte, mode fs.FileMode) error {
	if err := os.WriteFile(path, buf, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
