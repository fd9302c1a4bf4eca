// SPDX-License-Identifier: MPL-2.0

package macho

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Thin header magics as read with little-endian byte order. The cigam forms
// appear when the file was written on (or for) the opposite byte order.
const (
	magic32 = 0xfeedface
	magic64 = 0xfeedfacf
	cigam32 = 0xcefaedfe
	cigam64 = 0xcffaedfe
)

// Fat container magics as read with big-endian byte order, which is the order
// the fat header is defined in.
const (
	fatMagic = 0xcafebabe
	fatCigam = 0xbebafeca
)

// Load command types. Commands that the dynamic linker must understand have
// the lcReqDyld bit set.
const (
	lcReqDyld = 0x80000000

	lcSegment         = 0x00000001
	lcSymtab          = 0x00000002
	lcLoadDylib       = 0x0000000c
	lcIDDylib         = 0x0000000d
	lcSegment64       = 0x00000019
	lcLazyLoadDylib   = 0x00000020
	lcLoadWeakDylib   = 0x00000018 | lcReqDyld
	lcRPath           = 0x0000001c | lcReqDyld
	lcReexportDylib   = 0x0000001f | lcReqDyld
	lcLoadUpwardDylib = 0x00000023 | lcReqDyld
)

const (
	cpuArchABI64 = 0x01000000
	cpuX86       = 7
	cpuARM       = 12
	cpuPPC       = 18
)

// machoSlice is one architecture slice of a file: the whole file for a thin
// binary, one fat_arch region for a fat one. The byte slice aliases the file
// buffer, so in-place mutations are visible to the caller.
type machoSlice struct {
	b          []byte
	bo         binary.ByteOrder
	is64       bool
	cputype    uint32
	ncmds      uint32
	sizeofcmds uint32
	cmds       []loadCmd
}

// loadCmd is a raw load command. data aliases the slice buffer.
type loadCmd struct {
	cmd  uint32
	off  int
	data []byte
}

func (s *machoSlice) headerSize() int {
	if s.is64 {
		return 32
	}
	return 28
}

func (s *machoSlice) nameAlign() int {
	if s.is64 {
		return 8
	}
	return 4
}

// hasMachOMagic reports whether b starts with a thin or fat magic number.
func hasMachOMagic(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	switch binary.LittleEndian.Uint32(b[:4]) {
	case magic32, magic64, cigam32, cigam64:
		return true
	}
	switch binary.BigEndian.Uint32(b[:4]) {
	case fatMagic, fatCigam:
		return true
	}
	return false
}

// parseSlices splits buf into its architecture slices and parses each one's
// header and load commands. It returns an error wrapping ErrNotMachO when buf
// does not start with a recognized magic.
func parseSlices(path string, buf []byte) ([]machoSlice, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("%s: %w", path, ErrNotMachO)
	}
	switch binary.BigEndian.Uint32(buf[:4]) {
	case fatMagic, fatCigam:
		return parseFat(path, buf)
	}
	s, err := parseSlice(path, buf)
	if err != nil {
		return nil, err
	}
	return []machoSlice{s}, nil
}

// parseFat reads the fat header and parses every architecture slice it
// describes.
func parseFat(path string, buf []byte) ([]machoSlice, error) {
	var bo binary.ByteOrder = binary.BigEndian
	if binary.BigEndian.Uint32(buf[:4]) == fatCigam {
		bo = binary.LittleEndian
	}
	if len(buf) < 8 {
		return nil, fmt.Errorf("%s: truncated fat header", path)
	}
	n := bo.Uint32(buf[4:8])
	if n == 0 || n > 64 {
		return nil, fmt.Errorf("%s: implausible fat arch count %d", path, n)
	}
	if len(buf) < 8+int(n)*20 {
		return nil, fmt.Errorf("%s: truncated fat arch table", path)
	}
	slices := make([]machoSlice, 0, n)
	for i := 0; i < int(n); i++ {
		arch := buf[8+i*20:]
		off := int64(bo.Uint32(arch[8:12]))
		size := int64(bo.Uint32(arch[12:16]))
		if off < 0 || size < 4 || off+size > int64(len(buf)) {
			return nil, fmt.Errorf("%s: fat arch %d outside file bounds", path, i)
		}
		s, err := parseSlice(path, buf[off:off+size])
		if err != nil {
			return nil, err
		}
		slices = append(slices, s)
	}
	return slices, nil
}

// parseSlice parses a thin Mach-O image held in b.
func parseSlice(path string, b []byte) (machoSlice, error) {
	var s machoSlice
	if len(b) < 4 {
		return s, fmt.Errorf("%s: %w", path, ErrNotMachO)
	}
	switch binary.LittleEndian.Uint32(b[:4]) {
	case magic32:
		s.bo, s.is64 = binary.LittleEndian, false
	case magic64:
		s.bo, s.is64 = binary.LittleEndian, true
	case cigam32:
		s.bo, s.is64 = binary.BigEndian, false
	case cigam64:
		s.bo, s.is64 = binary.BigEndian, true
	default:
		return s, fmt.Errorf("%s: %w", path, ErrNotMachO)
	}
	s.b = b
	if len(b) < s.headerSize() {
		return s, fmt.Errorf("%s: truncated Mach-O header", path)
	}
	s.cputype = s.bo.Uint32(b[4:8])
	s.ncmds = s.bo.Uint32(b[16:20])
	s.sizeofcmds = s.bo.Uint32(b[20:24])
	if s.ncmds > 4096 {
		return s, fmt.Errorf("%s: implausible load command count %d", path, s.ncmds)
	}

	pos := s.headerSize()
	s.cmds = make([]loadCmd, 0, s.ncmds)
	for i := uint32(0); i < s.ncmds; i++ {
		if pos+8 > len(b) {
			return s, fmt.Errorf("%s: truncated load commands", path)
		}
		cmd := s.bo.Uint32(b[pos : pos+4])
		size := int(s.bo.Uint32(b[pos+4 : pos+8]))
		if size < 8 || pos+size > len(b) {
			return s, fmt.Errorf("%s: load command %d overruns file", path, i)
		}
		s.cmds = append(s.cmds, loadCmd{cmd: cmd, off: pos, data: b[pos : pos+size]})
		pos += size
	}
	return s, nil
}

// isDylibLoadCmd reports whether cmd records a dependency on another library.
// The file's own LC_ID_DYLIB is deliberately excluded.
func isDylibLoadCmd(cmd uint32) bool {
	switch cmd {
	case lcLoadDylib, lcLoadWeakDylib, lcReexportDylib, lcLazyLoadDylib, lcLoadUpwardDylib:
		return true
	}
	return false
}

// commandName extracts the lc_str payload of a dylib or rpath command. The
// string offset lives at byte 8 in both layouts.
func commandName(bo binary.ByteOrder, data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("load command too short for a name")
	}
	off := int(bo.Uint32(data[8:12]))
	if off < 12 || off >= len(data) {
		return "", fmt.Errorf("name offset %d outside load command", off)
	}
	name := data[off:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return string(name), nil
}

// commandWithName returns a copy of a dylib or rpath command carrying name
// instead of its current string, NUL-padded to the slice's pointer alignment,
// with cmdsize updated.
func commandWithName(bo binary.ByteOrder, data []byte, name string, align int) ([]byte, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("load command too short for a name")
	}
	off := int(bo.Uint32(data[8:12]))
	if off < 12 || off > len(data) {
		return nil, fmt.Errorf("name offset %d outside load command", off)
	}
	size := alignUp(off+len(name)+1, align)
	out := make([]byte, size)
	copy(out, data[:off])
	copy(out[off:], name)
	bo.PutUint32(out[4:8], uint32(size))
	return out, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// commandRoom returns how many bytes the load command area may occupy: the
// gap between the end of the header and the first byte of section or symbol
// table data. Growing commands into that gap overwrites only zero padding.
func (s *machoSlice) commandRoom() int {
	low := len(s.b)
	for _, lc := range s.cmds {
		switch lc.cmd {
		case lcSegment:
			if len(lc.data) < 56 {
				continue
			}
			nsects := int(s.bo.Uint32(lc.data[48:52]))
			for j := 0; j < nsects && 56+(j+1)*68 <= len(lc.data); j++ {
				sect := lc.data[56+j*68:]
				if off := int(s.bo.Uint32(sect[40:44])); off != 0 && off < low {
					low = off
				}
			}
		case lcSegment64:
			if len(lc.data) < 72 {
				continue
			}
			nsects := int(s.bo.Uint32(lc.data[64:68]))
			for j := 0; j < nsects && 72+(j+1)*80 <= len(lc.data); j++ {
				sect := lc.data[72+j*80:]
				if off := int(s.bo.Uint32(sect[48:52])); off != 0 && off < low {
					low = off
				}
			}
		case lcSymtab:
			if len(lc.data) < 24 {
				continue
			}
			if off := int(s.bo.Uint32(lc.data[8:12])); off != 0 && off < low {
				low = off
			}
			if off := int(s.bo.Uint32(lc.data[16:20])); off != 0 && off < low {
				low = off
			}
		}
	}
	if low < s.headerSize() {
		return 0
	}
	return low - s.headerSize()
}

// setCommands replaces the slice's load command area with blob, zeroing any
// bytes the previous area no longer covers, and updates ncmds/sizeofcmds in
// the header.
func (s *machoSlice) setCommands(path string, blob []byte, ncmds uint32) error {
	room := s.commandRoom()
	if len(blob) > room {
		return &NoSpaceError{File: path, Need: uint32(len(blob)), Have: uint32(room)}
	}
	hdr := s.headerSize()
	copy(s.b[hdr:], blob)
	for i := hdr + len(blob); i < hdr+int(s.sizeofcmds) && i < len(s.b); i++ {
		s.b[i] = 0
	}
	s.bo.PutUint32(s.b[16:20], ncmds)
	s.bo.PutUint32(s.b[20:24], uint32(len(blob)))
	s.ncmds = ncmds
	s.sizeofcmds = uint32(len(blob))
	return nil
}

// archName maps a cputype to the name otool and lipo print for it.
func archName(cputype uint32) string {
	switch cputype {
	case cpuX86:
		return "i386"
	case cpuX86 | cpuArchABI64:
		return "x86_64"
	case cpuARM:
		return "arm"
	case cpuARM | cpuArchABI64:
		return "arm64"
	case cpuPPC:
		return "ppc"
	case cpuPPC | cpuArchABI64:
		return "ppc64"
	}
	return fmt.Sprintf("unknown(%#x)", cputype)
}
