// SPDX-License-Identifier: MPL-2.0

// Package machotest assembles small but structurally valid Mach-O files for
// tests: a real header, one __TEXT/__text section, and the load commands the
// delocation pipeline inspects and rewrites. The files parse anywhere, so
// tests do not depend on platform tooling or on binary fixtures checked into
// the repository.
package machotest

import (
	"encoding/binary"
	"os"
	"testing"
)

const (
	magic32  = 0xfeedface
	magic64  = 0xfeedfacf
	fatMagic = 0xcafebabe

	mhExecute = 2
	mhDylib   = 6

	lcSegment       = 0x00000001
	lcLoadDylib     = 0x0000000c
	lcIDDylib       = 0x0000000d
	lcSegment64     = 0x00000019
	lcLoadWeakDylib = 0x80000018
	lcRPath         = 0x8000001c

	cpuI386   = 7
	cpuX86_64 = 0x01000007
	cpuARM64  = 0x0100000c
)

// Dylib describes one Mach-O image to assemble.
type Dylib struct {
	// ID is recorded as the LC_ID_DYLIB install id. Empty means the image is
	// written as an executable with no id.
	ID string
	// Deps become LC_LOAD_DYLIB entries, in order.
	Deps []string
	// WeakDeps become LC_LOAD_WEAK_DYLIB entries, in order.
	WeakDeps []string
	// RPaths become LC_RPATH entries, in order.
	RPaths []string
	// Arch selects the slice architecture: "x86_64" (the default), "arm64"
	// or "i386".
	Arch string
	// Headroom is the zero padding left between the load commands and the
	// section data; rewrites may grow commands into it. Zero means a
	// generous default, a negative value leaves no padding at all.
	Headroom int
}

// fake machine code for the __text section
var payload = []byte{0x55, 0x48, 0x89, 0xe5, 0x5d, 0xc3}

// Write assembles lib as a thin Mach-O file at path.
func Write(t testing.TB, path string, lib Dylib) {
	t.Helper()
	if err := os.WriteFile(path, image(t, lib), 0755); err != nil {
		t.Fatalf("failed to write mach-o fixture %s: %v", path, err)
	}
}

// WriteFat assembles every lib as one architecture slice of a fat file at
// path, in argument order.
func WriteFat(t testing.TB, path string, libs ...Dylib) {
	t.Helper()
	if len(libs) == 0 {
		t.Fatal("WriteFat needs at least one slice")
	}
	images := make([][]byte, len(libs))
	for i, lib := range libs {
		images[i] = image(t, lib)
	}

	be := binary.BigEndian
	hdr := make([]byte, 8+20*len(libs))
	be.PutUint32(hdr[0:4], fatMagic)
	be.PutUint32(hdr[4:8], uint32(len(libs)))
	offsets := make([]int, len(libs))
	off := alignUp(len(hdr), 8)
	for i, img := range images {
		arch := hdr[8+i*20:]
		be.PutUint32(arch[0:4], cputypeOf(t, libs[i].Arch))
		be.PutUint32(arch[4:8], 3)
		be.PutUint32(arch[8:12], uint32(off))
		be.PutUint32(arch[12:16], uint32(len(img)))
		be.PutUint32(arch[16:20], 3)
		offsets[i] = off
		off = alignUp(off+len(img), 8)
	}

	buf := make([]byte, off)
	copy(buf, hdr)
	for i, img := range images {
		copy(buf[offsets[i]:], img)
	}
	if err := os.WriteFile(path, buf, 0755); err != nil {
		t.Fatalf("failed to write fat mach-o fixture %s: %v", path, err)
	}
}

// image assembles the raw bytes of one thin Mach-O slice.
func image(t testing.TB, lib Dylib) []byte {
	t.Helper()
	bo := binary.LittleEndian
	is64 := lib.Arch != "i386"
	align, hdrSize := 8, 32
	if !is64 {
		align, hdrSize = 4, 28
	}

	var cmds [][]byte
	if lib.ID != "" {
		cmds = append(cmds, dylibCmd(bo, lcIDDylib, lib.ID, align))
	}
	for _, dep := range lib.Deps {
		cmds = append(cmds, dylibCmd(bo, lcLoadDylib, dep, align))
	}
	for _, dep := range lib.WeakDeps {
		cmds = append(cmds, dylibCmd(bo, lcLoadWeakDylib, dep, align))
	}
	for _, rpath := range lib.RPaths {
		cmds = append(cmds, rpathCmd(bo, rpath, align))
	}

	segSize := 72 + 80
	if !is64 {
		segSize = 56 + 68
	}
	sizeofcmds := segSize
	for _, c := range cmds {
		sizeofcmds += len(c)
	}

	headroom := lib.Headroom
	switch {
	case headroom == 0:
		headroom = 1024
	case headroom < 0:
		headroom = 0
	}
	dataOff := hdrSize + sizeofcmds + headroom

	buf := make([]byte, dataOff+len(payload))
	filetype := uint32(mhDylib)
	if lib.ID == "" {
		filetype = mhExecute
	}

	magic := uint32(magic64)
	if !is64 {
		magic = magic32
	}
	bo.PutUint32(buf[0:4], magic)
	bo.PutUint32(buf[4:8], cputypeOf(t, lib.Arch))
	bo.PutUint32(buf[8:12], 3)
	bo.PutUint32(buf[12:16], filetype)
	bo.PutUint32(buf[16:20], uint32(1+len(cmds)))
	bo.PutUint32(buf[20:24], uint32(sizeofcmds))
	bo.PutUint32(buf[24:28], 0x85)

	pos := hdrSize
	if is64 {
		pos += copy(buf[pos:], segmentCmd64(bo, dataOff, len(payload)))
	} else {
		pos += copy(buf[pos:], segmentCmd32(bo, dataOff, len(payload)))
	}
	for _, c := range cmds {
		pos += copy(buf[pos:], c)
	}
	copy(buf[dataOff:], payload)
	return buf
}

func dylibCmd(bo binary.ByteOrder, cmd uint32, name string, align int) []byte {
	size := alignUp(24+len(name)+1, align)
	b := make([]byte, size)
	bo.PutUint32(b[0:4], cmd)
	bo.PutUint32(b[4:8], uint32(size))
	bo.PutUint32(b[8:12], 24)
	bo.PutUint32(b[12:16], 2)
	bo.PutUint32(b[16:20], 0x10000)
	bo.PutUint32(b[20:24], 0x10000)
	copy(b[24:], name)
	return b
}

func rpathCmd(bo binary.ByteOrder, path string, align int) []byte {
	size := alignUp(12+len(path)+1, align)
	b := make([]byte, size)
	bo.PutUint32(b[0:4], lcRPath)
	bo.PutUint32(b[4:8], uint32(size))
	bo.PutUint32(b[8:12], 12)
	copy(b[12:], path)
	return b
}

func segmentCmd64(bo binary.ByteOrder, dataOff, payloadLen int) []byte {
	b := make([]byte, 72+80)
	bo.PutUint32(b[0:4], lcSegment64)
	bo.PutUint32(b[4:8], uint32(len(b)))
	copy(b[8:24], "__TEXT")
	bo.PutUint64(b[24:32], 0)
	bo.PutUint64(b[32:40], 0x1000)
	bo.PutUint64(b[40:48], 0)
	bo.PutUint64(b[48:56], uint64(dataOff+payloadLen))
	bo.PutUint32(b[56:60], 7)
	bo.PutUint32(b[60:64], 5)
	bo.PutUint32(b[64:68], 1)

	sect := b[72:]
	copy(sect[0:16], "__text")
	copy(sect[16:32], "__TEXT")
	bo.PutUint64(sect[32:40], 0x1000)
	bo.PutUint64(sect[40:48], uint64(payloadLen))
	bo.PutUint32(sect[48:52], uint32(dataOff))
	bo.PutUint32(sect[52:56], 2)
	bo.PutUint32(sect[64:68], 0x80000400)
	return b
}

func segmentCmd32(bo binary.ByteOrder, dataOff, payloadLen int) []byte {
	b := make([]byte, 56+68)
	bo.PutUint32(b[0:4], lcSegment)
	bo.PutUint32(b[4:8], uint32(len(b)))
	copy(b[8:24], "__TEXT")
	bo.PutUint32(b[24:28], 0)
	bo.PutUint32(b[28:32], 0x1000)
	bo.PutUint32(b[32:36], 0)
	bo.PutUint32(b[36:40], uint32(dataOff+payloadLen))
	bo.PutUint32(b[40:44], 7)
	bo.PutUint32(b[44:48], 5)
	bo.PutUint32(b[48:52], 1)

	sect := b[56:]
	copy(sect[0:16], "__text")
	copy(sect[16:32], "__TEXT")
	bo.PutUint32(sect[32:36], 0x1000)
	bo.PutUint32(sect[36:40], uint32(payloadLen))
	bo.PutUint32(sect[40:44], uint32(dataOff))
	bo.PutUint32(sect[44:48], 2)
	bo.PutUint32(sect[56:60], 0x80000400)
	return b
}

func cputypeOf(t testing.TB, arch string) uint32 {
	switch arch {
	case "", "x86_64":
		return cpuX86_64
	case "arm64":
		return cpuARM64
	case "i386":
		return cpuI386
	}
	t.Fatalf("unsupported fixture architecture %q", arch)
	return 0
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
