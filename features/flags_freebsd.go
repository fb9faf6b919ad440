//go:build freebsd

package features

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Flag bits the platform knows about (sys/stat.h). x/sys exports no
// UF_/SF_ constants for the BSDs, so the values are spelled out.
var platformFlagBits = map[FileFlag]uint32{
	UF_SETTABLE:  0x0000ffff,
	UF_NODUMP:    0x00000001,
	UF_IMMUTABLE: 0x00000002,
	UF_APPEND:    0x00000004,
	UF_OPAQUE:    0x00000008,
	UF_NOUNLINK:  0x00000010,
	UF_SYSTEM:    0x00000080,
	UF_SPARSE:    0x00000100,
	UF_OFFLINE:   0x00000200,
	UF_REPARSE:   0x00000400,
	UF_ARCHIVE:   0x00000800,
	UF_READONLY:  0x00001000,
	UF_HIDDEN:    0x00008000,
	SF_SETTABLE:  0xffff0000,
	SF_ARCHIVED:  0x00010000,
	SF_IMMUTABLE: 0x00020000,
	SF_APPEND:    0x00040000,
	SF_NOUNLINK:  0x00100000,
	SF_SNAPSHOT:  0x00200000,
}

// HasChflags is whether the platform has the chflags(2) syscall.
const HasChflags = true

// HasLchflags is whether file flags can be set without following
// symlinks.
const HasLchflags = true

// SetFlags sets the file flags of path, chflags(2) style.
func SetFlags(path string, flags uint32) error {
	return unix.Chflags(path, int(flags))
}

// SetFlagsNoFollow sets the file flags of path without following
// symlinks. x/sys has no lchflags wrapper, so the syscall is raw.
func SetFlagsNoFollow(path string, flags uint32) error {
	p, err := unix.BytePtrFromString(path)
	if err != nil {
		return err
	}
	_, _, errno := unix.Syscall(unix.SYS_LCHFLAGS, uintptr(unsafe.Pointer(p)), uintptr(flags), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
