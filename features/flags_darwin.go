//go:build darwin

package features

import "golang.org/x/sys/unix"

// Flag bits the platform knows about (sys/stat.h). x/sys exports no
// UF_/SF_ constants for the BSDs, so the values are spelled out.
var platformFlagBits = map[FileFlag]uint32{
	UF_SETTABLE:  0x0000ffff,
	UF_NODUMP:    0x00000001,
	UF_IMMUTABLE: 0x00000002,
	UF_APPEND:    0x00000004,
	UF_OPAQUE:    0x00000008,
	UF_HIDDEN:    0x00008000,
	SF_SETTABLE:  0xffff0000,
	SF_ARCHIVED:  0x00010000,
	SF_IMMUTABLE: 0x00020000,
	SF_APPEND:    0x00040000,
}

// HasChflags is whether the platform has the chflags(2) syscall.
const HasChflags = true

// HasLchflags is whether file flags can be set without following
// symlinks. Darwin has no lchflags(2).
const HasLchflags = false

// SetFlags sets the file flags of path, chflags(2) style.
func SetFlags(path string, flags uint32) error {
	return unix.Chflags(path, int(flags))
}

// SetFlagsNoFollow sets the file flags of path without following
// symlinks.
func SetFlagsNoFollow(path string, flags uint32) error {
	return unix.ENOTSUP
}
