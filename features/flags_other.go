//go:build !freebsd && !darwin

package features

import "golang.org/x/sys/unix"

// Flag bits the platform knows about. BSD file flags do not exist here.
var platformFlagBits = map[FileFlag]uint32{}

// HasChflags is whether the platform has the chflags(2) syscall.
const HasChflags = false

// HasLchflags is whether file flags can be set without following
// symlinks.
const HasLchflags = false

// SetFlags sets the file flags of path, chflags(2) style.
func SetFlags(path string, flags uint32) error {
	return unix.ENOTSUP
}

// SetFlagsNoFollow sets the file flags of path without following
// symlinks.
func SetFlagsNoFollow(path string, flags uint32) error {
	return unix.ENOTSUP
}
