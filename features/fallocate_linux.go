//go:build linux

package features

import "golang.org/x/sys/unix"

// Fallocate reserves space for the open file, posix_fallocate(2) style.
func Fallocate(fd int, off, length int64) error {
	return unix.Fallocate(fd, 0, off, length)
}
