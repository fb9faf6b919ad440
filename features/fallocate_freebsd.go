//go:build freebsd

package features

import "golang.org/x/sys/unix"

// Fallocate reserves space for the open file. x/sys has no
// posix_fallocate wrapper, so the syscall is raw.
func Fallocate(fd int, off, length int64) error {
	_, _, errno := unix.Syscall(unix.SYS_POSIX_FALLOCATE, uintptr(fd), uintptr(off), uintptr(length))
	if errno != 0 {
		return errno
	}
	return nil
}
