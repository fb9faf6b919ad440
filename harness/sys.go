package harness

import "golang.org/x/sys/unix"

// ALLPERMS is the full permission bit mask, mode_t style.
const ALLPERMS = 0o7777

// Chmod changes the mode of path, following symlinks.
func Chmod(path string, mode uint32) error {
	return unix.Fchmodat(unix.AT_FDCWD, path, mode, 0)
}

// Lchmod changes the mode of path without following symlinks. Not every
// platform supports it; unsupported hosts return ENOTSUP.
func Lchmod(path string, mode uint32) error {
	return unix.Fchmodat(unix.AT_FDCWD, path, mode, unix.AT_SYMLINK_NOFOLLOW)
}
