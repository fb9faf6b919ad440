//go:build freebsd || darwin || netbsd || openbsd

package tests

import "golang.org/x/sys/unix"

// Flags returns the BSD file flags of st.
func Flags(st *unix.Stat_t) uint32 {
	return st.Flags
}
