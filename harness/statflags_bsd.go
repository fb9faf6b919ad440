//go:build freebsd || darwin || netbsd || openbsd

package harness

import "golang.org/x/sys/unix"

func fileFlags(st *unix.Stat_t) uint32 {
	return st.Flags
}
