//go:build freebsd || darwin || netbsd

package tests

import (
	"time"

	"golang.org/x/sys/unix"
)

// Birthtime returns the creation time of st.
func Birthtime(st *unix.Stat_t) time.Time {
	return time.Unix(st.Btim.Unix())
}
