//go:build !freebsd && !darwin && !netbsd

package tests

import (
	"time"

	"golang.org/x/sys/unix"
)

// Birthtime returns the creation time of st, always zero on hosts
// without st_birthtime.
func Birthtime(st *unix.Stat_t) time.Time {
	return time.Time{}
}
