package tests

import (
	"time"

	"golang.org/x/sys/unix"
)

// x/sys normalizes the timestamp field names across platforms, unlike
// the stdlib syscall package.
func times(st *unix.Stat_t) (atime, mtime, ctime time.Time) {
	atime = time.Unix(st.Atim.Unix())
	mtime = time.Unix(st.Mtim.Unix())
	ctime = time.Unix(st.Ctim.Unix())
	return
}
