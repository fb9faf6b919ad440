//go:build linux || freebsd

package features

import "golang.org/x/sys/unix"

// probeUtimensat checks utimensat(2) and the UTIME_NOW constant by
// touching the probe file.
func probeUtimensat(path string) (utimensat, utimeNow bool) {
	ts := []unix.Timespec{
		{Nsec: unix.UTIME_OMIT},
		{Nsec: unix.UTIME_OMIT},
	}
	if !isSupported(unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0)) {
		return false, false
	}
	ts[0].Nsec = unix.UTIME_NOW
	ts[1].Nsec = unix.UTIME_NOW
	return true, isSupported(unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0))
}
