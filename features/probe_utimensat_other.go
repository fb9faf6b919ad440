//go:build !linux && !freebsd

package features

func probeUtimensat(path string) (utimensat, utimeNow bool) {
	return false, false
}
