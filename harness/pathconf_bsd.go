//go:build freebsd || darwin || netbsd || openbsd

package harness

import "golang.org/x/sys/unix"

// pathconf(2) selectors, identical across the BSD lineage
// (sys/unistd.h).
const (
	pcNameMax = 4
	pcPathMax = 5
)

func nameMax(path string) (int, error) {
	return unix.Pathconf(path, pcNameMax)
}

func pathMax(path string) (int, error) {
	return unix.Pathconf(path, pcPathMax)
}
