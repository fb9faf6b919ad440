//go:build linux

package harness

// Linux has no pathconf(2) wrapper in x/sys; the limits.h constants
// apply to every in-tree filesystem.

func nameMax(path string) (int, error) {
	return 255, nil
}

func pathMax(path string) (int, error) {
	return 4096, nil
}
