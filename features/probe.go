package features

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Capabilities is the runtime capability table for the host, populated
// once at startup by Probe. The guard evaluator consults it uniformly
// instead of branching on the build platform.
type Capabilities struct {
	Lchmod          bool
	Chflags         bool
	Lchflags        bool
	UtimeNow        bool
	Utimensat       bool
	PosixFallocate  bool
	StatStBirthtime bool
	Flags           map[FileFlag]bool
}

// Probe determines what the host and the filesystem holding dir support.
// Probe files are created inside dir and removed afterwards; probe
// failures simply leave the capability off.
func Probe(dir string) *Capabilities {
	c := &Capabilities{
		Chflags:         HasChflags,
		Lchflags:        HasLchflags,
		StatStBirthtime: hasBirthtime,
		Flags:           make(map[FileFlag]bool),
	}

	probeFile := filepath.Join(dir, ".pjdfstest-probe")
	if f, err := os.OpenFile(probeFile, os.O_CREATE|os.O_RDWR, 0o644); err == nil {
		c.Utimensat, c.UtimeNow = probeUtimensat(probeFile)
		c.PosixFallocate = probeFallocate(int(f.Fd()))
		if HasChflags && SetFlags(probeFile, 0) != nil {
			c.Chflags = false
			c.Lchflags = false
		}
		_ = f.Close()
		_ = os.Remove(probeFile)
	}

	probeLink := filepath.Join(dir, ".pjdfstest-probe-link")
	if err := unix.Symlink("probe", probeLink); err == nil {
		c.Lchmod = isSupported(unix.Fchmodat(unix.AT_FDCWD, probeLink, 0o644, unix.AT_SYMLINK_NOFOLLOW))
		_ = os.Remove(probeLink)
	}

	for _, flag := range SupportedFlags() {
		c.Flags[flag] = c.Chflags
	}
	return c
}

// isSupported treats only "not implemented here" errors as lack of
// support; any other outcome means the syscall exists. EOPNOTSUPP is
// checked separately since it aliases ENOTSUP on some platforms.
func isSupported(err error) bool {
	switch err {
	case unix.ENOTSUP, unix.ENOSYS, unix.EINVAL:
		return false
	}
	return err != unix.EOPNOTSUPP
}

func probeFallocate(fd int) bool {
	return isSupported(Fallocate(fd, 0, 1))
}

// Has reports whether the host can exercise the feature at all.
// Purely behavioral features (eg rename updating ctime) cannot be probed
// and are left to the configuration.
func (c *Capabilities) Has(f Feature) bool {
	switch f {
	case Chflags:
		return c.Chflags
	case ChflagsSfSnapshot:
		_, known := FlagBit(SF_SNAPSHOT)
		return c.Chflags && known
	case PosixFallocate:
		return c.PosixFallocate
	case StatStBirthtime:
		return c.StatStBirthtime
	case UtimeNow:
		return c.UtimeNow
	case Utimensat:
		return c.Utimensat
	}
	return true
}

// HasFlag reports whether the file flag can be set on this host.
func (c *Capabilities) HasFlag(f FileFlag) bool {
	return c.Flags[f]
}
