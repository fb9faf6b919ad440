package harness

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/features"
)

// Teardown removes the sandbox tree. Tests leave entries behind with
// search permission denied or with flags denying delete, so every
// directory (and, where flags can be cleared without following
// symlinks, every entry) first gets its permission bits and file flags
// reset. All of it is best effort: teardown must never fail or mask the
// recorded test outcome, so every error is swallowed.
func (c *TestContext) Teardown() {
	unlockTree(c.baseDir)
	_ = os.RemoveAll(c.baseDir)
}

// Teardown resets the process creation mask before removing the tree.
// A serialized body may change the mask outside WithUmask; the next
// instance must not observe it.
func (c *SerializedTestContext) Teardown() {
	unix.Umask(0)
	c.TestContext.Teardown()
}

// unlockTree walks root and clears anything that would block removal.
// Directories are unlocked before they are read, otherwise a 0000
// directory would hide its own children from the walk.
func unlockTree(root string) {
	var st unix.Stat_t
	if err := unix.Lstat(root, &st); err != nil {
		return
	}
	unlockEntry(root, &st)
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, entry := range entries {
		unlockTree(filepath.Join(root, entry.Name()))
	}
}

func unlockEntry(path string, st *unix.Stat_t) {
	isDir := st.Mode&unix.S_IFMT == unix.S_IFDIR
	if !isDir && !features.HasLchflags {
		return
	}
	// Directories are never symlinks, so following is safe; lchmod is
	// not available everywhere.
	if isDir && st.Mode&unix.S_IRWXU != unix.S_IRWXU {
		_ = Chmod(path, unix.S_IRWXU)
	}
	if features.HasChflags && fileFlags(st) != 0 {
		if features.HasLchflags {
			_ = features.SetFlagsNoFollow(path, 0)
		} else if st.Mode&unix.S_IFMT != unix.S_IFLNK {
			_ = features.SetFlags(path, 0)
		}
	}
}
