// Package rename verifies rename(2) semantics: metadata preservation
// across every entry type and error conditions.
package rename

import (
	"path/filepath"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/features"
	"github.com/musikid/pjdfstest/harness"
	"github.com/musikid/pjdfstest/tests"
)

func init() {
	harness.Register(harness.TestCase{
		Group:       "rename",
		Name:        "preserve_metadata",
		Description: "rename preserves file metadata",
		FileTypes: []harness.FileType{
			harness.Regular, harness.Fifo, harness.Block, harness.Char, harness.Socket,
		},
		FunWithType: preserveMetadata,
	})
	harness.Register(harness.TestCase{
		Group:       "rename",
		Name:        "preserve_metadata_dir",
		Description: "rename preserves directory metadata",
		Fun:         preserveMetadataDir,
	})
	harness.Register(harness.TestCase{
		Group: "rename",
		Name:  "enoent",
		Fun:   enoent,
	})
	harness.Register(harness.TestCase{
		Group:       "rename",
		Name:        "exdev",
		Description: "rename across filesystems returns EXDEV",
		Guards: []harness.Guard{
			harness.HasSecondaryFs,
		},
		Fun: exdev,
	})
	harness.Register(harness.TestCase{
		Group:            "rename",
		Name:             "update_ctime",
		Description:      "rename updates ctime on success",
		RequiredFeatures: []features.Feature{features.RenameCtime},
		FileTypes: []harness.FileType{
			harness.Regular, harness.Dir,
		},
		FunWithType: updateCtime,
	})
}

// invariant is the part of the stat structure rename must preserve.
type invariant struct {
	ino   uint64
	mode  uint32
	nlink uint64
	uid   uint32
	gid   uint32
	rdev  uint64
	size  int64
}

func toInvariant(st *unix.Stat_t) invariant {
	return invariant{
		ino:   uint64(st.Ino),
		mode:  uint32(st.Mode),
		nlink: uint64(st.Nlink),
		uid:   st.Uid,
		gid:   st.Gid,
		rdev:  uint64(st.Rdev),
		size:  st.Size,
	}
}

func preserveMetadata(ctx *harness.TestContext, ft harness.FileType) {
	oldPath, err := ctx.Create(ft)
	require.NoError(ctx, err)
	newPath := filepath.Join(ctx.BasePath(), "new")

	oldSt := tests.MustLstat(ctx, oldPath)

	require.NoError(ctx, unix.Rename(oldPath, newPath))
	_, err = tests.Lstat(oldPath)
	assert.ErrorIs(ctx, err, unix.ENOENT)

	newSt := tests.MustLstat(ctx, newPath)
	assert.Equal(ctx, toInvariant(&oldSt), toInvariant(&newSt))

	// A hard link still refers to the same inode after another rename.
	linkPath := filepath.Join(ctx.BasePath(), "link")
	require.NoError(ctx, unix.Link(newPath, linkPath))
	linkSt := tests.MustLstat(ctx, linkPath)
	assert.Equal(ctx, uint64(2), uint64(linkSt.Nlink))

	anotherPath := filepath.Join(ctx.BasePath(), "another")
	require.NoError(ctx, unix.Rename(newPath, anotherPath))
	anotherSt := tests.MustLstat(ctx, anotherPath)
	assert.Equal(ctx, toInvariant(&linkSt), toInvariant(&anotherSt))
}

func preserveMetadataDir(ctx *harness.TestContext) {
	oldPath, err := ctx.Create(harness.Dir)
	require.NoError(ctx, err)
	newPath := filepath.Join(ctx.BasePath(), "new")

	oldSt := tests.MustLstat(ctx, oldPath)

	require.NoError(ctx, unix.Rename(oldPath, newPath))
	_, err = tests.Lstat(oldPath)
	assert.ErrorIs(ctx, err, unix.ENOENT)

	newSt := tests.MustLstat(ctx, newPath)
	assert.Equal(ctx, toInvariant(&oldSt), toInvariant(&newSt))
}

func enoent(ctx *harness.TestContext) {
	missing := filepath.Join(ctx.BasePath(), "missing")
	target := ctx.GenPath()

	assert.ErrorIs(ctx, unix.Rename(missing, target), unix.ENOENT)
	assert.ErrorIs(ctx, unix.Rename(filepath.Join(missing, "file"), target), unix.ENOENT)
}

func exdev(ctx *harness.TestContext) {
	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)

	target := filepath.Join(ctx.FeaturesConfig().SecondaryFs, filepath.Base(path))
	assert.ErrorIs(ctx, unix.Rename(path, target), unix.EXDEV)
}

func updateCtime(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)
	newPath := ctx.GenPath()

	before := tests.MustLstat(ctx, path)
	ctx.Nap()
	require.NoError(ctx, unix.Rename(path, newPath))
	after := tests.MustLstat(ctx, newPath)
	assert.True(ctx, tests.Ctime(&after).After(tests.Ctime(&before)), "ctime was not updated by rename")
}
