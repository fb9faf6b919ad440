// Package link verifies link(2) semantics: nlink accounting and error
// conditions.
package link

import (
	"path/filepath"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/harness"
	"github.com/musikid/pjdfstest/tests"
)

func init() {
	harness.Register(harness.TestCase{
		Group:       "link",
		Name:        "nlink",
		Description: "link increments st_nlink of the target, unlink decrements it",
		FileTypes: []harness.FileType{
			harness.Regular, harness.Fifo, harness.Socket,
		},
		FunWithType: nlink,
	})
	harness.Register(harness.TestCase{
		Group:       "link",
		Name:        "same_metadata",
		Description: "both names refer to the same inode",
		Fun:         sameMetadata,
	})
	harness.Register(harness.TestCase{
		Group: "link",
		Name:  "enoent",
		Fun:   enoent,
	})
}

func nlink(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)
	st := tests.MustLstat(ctx, path)
	require.Equal(ctx, uint64(1), uint64(st.Nlink))

	link := ctx.GenPath()
	require.NoError(ctx, unix.Link(path, link))
	st = tests.MustLstat(ctx, path)
	assert.Equal(ctx, uint64(2), uint64(st.Nlink))

	require.NoError(ctx, unix.Unlink(link))
	st = tests.MustLstat(ctx, path)
	assert.Equal(ctx, uint64(1), uint64(st.Nlink))
}

func sameMetadata(ctx *harness.TestContext) {
	path, err := ctx.NewFile(harness.Regular).Mode(0o604).Create()
	require.NoError(ctx, err)
	link := ctx.GenPath()
	require.NoError(ctx, unix.Link(path, link))

	st := tests.MustLstat(ctx, path)
	linkSt := tests.MustLstat(ctx, link)
	assert.Equal(ctx, uint64(st.Ino), uint64(linkSt.Ino))
	assert.Equal(ctx, uint32(st.Mode), uint32(linkSt.Mode))
	assert.Equal(ctx, st.Uid, linkSt.Uid)
	assert.Equal(ctx, st.Gid, linkSt.Gid)

	// Mode changes are visible through both names.
	require.NoError(ctx, harness.Chmod(link, 0o600))
	st = tests.MustLstat(ctx, path)
	assert.Equal(ctx, uint32(0o600), uint32(st.Mode)&harness.ALLPERMS)
}

func enoent(ctx *harness.TestContext) {
	missing := filepath.Join(ctx.BasePath(), "missing")

	assert.ErrorIs(ctx, unix.Link(missing, ctx.GenPath()), unix.ENOENT)
	assert.ErrorIs(ctx, unix.Link(filepath.Join(missing, "file"), ctx.GenPath()), unix.ENOENT)
}
