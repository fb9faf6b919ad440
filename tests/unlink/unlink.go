// Package unlink verifies unlink(2) semantics: removal across entry
// types and the sticky directory EPERM rule.
package unlink

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/harness"
	"github.com/musikid/pjdfstest/tests"
)

func init() {
	harness.Register(harness.TestCase{
		Group:       "unlink",
		Name:        "removes_entry",
		Description: "unlink removes any non-directory entry",
		FileTypes:   harness.AllFileTypes,
		ExcludedTypes: []harness.FileType{
			harness.Dir,
		},
		FunWithType: removesEntry,
	})
	harness.Register(harness.TestCase{
		Group:       "unlink",
		Name:        "eisdir_or_eperm",
		Description: "unlink on a directory fails",
		Fun:         directory,
	})
	harness.Register(harness.TestCase{
		Group:         "unlink",
		Name:          "sticky_eperm",
		Description:   "unlink in a sticky directory returns EPERM for a user owning neither the directory nor the file",
		RequireRoot:   true,
		SerializedFun: stickyEperm,
	})
	harness.Register(harness.TestCase{
		Group:       "unlink",
		Name:        "parent_times",
		Description: "a successful unlink updates the parent's mtime and ctime",
		Fun:         parentTimes,
	})
}

func removesEntry(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)

	require.NoError(ctx, unix.Unlink(path))
	_, err = tests.Lstat(path)
	assert.ErrorIs(ctx, err, unix.ENOENT)
}

func directory(ctx *harness.TestContext) {
	path, err := ctx.Create(harness.Dir)
	require.NoError(ctx, err)

	err = unix.Unlink(path)
	// POSIX allows either; Linux gives EISDIR, the BSDs EPERM.
	assert.True(ctx, err == unix.EISDIR || err == unix.EPERM,
		"expected EISDIR or EPERM, got %v", err)
}

func stickyEperm(ctx *harness.SerializedTestContext) {
	dir, err := ctx.NewFile(harness.Dir).Mode(0o777 | unix.S_ISVTX).Create()
	require.NoError(ctx, err)

	path, err := harness.NewFileBuilder(harness.Regular, dir).Mode(0o644).Create()
	require.NoError(ctx, err)

	user := ctx.GetNewUser()
	ctx.AsUser(user, nil, func() {
		require.ErrorIs(ctx, unix.Unlink(path), unix.EPERM)
	})

	// Still there.
	_, err = tests.Lstat(path)
	assert.NoError(ctx, err)
}

func parentTimes(ctx *harness.TestContext) {
	parent, err := ctx.Create(harness.Dir)
	require.NoError(ctx, err)
	path, err := harness.NewFileBuilder(harness.Regular, parent).Create()
	require.NoError(ctx, err)

	before := tests.MustLstat(ctx, parent)
	ctx.Nap()
	require.NoError(ctx, unix.Unlink(path))
	after := tests.MustLstat(ctx, parent)

	assert.True(ctx, tests.Mtime(&after).After(tests.Mtime(&before)), "parent mtime was not updated")
	assert.True(ctx, tests.Ctime(&after).After(tests.Ctime(&before)), "parent ctime was not updated")
}
