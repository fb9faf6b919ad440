// Package chown verifies chown(2) ownership changes and the EPERM
// conditions for unprivileged callers.
package chown

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/harness"
	"github.com/musikid/pjdfstest/tests"
)

func init() {
	harness.Register(harness.TestCase{
		Group:       "chown",
		Name:        "change_owner",
		Description: "the super-user can change ownership to any user and group",
		RequireRoot: true,
		FileTypes:   harness.AllFileTypes,
		ExcludedTypes: []harness.FileType{
			harness.Symlink,
		},
		FunWithType: changeOwner,
	})
	harness.Register(harness.TestCase{
		Group:       "chown",
		Name:        "change_owner_symlink",
		Description: "lchown changes ownership of the symlink itself",
		RequireRoot: true,
		Fun:         changeOwnerSymlink,
	})
	harness.Register(harness.TestCase{
		Group:       "chown",
		Name:        "update_ctime",
		Description: "chown updates ctime on success",
		RequireRoot: true,
		FileTypes: []harness.FileType{
			harness.Regular, harness.Dir, harness.Fifo,
		},
		FunWithType: updateCtime,
	})
	harness.Register(harness.TestCase{
		Group:         "chown",
		Name:          "eperm_not_owner",
		Description:   "chown returns EPERM for an unprivileged user",
		RequireRoot:   true,
		SerializedFun: epermNotOwner,
	})
}

func changeOwner(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)

	entry := ctx.GetNewEntry()
	require.NoError(ctx, unix.Chown(path, entry.User.UID, entry.Group.GID))

	st := tests.MustLstat(ctx, path)
	assert.Equal(ctx, uint32(entry.User.UID), st.Uid)
	assert.Equal(ctx, uint32(entry.Group.GID), st.Gid)
}

func changeOwnerSymlink(ctx *harness.TestContext) {
	target, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)
	link, err := ctx.NewFile(harness.Symlink).Target(target).Create()
	require.NoError(ctx, err)

	entry := ctx.GetNewEntry()
	require.NoError(ctx, unix.Lchown(link, entry.User.UID, entry.Group.GID))

	st := tests.MustLstat(ctx, link)
	assert.Equal(ctx, uint32(entry.User.UID), st.Uid)
	assert.Equal(ctx, uint32(entry.Group.GID), st.Gid)

	// The target keeps its ownership.
	st = tests.MustLstat(ctx, target)
	assert.NotEqual(ctx, uint32(entry.User.UID), st.Uid)
}

func updateCtime(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)

	user := ctx.GetNewUser()
	tests.AssertCtimeChanged(ctx, path, func() {
		require.NoError(ctx, unix.Chown(path, user.UID, user.GID))
	})
}

func epermNotOwner(ctx *harness.SerializedTestContext) {
	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)

	user := ctx.GetNewUser()
	other := ctx.GetNewUser()
	ctx.AsUser(user, nil, func() {
		require.ErrorIs(ctx, unix.Chown(path, other.UID, other.GID), unix.EPERM)
	})

	st := tests.MustLstat(ctx.TestContext, path)
	assert.Equal(ctx, uint32(0), st.Uid)
}
