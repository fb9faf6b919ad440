// Package chmod verifies chmod(2) semantics: permission bit updates,
// ctime maintenance and error conditions.
package chmod

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
		Group:       "chmod",
		Name:        "permission",
		Description: "chmod changes permission bits",
		FileTypes:   harness.AllFileTypes,
		ExcludedTypes: []harness.FileType{
			harness.Symlink,
		},
		FunWithType: permission,
	})
	harness.Register(harness.TestCase{
		Group:       "chmod",
		Name:        "update_ctime",
		Description: "chmod updates ctime on success",
		FileTypes:   harness.AllFileTypes,
		ExcludedTypes: []harness.FileType{
			harness.Symlink,
		},
		FunWithType: updateCtime,
	})
	harness.Register(harness.TestCase{
		Group:       "chmod",
		Name:        "failed_chmod_unchanged_ctime",
		Description: "an unsuccessful chmod does not update ctime",
		RequireRoot: true,
		FileTypes:   harness.AllFileTypes,
		ExcludedTypes: []harness.FileType{
			harness.Symlink,
		},
		SerializedFunWithType: failedChmodUnchangedCtime,
	})
	harness.Register(harness.TestCase{
		Group:       "chmod",
		Name:        "eperm_not_owner",
		Description: "chmod returns EPERM for a user which does not own the file",
		RequireRoot: true,
		SerializedFun: epermNotOwner,
	})
	harness.Register(harness.TestCase{
		Group: "chmod",
		Name:  "enoent",
		Fun:   enoent,
	})
	harness.Register(harness.TestCase{
		Group: "chmod",
		Name:  "enametoolong",
		Fun:   enametoolong,
	})
	harness.Register(harness.TestCase{
		Group: "chmod",
		Name:  "enametoolong_path",
		Fun:   enametoolongPath,
	})
}

func permission(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.NewFile(ft).Mode(0o644).Create()
	require.NoError(ctx, err)

	for _, mode := range []uint32{0o000, 0o151, 0o600, 0o755, 0o777} {
		require.NoError(ctx, harness.Chmod(path, mode))
		st := tests.MustLstat(ctx, path)
		assert.Equal(ctx, mode, uint32(st.Mode)&harness.ALLPERMS)
	}
}

func updateCtime(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)

	tests.AssertCtimeChanged(ctx, path, func() {
		require.NoError(ctx, harness.Chmod(path, 0o111))
	})
}

func failedChmodUnchangedCtime(ctx *harness.SerializedTestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)

	user := ctx.GetNewUser()
	tests.AssertCtimeUnchanged(ctx.TestContext, path, func() {
		ctx.AsUser(user, nil, func() {
			require.ErrorIs(ctx, harness.Chmod(path, 0o400), unix.EPERM)
		})
	})
}

func epermNotOwner(ctx *harness.SerializedTestContext) {
	owner := ctx.GetNewUser()
	other := ctx.GetNewUser()

	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)
	require.NoError(ctx, unix.Chown(path, owner.UID, owner.GID))

	ctx.AsUser(other, nil, func() {
		require.ErrorIs(ctx, harness.Chmod(path, 0o400), unix.EPERM)
	})

	st := tests.MustLstat(ctx.TestContext, path)
	assert.Equal(ctx, uint32(0o644), uint32(st.Mode)&harness.ALLPERMS)
}

func enoent(ctx *harness.TestContext) {
	dir, err := ctx.Create(harness.Dir)
	require.NoError(ctx, err)

	assert.ErrorIs(ctx, harness.Chmod(filepath.Join(dir, "missing"), 0o644), unix.ENOENT)
	assert.ErrorIs(ctx, harness.Chmod(filepath.Join(dir, "missing", "file"), 0o644), unix.ENOENT)
}

func enametoolong(ctx *harness.TestContext) {
	path, err := ctx.CreateNameMax(harness.Regular)
	require.NoError(ctx, err)

	assert.ErrorIs(ctx, harness.Chmod(path+"x", 0o644), unix.ENAMETOOLONG)
}

func enametoolongPath(ctx *harness.TestContext) {
	path, err := ctx.CreatePathMax(harness.Regular)
	require.NoError(ctx, err)

	assert.ErrorIs(ctx, harness.Chmod(path+"x", 0o644), unix.ENAMETOOLONG)
}
