// Package chflags verifies chflags(2) semantics: setting and clearing
// BSD file flags and the restrictions the immutable flags impose.
package chflags

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/features"
	"github.com/musikid/pjdfstest/harness"
	"github.com/musikid/pjdfstest/tests"
)

func init() {
	harness.Register(harness.TestCase{
		Group:            "chflags",
		Name:             "set_clear",
		Description:      "chflags sets and clears user flags",
		RequiredFeatures: []features.Feature{features.Chflags},
		Guards: []harness.Guard{
			harness.SupportsAnyFlag(features.UF_NODUMP),
		},
		FileTypes: harness.AllFileTypes,
		ExcludedTypes: []harness.FileType{
			harness.Symlink,
		},
		FunWithType: setClear,
	})
	harness.Register(harness.TestCase{
		Group:            "chflags",
		Name:             "update_ctime",
		Description:      "a successful chflags updates the ctime",
		RequiredFeatures: []features.Feature{features.Chflags},
		Guards: []harness.Guard{
			harness.SupportsAnyFlag(features.UF_NODUMP),
		},
		Fun: updateCtime,
	})
	harness.Register(harness.TestCase{
		Group:            "chflags",
		Name:             "immutable_eperm",
		Description:      "writing to a file with an immutable flag set returns EPERM",
		RequireRoot:      true,
		RequiredFeatures: []features.Feature{features.Chflags},
		Guards: []harness.Guard{
			harness.SupportsFileFlags(features.SF_IMMUTABLE),
		},
		Fun: immutableEperm,
	})
	harness.Register(harness.TestCase{
		Group:            "chflags",
		Name:             "eperm_not_owner",
		Description:      "chflags returns EPERM for a user who does not own the file",
		RequireRoot:      true,
		RequiredFeatures: []features.Feature{features.Chflags},
		Guards: []harness.Guard{
			harness.SupportsAnyFlag(features.UF_NODUMP),
		},
		SerializedFun: epermNotOwner,
	})
	harness.Register(harness.TestCase{
		Group:            "chflags",
		Name:             "sf_snapshot_eperm",
		Description:      "SF_SNAPSHOT can only be set by the kernel, even root gets EPERM",
		RequireRoot:      true,
		RequiredFeatures: []features.Feature{features.ChflagsSfSnapshot},
		Fun:              sfSnapshotEperm,
	})
	harness.Register(harness.TestCase{
		Group:            "chflags",
		Name:             "enoent",
		Description:      "chflags on a missing entry returns ENOENT",
		RequiredFeatures: []features.Feature{features.Chflags},
		Fun:              enoent,
	})
}

func nodumpBit(ctx *harness.TestContext) uint32 {
	bit, ok := features.FlagBit(features.UF_NODUMP)
	require.True(ctx, ok, "UF_NODUMP not defined on this platform")
	return bit
}

func setClear(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)
	bit := nodumpBit(ctx)

	require.NoError(ctx, features.SetFlags(path, bit))
	st := tests.MustLstat(ctx, path)
	assert.Equal(ctx, bit, tests.Flags(&st)&bit)

	require.NoError(ctx, features.SetFlags(path, 0))
	st = tests.MustLstat(ctx, path)
	assert.Zero(ctx, tests.Flags(&st)&bit)
}

func updateCtime(ctx *harness.TestContext) {
	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)
	bit := nodumpBit(ctx)

	tests.AssertCtimeChanged(ctx, path, func() {
		require.NoError(ctx, features.SetFlags(path, bit))
	})
}

func immutableEperm(ctx *harness.TestContext) {
	bit, ok := features.FlagBit(features.SF_IMMUTABLE)
	require.True(ctx, ok, "SF_IMMUTABLE not defined on this platform")

	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)
	require.NoError(ctx, features.SetFlags(path, bit))
	defer func() {
		// Clear the flag ourselves so teardown does not depend on it.
		assert.NoError(ctx, features.SetFlags(path, 0))
	}()

	_, err = unix.Open(path, unix.O_WRONLY, 0)
	assert.ErrorIs(ctx, err, unix.EPERM)
	assert.ErrorIs(ctx, unix.Unlink(path), unix.EPERM)
}

func epermNotOwner(ctx *harness.SerializedTestContext) {
	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)
	bit := nodumpBit(ctx.TestContext)

	user := ctx.GetNewUser()
	ctx.AsUser(user, nil, func() {
		assert.ErrorIs(ctx, features.SetFlags(path, bit), unix.EPERM)
	})

	st := tests.MustLstat(ctx.TestContext, path)
	assert.Zero(ctx, tests.Flags(&st)&bit)
}

func sfSnapshotEperm(ctx *harness.TestContext) {
	bit, ok := features.FlagBit(features.SF_SNAPSHOT)
	require.True(ctx, ok, "SF_SNAPSHOT not defined on this platform")

	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)

	assert.ErrorIs(ctx, features.SetFlags(path, bit), unix.EPERM)
	st := tests.MustLstat(ctx, path)
	assert.Zero(ctx, tests.Flags(&st)&bit)
}

func enoent(ctx *harness.TestContext) {
	err := features.SetFlags(ctx.GenPath(), 0)
	assert.ErrorIs(ctx, err, unix.ENOENT)
}
