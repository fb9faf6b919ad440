// Package mkdir verifies mkdir(2) semantics: mode computation against
// the creation mask, parent timestamp updates and EEXIST.
package mkdir

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
		Group:         "mkdir",
		Name:          "perm_umask",
		Description:   "the mode of a new directory is (mode & ~umask)",
		SerializedFun: permUmask,
	})
	harness.Register(harness.TestCase{
		Group:       "mkdir",
		Name:        "eexist",
		Description: "mkdir returns EEXIST whatever occupies the path",
		FileTypes:   harness.AllFileTypes,
		FunWithType: eexist,
	})
	harness.Register(harness.TestCase{
		Group:       "mkdir",
		Name:        "parent_times",
		Description: "a successful mkdir updates the parent's mtime and ctime",
		Fun:         parentTimes,
	})
	harness.Register(harness.TestCase{
		Group:            "mkdir",
		Name:             "birthtime",
		Description:      "a new directory gets a birthtime no later than its ctime",
		RequiredFeatures: []features.Feature{features.StatStBirthtime},
		Fun:              birthtime,
	})
}

func permUmask(ctx *harness.SerializedTestContext) {
	for _, tt := range []struct {
		umask uint32
		mode  uint32
		want  uint32
	}{
		{0o022, 0o777, 0o755},
		{0o022, 0o151, 0o151},
		{0o077, 0o777, 0o700},
		{0o000, 0o755, 0o755},
	} {
		ctx.WithUmask(tt.umask, func() {
			path, err := ctx.NewFile(harness.Dir).Mode(tt.mode).Create()
			require.NoError(ctx, err)
			st := tests.MustLstat(ctx.TestContext, path)
			assert.Equal(ctx, tt.want, uint32(st.Mode)&harness.ALLPERMS,
				"mkdir mode %04o with umask %04o", tt.mode, tt.umask)
		})
	}
}

func eexist(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)

	assert.ErrorIs(ctx, unix.Mkdir(path, 0o755), unix.EEXIST)
}

func parentTimes(ctx *harness.TestContext) {
	parent, err := ctx.Create(harness.Dir)
	require.NoError(ctx, err)

	before := tests.MustLstat(ctx, parent)
	ctx.Nap()
	_, err = harness.NewFileBuilder(harness.Dir, parent).Create()
	require.NoError(ctx, err)
	after := tests.MustLstat(ctx, parent)

	assert.True(ctx, tests.Mtime(&after).After(tests.Mtime(&before)), "parent mtime was not updated")
	assert.True(ctx, tests.Ctime(&after).After(tests.Ctime(&before)), "parent ctime was not updated")
}

func birthtime(ctx *harness.TestContext) {
	path, err := ctx.Create(harness.Dir)
	require.NoError(ctx, err)

	st := tests.MustLstat(ctx, path)
	birth := tests.Birthtime(&st)
	assert.False(ctx, birth.IsZero(), "birthtime not set")
	assert.False(ctx, birth.After(tests.Ctime(&st)), "birthtime %v is after ctime %v", birth, tests.Ctime(&st))
}
