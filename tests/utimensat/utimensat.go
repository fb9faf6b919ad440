//go:build linux || freebsd

package utimensat

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/features"
	"github.com/musikid/pjdfstest/harness"
	"github.com/musikid/pjdfstest/tests"
)

func init() {
	harness.Register(harness.TestCase{
		Group:            "utimensat",
		Name:             "utime_now",
		Description:      "UTIME_NOW sets the timestamps to the current time",
		RequiredFeatures: []features.Feature{features.Utimensat, features.UtimeNow},
		Fun:              utimeNow,
	})
	harness.Register(harness.TestCase{
		Group:            "utimensat",
		Name:             "utime_omit",
		Description:      "UTIME_OMIT leaves the corresponding timestamp alone",
		RequiredFeatures: []features.Feature{features.Utimensat},
		Fun:              utimeOmit,
	})
	harness.Register(harness.TestCase{
		Group:            "utimensat",
		Name:             "explicit_times",
		Description:      "utimensat sets explicit timestamps",
		RequiredFeatures: []features.Feature{features.Utimensat},
		FileTypes: []harness.FileType{
			harness.Regular, harness.Dir, harness.Fifo,
		},
		FunWithType: explicitTimes,
	})
}

func utimeNow(ctx *harness.TestContext) {
	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)

	before := tests.MustLstat(ctx, path)
	ctx.Nap()
	ts := []unix.Timespec{
		{Nsec: unix.UTIME_NOW},
		{Nsec: unix.UTIME_NOW},
	}
	require.NoError(ctx, unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0))

	after := tests.MustLstat(ctx, path)
	assert.True(ctx, tests.Atime(&after).After(tests.Atime(&before)), "atime was not advanced")
	assert.True(ctx, tests.Mtime(&after).After(tests.Mtime(&before)), "mtime was not advanced")
}

func utimeOmit(ctx *harness.TestContext) {
	path, err := ctx.Create(harness.Regular)
	require.NoError(ctx, err)

	before := tests.MustLstat(ctx, path)
	ctx.Nap()
	ts := []unix.Timespec{
		unix.NsecToTimespec(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano()),
		{Nsec: unix.UTIME_OMIT},
	}
	require.NoError(ctx, unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0))

	after := tests.MustLstat(ctx, path)
	assert.Equal(ctx, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), tests.Atime(&after).UTC())
	assert.Equal(ctx, tests.Mtime(&before), tests.Mtime(&after), "mtime changed despite UTIME_OMIT")
}

func explicitTimes(ctx *harness.TestContext, ft harness.FileType) {
	path, err := ctx.Create(ft)
	require.NoError(ctx, err)

	atime := time.Date(1990, 6, 15, 12, 30, 0, 0, time.UTC)
	mtime := time.Date(1995, 12, 25, 6, 0, 0, 0, time.UTC)
	ts := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}
	require.NoError(ctx, unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0))

	st := tests.MustLstat(ctx, path)
	assert.Equal(ctx, atime, tests.Atime(&st).UTC())
	assert.Equal(ctx, mtime, tests.Mtime(&st).UTC())
}
