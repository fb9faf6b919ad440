// Package posixfallocate verifies posix_fallocate(2) space reservation.
package posixfallocate

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
		Group:            "posix_fallocate",
		Name:             "grows_file",
		Description:      "posix_fallocate extends the file to offset+len",
		RequiredFeatures: []features.Feature{features.PosixFallocate},
		Fun:              growsFile,
	})
	harness.Register(harness.TestCase{
		Group:            "posix_fallocate",
		Name:             "keeps_size",
		Description:      "posix_fallocate never shrinks the file",
		RequiredFeatures: []features.Feature{features.PosixFallocate},
		Fun:              keepsSize,
	})
}

func growsFile(ctx *harness.TestContext) {
	path, f, err := ctx.CreateFile(unix.O_RDWR, 0, false)
	require.NoError(ctx, err)
	defer func() { _ = f.Close() }()

	require.NoError(ctx, features.Fallocate(int(f.Fd()), 0, 4096))
	st := tests.MustLstat(ctx, path)
	assert.Equal(ctx, int64(4096), st.Size)

	require.NoError(ctx, features.Fallocate(int(f.Fd()), 4096, 4096))
	st = tests.MustLstat(ctx, path)
	assert.Equal(ctx, int64(8192), st.Size)
}

func keepsSize(ctx *harness.TestContext) {
	path, f, err := ctx.CreateFile(unix.O_RDWR, 0, false)
	require.NoError(ctx, err)
	defer func() { _ = f.Close() }()

	_, err = f.WriteString("0123456789")
	require.NoError(ctx, err)

	require.NoError(ctx, features.Fallocate(int(f.Fd()), 0, 4))
	st := tests.MustLstat(ctx, path)
	assert.Equal(ctx, int64(10), st.Size)
}
