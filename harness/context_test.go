package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/config"
)

func newTestCtx(t *testing.T) *TestContext {
	t.Helper()
	cfg := config.Default()
	cfg.Settings.Naptime = 0.01
	return NewTestContext(cfg, NewIdentityPool(testEntries()), t.TempDir())
}

func TestContextGenPath(t *testing.T) {
	ctx := newTestCtx(t)
	path := ctx.GenPath()
	assert.Equal(t, ctx.BasePath(), filepath.Dir(path))
	assert.Len(t, filepath.Base(path), numRandChars)
	assert.NotEqual(t, path, ctx.GenPath())
}

func TestContextCreate(t *testing.T) {
	ctx := newTestCtx(t)
	for _, ft := range []FileType{Regular, Dir, Fifo} {
		path, err := ctx.Create(ft)
		require.NoError(t, err, "create %v", ft)

		var st unix.Stat_t
		require.NoError(t, unix.Lstat(path, &st))
		var want uint32
		switch ft {
		case Regular:
			want = unix.S_IFREG
		case Dir:
			want = unix.S_IFDIR
		case Fifo:
			want = unix.S_IFIFO
		}
		assert.Equal(t, want, uint32(st.Mode)&unix.S_IFMT)
	}
}

func TestContextCreateNameMax(t *testing.T) {
	ctx := newTestCtx(t)
	path, err := ctx.CreateNameMax(Regular)
	require.NoError(t, err)

	max, err := nameMax(ctx.BasePath())
	require.NoError(t, err)
	assert.Len(t, filepath.Base(path), max)

	_, err = os.Lstat(path)
	assert.NoError(t, err)
	_, err = os.Lstat(path + "x")
	assert.ErrorIs(t, err, unix.ENAMETOOLONG)
}

func TestContextFailureAccumulates(t *testing.T) {
	ctx := newTestCtx(t)
	require.False(t, ctx.failed())

	ctx.Errorf("first: %d", 1)
	ctx.Errorf("second")
	require.True(t, ctx.failed())
	assert.Equal(t, "first: 1; second", ctx.failureDetail())
}

func TestContextFailNowPanics(t *testing.T) {
	ctx := newTestCtx(t)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		tf, ok := r.(testFailure)
		require.True(t, ok, "expected testFailure, got %T", r)
		assert.Equal(t, "broken", tf.detail)
	}()
	ctx.Fatalf("broken")
}

func TestContextNap(t *testing.T) {
	ctx := newTestCtx(t)
	start := time.Now()
	ctx.Nap()
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestWithUmaskRestores(t *testing.T) {
	ctx := NewSerializedTestContext(config.Default(), NewIdentityPool(nil), t.TempDir())

	orig := unix.Umask(0o022)
	unix.Umask(orig)

	ctx.WithUmask(0o077, func() {
		assert.Equal(t, 0o077, unix.Umask(0o077))
	})
	assert.Equal(t, orig, unix.Umask(orig))
}

func TestWithUmaskRestoresOnPanic(t *testing.T) {
	ctx := NewSerializedTestContext(config.Default(), NewIdentityPool(nil), t.TempDir())

	orig := unix.Umask(0o022)
	unix.Umask(orig)

	assert.Panics(t, func() {
		ctx.WithUmask(0o077, func() {
			panic("boom")
		})
	})
	assert.Equal(t, orig, unix.Umask(orig))
}

func TestAsUserRestoresIdentity(t *testing.T) {
	if unix.Geteuid() != 0 {
		t.Skip("requires root")
	}
	ctx := NewSerializedTestContext(config.Default(), NewIdentityPool(nil), t.TempDir())

	origEuid := unix.Geteuid()
	origEgid := unix.Getegid()

	u := &config.UnixUser{Name: "nobody", UID: 65534, GID: 65534}
	ctx.AsUser(u, nil, func() {
		assert.Equal(t, u.UID, unix.Geteuid())
		assert.Equal(t, u.GID, unix.Getegid())
	})

	assert.Equal(t, origEuid, unix.Geteuid())
	assert.Equal(t, origEgid, unix.Getegid())
}
