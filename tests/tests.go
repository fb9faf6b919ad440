// Package tests holds helpers shared by the test groups.
package tests

import (
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/harness"
)

// Lstat is a convenience wrapper returning the full Stat_t of path
// without following symlinks.
func Lstat(path string) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Lstat(path, &st)
	return st, err
}

// Stat is a convenience wrapper returning the full Stat_t of path.
func Stat(path string) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Stat(path, &st)
	return st, err
}

// MustLstat fails the test when path cannot be lstat'd.
func MustLstat(ctx *harness.TestContext, path string) unix.Stat_t {
	st, err := Lstat(path)
	require.NoError(ctx, err)
	return st
}

// Ctime returns the change time of st.
func Ctime(st *unix.Stat_t) time.Time {
	_, _, ctime := times(st)
	return ctime
}

// Mtime returns the modification time of st.
func Mtime(st *unix.Stat_t) time.Time {
	_, mtime, _ := times(st)
	return mtime
}

// Atime returns the access time of st.
func Atime(st *unix.Stat_t) time.Time {
	atime, _, _ := times(st)
	return atime
}

// AssertCtimeChanged asserts that fn advances the change time of path.
// It naps first so a coarse timestamp clock still shows the change.
func AssertCtimeChanged(ctx *harness.TestContext, path string, fn func()) {
	before := MustLstat(ctx, path)
	ctx.Nap()
	fn()
	after := MustLstat(ctx, path)
	require.True(ctx, Ctime(&after).After(Ctime(&before)),
		"ctime was not updated: %v is not after %v", Ctime(&after), Ctime(&before))
}

// AssertCtimeUnchanged asserts that fn leaves the change time of path
// alone.
func AssertCtimeUnchanged(ctx *harness.TestContext, path string, fn func()) {
	before := MustLstat(ctx, path)
	ctx.Nap()
	fn()
	after := MustLstat(ctx, path)
	require.Equal(ctx, Ctime(&before), Ctime(&after), "ctime was updated")
}
