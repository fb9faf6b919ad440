package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestBuilderRandomName(t *testing.T) {
	base := t.TempDir()
	path, err := NewFileBuilder(Regular, base).Create()
	require.NoError(t, err)

	assert.Equal(t, base, filepath.Dir(path))
	assert.Len(t, filepath.Base(path), numRandChars)

	var st unix.Stat_t
	require.NoError(t, unix.Lstat(path, &st))
	assert.Equal(t, uint32(unix.S_IFREG), uint32(st.Mode)&unix.S_IFMT)
}

func TestBuilderExplicitNameAndMode(t *testing.T) {
	base := t.TempDir()
	oldMask := unix.Umask(0)
	defer unix.Umask(oldMask)

	path, err := NewFileBuilder(Regular, base).Name("file").Mode(0o600).Create()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "file"), path)

	var st unix.Stat_t
	require.NoError(t, unix.Lstat(path, &st))
	assert.Equal(t, uint32(0o600), uint32(st.Mode)&ALLPERMS)
}

func TestBuilderAbsoluteNameReplacesBase(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()
	target := filepath.Join(other, "elsewhere")

	path, err := NewFileBuilder(Dir, base).Name(target).Create()
	require.NoError(t, err)
	assert.Equal(t, target, path)
}

func TestBuilderDirDefaultMode(t *testing.T) {
	base := t.TempDir()
	oldMask := unix.Umask(0o022)
	defer unix.Umask(oldMask)

	path, err := NewFileBuilder(Dir, base).Create()
	require.NoError(t, err)

	var st unix.Stat_t
	require.NoError(t, unix.Lstat(path, &st))
	assert.Equal(t, uint32(0o755)&^uint32(0o022), uint32(st.Mode)&ALLPERMS)
}

func TestBuilderSymlinkTarget(t *testing.T) {
	base := t.TempDir()
	path, err := NewFileBuilder(Symlink, base).Target("dangling").Create()
	require.NoError(t, err)

	target, err := os.Readlink(path)
	require.NoError(t, err)
	assert.Equal(t, "dangling", target)
}

func TestBuilderSingleUse(t *testing.T) {
	base := t.TempDir()
	b := NewFileBuilder(Regular, base)
	_, err := b.Create()
	require.NoError(t, err)

	assert.PanicsWithValue(t, "file builder used twice", func() {
		_, _ = b.Create()
	})
}

func TestBuilderDeviceNodes(t *testing.T) {
	if unix.Geteuid() != 0 {
		t.Skip("requires root")
	}
	base := t.TempDir()
	path, err := NewFileBuilder(Char, base).Dev(1, 3).Create()
	require.NoError(t, err)

	var st unix.Stat_t
	require.NoError(t, unix.Lstat(path, &st))
	assert.Equal(t, uint32(unix.S_IFCHR), uint32(st.Mode)&unix.S_IFMT)
	assert.Equal(t, uint64(unix.Mkdev(1, 3)), uint64(st.Rdev))
}

func TestBuilderOpenRegular(t *testing.T) {
	base := t.TempDir()
	path, f, err := NewFileBuilder(Regular, base).Open(unix.O_RDWR)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	n, err := f.WriteString("data")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var st unix.Stat_t
	require.NoError(t, unix.Lstat(path, &st))
	assert.Equal(t, int64(4), st.Size)
}
