package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musikid/pjdfstest/features"
)

const sampleConfig = `
[features]
posix_fallocate = {}
rename_ctime = {}
file_flags = ["UF_IMMUTABLE", "SF_IMMUTABLE"]
secondary_fs = "/mnt/other"

[settings]
naptime = 0.001
allow_remount = true

[dummy_auth]
entries = [
  ["alice", "users"],
  ["bob", "users"],
  ["carol", "users"],
]
`

func loadDoc(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pjdfstest.toml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	cfg := Default()
	return cfg, cfg.loadFile(path)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Features.Enabled)
	assert.Empty(t, cfg.Features.FileFlags)
	assert.Empty(t, cfg.Features.SecondaryFs)
	assert.Equal(t, 1.0, cfg.Settings.Naptime)
	assert.False(t, cfg.Settings.AllowRemount)
	assert.Equal(t, "nobody", cfg.DummyAuth.Entries[0].UserName)
	assert.Equal(t, "pjdfstest", cfg.DummyAuth.Entries[1].UserName)
	assert.Equal(t, "tests", cfg.DummyAuth.Entries[2].UserName)
}

func TestLoadFeatures(t *testing.T) {
	cfg, err := loadDoc(t, sampleConfig)
	require.NoError(t, err)

	assert.True(t, cfg.Features.IsEnabled(features.PosixFallocate))
	assert.True(t, cfg.Features.IsEnabled(features.RenameCtime))
	assert.False(t, cfg.Features.IsEnabled(features.Utimensat))

	assert.True(t, cfg.Features.HasFlag(features.UF_IMMUTABLE))
	assert.True(t, cfg.Features.HasFlag(features.SF_IMMUTABLE))
	assert.False(t, cfg.Features.HasFlag(features.UF_NODUMP))

	assert.Equal(t, "/mnt/other", cfg.Features.SecondaryFs)
}

func TestLoadSettings(t *testing.T) {
	cfg, err := loadDoc(t, sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, 0.001, cfg.Settings.Naptime)
	assert.True(t, cfg.Settings.AllowRemount)
}

func TestLoadPartialSettingsKeepsDefaults(t *testing.T) {
	cfg, err := loadDoc(t, "[settings]\nallow_remount = true\n")
	require.NoError(t, err)

	assert.True(t, cfg.Settings.AllowRemount)
	assert.Equal(t, 1.0, cfg.Settings.Naptime, "naptime default lost when [settings] is partial")
}

func TestLoadUnknownFeature(t *testing.T) {
	_, err := loadDoc(t, "[features]\nwarp_drive = {}\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown feature "warp_drive"`)
}

func TestLoadUnknownFileFlag(t *testing.T) {
	_, err := loadDoc(t, "[features]\nfile_flags = [\"UF_BOGUS\"]\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UF_BOGUS")
}

func TestLoadDummyAuthNames(t *testing.T) {
	cfg, err := loadDoc(t, sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.DummyAuth.Entries[0].UserName)
	assert.Equal(t, "users", cfg.DummyAuth.Entries[0].GroupName)
	assert.Equal(t, "carol", cfg.DummyAuth.Entries[2].UserName)
}

func TestDummyAuthWrongCount(t *testing.T) {
	_, err := loadDoc(t, "[dummy_auth]\nentries = [[\"alice\", \"users\"]]\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 3 user/group pairs")
}

func TestDummyAuthNotAPair(t *testing.T) {
	cfg := Default()
	err := cfg.DummyAuth.setNames([][]string{
		{"alice", "users"}, {"bob"}, {"carol", "users"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[user, group] pair")
}
