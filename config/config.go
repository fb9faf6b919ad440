// Package config holds the test suite configuration.
//
// The configuration is loaded from a TOML file passed on the command
// line and merged over the defaults. It decides which optional features
// are enabled for the filesystem under test, tunable settings, and the
// identity pool used by tests which need a secondary principal.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/musikid/pjdfstest/features"
)

// FeaturesConfig describes the optional capabilities of the filesystem
// under test.
type FeaturesConfig struct {
	// Enabled features which do not require additional configuration.
	Enabled map[features.Feature]struct{}
	// File flags available in the filesystem.
	FileFlags map[features.FileFlag]struct{}
	// Secondary filesystem to use for cross-filesystem tests.
	SecondaryFs string
}

// IsEnabled reports whether the feature is enabled in the configuration.
func (c *FeaturesConfig) IsEnabled(f features.Feature) bool {
	_, ok := c.Enabled[f]
	return ok
}

// HasFlag reports whether the file flag is declared available.
func (c *FeaturesConfig) HasFlag(f features.FileFlag) bool {
	_, ok := c.FileFlags[f]
	return ok
}

// SettingsConfig holds adjustable filesystem specific settings.
type SettingsConfig struct {
	// Naptime is the time to sleep between modifications to the
	// filesystem, in seconds. It should be greater than the timestamp
	// granularity of the filesystem under test.
	Naptime float64 `toml:"naptime"`
	// AllowRemount allows remounting the filesystem with different
	// settings during tests.
	AllowRemount bool `toml:"allow_remount"`
}

// Config is the fully resolved test suite configuration.
type Config struct {
	Features  FeaturesConfig
	Settings  SettingsConfig
	DummyAuth DummyAuthConfig
}

// Default returns the built in configuration: no optional features, a
// one second naptime and the standard identity pool names.
func Default() *Config {
	return &Config{
		Features: FeaturesConfig{
			Enabled:   make(map[features.Feature]struct{}),
			FileFlags: make(map[features.FileFlag]struct{}),
		},
		Settings: SettingsConfig{
			Naptime: 1.0,
		},
		DummyAuth: defaultDummyAuth(),
	}
}

// rawConfig mirrors the TOML document. The [features] table is decoded
// loosely since almost all of its keys are feature names.
type rawConfig struct {
	Features  map[string]toml.Primitive `toml:"features"`
	Settings  *SettingsConfig           `toml:"settings"`
	DummyAuth rawDummyAuth              `toml:"dummy_auth"`
}

type rawDummyAuth struct {
	Entries [][]string `toml:"entries"`
}

// Load reads the configuration file at path and merges it over the
// defaults. An empty path returns the defaults. The identity pool is
// resolved against the host user and group databases; a missing account
// is an error since the suite cannot run without its fixtures.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.DummyAuth.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges the TOML document at path into cfg. The settings
// table decodes into the defaults in place, so a partial table keeps
// the default for every key it does not mention.
func (cfg *Config) loadFile(path string) error {
	raw := rawConfig{Settings: &cfg.Settings}
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return errors.Wrapf(err, "failed to load configuration file %q", path)
	}

	if err := cfg.Features.decode(&meta, raw.Features); err != nil {
		return err
	}
	if len(raw.DummyAuth.Entries) > 0 {
		if err := cfg.DummyAuth.setNames(raw.DummyAuth.Entries); err != nil {
			return err
		}
	}
	return nil
}

func (c *FeaturesConfig) decode(meta *toml.MetaData, raw map[string]toml.Primitive) error {
	for key, prim := range raw {
		switch key {
		case "file_flags":
			var names []string
			if err := meta.PrimitiveDecode(prim, &names); err != nil {
				return errors.Wrap(err, "invalid file_flags")
			}
			for _, name := range names {
				flag, err := features.ParseFileFlag(name)
				if err != nil {
					return err
				}
				c.FileFlags[flag] = struct{}{}
			}
		case "secondary_fs":
			if err := meta.PrimitiveDecode(prim, &c.SecondaryFs); err != nil {
				return errors.Wrap(err, "invalid secondary_fs")
			}
		default:
			feature, err := features.Parse(key)
			if err != nil {
				return err
			}
			c.Enabled[feature] = struct{}{}
		}
	}
	return nil
}
