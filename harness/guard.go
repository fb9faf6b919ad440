package harness

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/musikid/pjdfstest/config"
	"github.com/musikid/pjdfstest/features"
)

// Guard is a predicate evaluated before running an instance. A non-nil
// error vetoes execution; the error text is the skip reason shown to
// the user.
type Guard func(cfg *config.Config, caps *features.Capabilities, basePath string) error

// guardEvaluator decides applicability of a test case. Checks run in a
// fixed order and stop at the first veto.
type guardEvaluator struct {
	cfg    *config.Config
	caps   *features.Capabilities
	isRoot bool
}

// evaluate returns the reason the instance should be skipped, or an
// empty string to proceed.
func (g *guardEvaluator) evaluate(tc *TestCase, requireRoot bool, basePath string) string {
	if requireRoot && !g.isRoot {
		return "requires root privileges"
	}

	var missing []string
	for _, f := range tc.RequiredFeatures {
		if !g.cfg.Features.IsEnabled(f) || !g.caps.Has(f) {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return "requires features: " + strings.Join(missing, ", ")
	}

	for _, guard := range tc.Guards {
		if err := guard(g.cfg, g.caps, basePath); err != nil {
			return err.Error()
		}
	}
	return ""
}

// SupportsFileFlags is a guard vetoing execution unless every given
// flag is both declared available in the configuration and settable on
// the host.
func SupportsFileFlags(flags ...features.FileFlag) Guard {
	return func(cfg *config.Config, caps *features.Capabilities, _ string) error {
		var unsupported []string
		for _, flag := range flags {
			if !cfg.Features.HasFlag(flag) || !caps.HasFlag(flag) {
				unsupported = append(unsupported, flag.String())
			}
		}
		if len(unsupported) > 0 {
			sort.Strings(unsupported)
			return errors.Errorf("file flags %s aren't supported", strings.Join(unsupported, ", "))
		}
		return nil
	}
}

// SupportsAnyFlag is a guard vetoing execution unless at least one of
// the given flags is declared available in the configuration and
// settable on the host.
func SupportsAnyFlag(flags ...features.FileFlag) Guard {
	return func(cfg *config.Config, caps *features.Capabilities, _ string) error {
		for _, flag := range flags {
			if cfg.Features.HasFlag(flag) && caps.HasFlag(flag) {
				return nil
			}
		}
		return errors.New("none of the flags used for this test are available in the configuration")
	}
}

// HasSecondaryFs is a guard requiring a secondary filesystem for
// cross-filesystem tests.
func HasSecondaryFs(cfg *config.Config, _ *features.Capabilities, _ string) error {
	if cfg.Features.SecondaryFs == "" {
		return errors.New("requires a secondary file system")
	}
	return nil
}
