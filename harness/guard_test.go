package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musikid/pjdfstest/config"
	"github.com/musikid/pjdfstest/features"
)

func TestEvaluateRequiresRoot(t *testing.T) {
	eval := &guardEvaluator{
		cfg:    config.Default(),
		caps:   &features.Capabilities{},
		isRoot: false,
	}
	tc := &TestCase{Group: "chmod", Name: "x", Fun: func(*TestContext) {}}

	assert.Equal(t, "requires root privileges", eval.evaluate(tc, true, "/tmp"))
	assert.Empty(t, eval.evaluate(tc, false, "/tmp"))
}

func TestEvaluateMissingFeature(t *testing.T) {
	cfg := config.Default()
	eval := &guardEvaluator{cfg: cfg, caps: &features.Capabilities{}, isRoot: true}
	tc := &TestCase{
		Group:            "utimensat",
		Name:             "x",
		RequiredFeatures: []features.Feature{features.Utimensat},
		Fun:              func(*TestContext) {},
	}

	// Disabled in the configuration.
	assert.Equal(t, "requires features: utimensat", eval.evaluate(tc, false, "/tmp"))

	// Enabled but the filesystem does not support it.
	cfg.Features.Enabled[features.Utimensat] = struct{}{}
	assert.Equal(t, "requires features: utimensat", eval.evaluate(tc, false, "/tmp"))

	eval.caps = &features.Capabilities{Utimensat: true}
	assert.Empty(t, eval.evaluate(tc, false, "/tmp"))
}

func TestEvaluateGuardVeto(t *testing.T) {
	cfg := config.Default()
	caps := &features.Capabilities{Flags: map[features.FileFlag]bool{
		features.UF_IMMUTABLE: true,
		features.SF_IMMUTABLE: true,
	}}
	eval := &guardEvaluator{cfg: cfg, caps: caps, isRoot: true}
	tc := &TestCase{
		Group:  "chflags",
		Name:   "x",
		Guards: []Guard{SupportsFileFlags(features.UF_IMMUTABLE, features.SF_IMMUTABLE)},
		Fun:    func(*TestContext) {},
	}

	reason := eval.evaluate(tc, false, "/tmp")
	assert.Equal(t, "file flags SF_IMMUTABLE, UF_IMMUTABLE aren't supported", reason)

	cfg.Features.FileFlags[features.UF_IMMUTABLE] = struct{}{}
	reason = eval.evaluate(tc, false, "/tmp")
	assert.Equal(t, "file flags SF_IMMUTABLE aren't supported", reason)

	cfg.Features.FileFlags[features.SF_IMMUTABLE] = struct{}{}
	assert.Empty(t, eval.evaluate(tc, false, "/tmp"))
}

func TestFlagGuardsNeedHostSupport(t *testing.T) {
	// Declared in the configuration but not settable on the host.
	cfg := config.Default()
	cfg.Features.FileFlags[features.UF_NODUMP] = struct{}{}
	caps := &features.Capabilities{}

	err := SupportsFileFlags(features.UF_NODUMP)(cfg, caps, "/tmp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UF_NODUMP")

	require.Error(t, SupportsAnyFlag(features.UF_NODUMP)(cfg, caps, "/tmp"))

	caps.Flags = map[features.FileFlag]bool{features.UF_NODUMP: true}
	assert.NoError(t, SupportsFileFlags(features.UF_NODUMP)(cfg, caps, "/tmp"))
	assert.NoError(t, SupportsAnyFlag(features.UF_NODUMP)(cfg, caps, "/tmp"))
}

func TestSupportsAnyFlag(t *testing.T) {
	cfg := config.Default()
	caps := &features.Capabilities{Flags: map[features.FileFlag]bool{
		features.UF_NODUMP:    true,
		features.UF_IMMUTABLE: true,
	}}
	guard := SupportsAnyFlag(features.UF_NODUMP, features.UF_IMMUTABLE)

	require.Error(t, guard(cfg, caps, "/tmp"))

	cfg.Features.FileFlags[features.UF_IMMUTABLE] = struct{}{}
	assert.NoError(t, guard(cfg, caps, "/tmp"))
}

func TestHasSecondaryFs(t *testing.T) {
	cfg := config.Default()
	caps := &features.Capabilities{}
	require.Error(t, HasSecondaryFs(cfg, caps, "/tmp"))

	cfg.Features.SecondaryFs = "/mnt/other"
	assert.NoError(t, HasSecondaryFs(cfg, caps, "/tmp"))
}
