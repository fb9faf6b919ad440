package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/config"
	"github.com/musikid/pjdfstest/features"
)

func newRunner(t *testing.T, out *bytes.Buffer) *Runner {
	t.Helper()
	cfg := config.Default()
	cfg.Settings.Naptime = 0.001
	return &Runner{
		Config:  cfg,
		Caps:    &features.Capabilities{},
		BaseDir: t.TempDir(),
		Out:     out,
	}
}

func TestRunnerReportsOutcomes(t *testing.T) {
	var out bytes.Buffer
	r := newRunner(t, &out)

	cases := []*TestCase{
		{Group: "demo", Name: "passes", Fun: func(ctx *TestContext) {}},
		{Group: "demo", Name: "fails", Fun: func(ctx *TestContext) {
			ctx.Fatalf("expected ENOENT")
		}},
		{Group: "demo", Name: "root_only", RequireRoot: true, Fun: func(ctx *TestContext) {}},
	}

	summary, err := r.Run(cases)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "demo::passes\tsuccess\n")
	assert.Contains(t, out.String(), "demo::fails\terror: expected ENOENT\n")
	assert.Equal(t, 1, summary.Failed)

	if unix.Geteuid() == 0 {
		assert.Contains(t, out.String(), "demo::root_only\tsuccess\n")
		assert.Equal(t, 2, summary.Passed)
		assert.Equal(t, 0, summary.Skipped)
	} else {
		assert.Contains(t, out.String(), "demo::root_only\tskipped (requires root privileges)\n")
		assert.Equal(t, 1, summary.Passed)
		assert.Equal(t, 1, summary.Skipped)
	}
	assert.Equal(t, 3, summary.Total())
}

func TestRunnerFailureIsolation(t *testing.T) {
	var out bytes.Buffer
	r := newRunner(t, &out)

	var secondRan bool
	cases := []*TestCase{
		{Group: "demo", Name: "panics", Fun: func(ctx *TestContext) {
			path, err := ctx.Create(Regular)
			require.NoError(ctx, err)
			require.NoError(ctx, Chmod(path, 0o000))
			panic("boom")
		}},
		{Group: "demo", Name: "after", Fun: func(ctx *TestContext) {
			secondRan = true
		}},
	}

	summary, err := r.Run(cases)
	require.NoError(t, err)

	assert.True(t, secondRan)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Passed)
	assert.Contains(t, out.String(), "demo::panics\terror: panic: boom\n")
}

func TestRunnerTearsDownSandbox(t *testing.T) {
	var out bytes.Buffer
	r := newRunner(t, &out)

	var sandbox string
	cases := []*TestCase{
		{Group: "demo", Name: "locks", Fun: func(ctx *TestContext) {
			sandbox = ctx.BasePath()
			dir, err := ctx.Create(Dir)
			require.NoError(ctx, err)
			_, err = NewFileBuilder(Regular, dir).Create()
			require.NoError(ctx, err)
			require.NoError(ctx, Chmod(dir, 0o000))
		}},
	}

	summary, err := r.Run(cases)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Passed)

	require.NotEmpty(t, sandbox)
	_, err = os.Lstat(sandbox)
	assert.ErrorIs(t, err, unix.ENOENT)

	// The shared base directory survives.
	entries, err := os.ReadDir(r.BaseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunnerSandboxIsolation(t *testing.T) {
	var out bytes.Buffer
	r := newRunner(t, &out)

	var first, second string
	cases := []*TestCase{
		{Group: "demo", Name: "one", Fun: func(ctx *TestContext) { first = ctx.BasePath() }},
		{Group: "demo", Name: "two", Fun: func(ctx *TestContext) { second = ctx.BasePath() }},
	}

	_, err := r.Run(cases)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, r.BaseDir, filepath.Dir(first))
	assert.Equal(t, r.BaseDir, filepath.Dir(second))
}

func TestRunnerParameterizedInstances(t *testing.T) {
	var out bytes.Buffer
	r := newRunner(t, &out)

	var seen []FileType
	cases := []*TestCase{
		{
			Group:     "demo",
			Name:      "typed",
			FileTypes: []FileType{Regular, Dir, Fifo},
			ExcludedTypes: []FileType{
				Dir,
			},
			FunWithType: func(ctx *TestContext, ft FileType) {
				seen = append(seen, ft)
			},
		},
	}

	summary, err := r.Run(cases)
	require.NoError(t, err)

	assert.Equal(t, []FileType{Regular, Fifo}, seen)
	assert.Equal(t, 2, summary.Passed)
	assert.Contains(t, out.String(), "demo::typed::regular\t")
	assert.Contains(t, out.String(), "demo::typed::fifo\t")
}

func TestRegisterValidation(t *testing.T) {
	assert.Panics(t, func() {
		Register(TestCase{Group: "demo", Name: "no_body"})
	})
	assert.Panics(t, func() {
		Register(TestCase{
			Group: "demo",
			Name:  "two_bodies",
			Fun:   func(*TestContext) {},
			SerializedFun: func(*SerializedTestContext) {
			},
		})
	})
	assert.Panics(t, func() {
		Register(TestCase{
			Group:       "demo",
			Name:        "types_without_body",
			FileTypes:   []FileType{Regular},
			Fun:         func(*TestContext) {},
			Description: "type list on a type agnostic body",
		})
	})
}
