package harness

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/config"
	"github.com/musikid/pjdfstest/features"
	"github.com/musikid/pjdfstest/lib/log"
)

// Runner executes every applicable test instance, strictly one at a
// time. Privilege and creation mask switching are process global, so
// instances must never overlap.
type Runner struct {
	Config  *config.Config
	Caps    *features.Capabilities
	BaseDir string
	Verbose bool
	Out     io.Writer
}

// Summary tallies the outcome of a run.
type Summary struct {
	Failed  int
	Skipped int
	Passed  int
}

// Total returns the number of executed and skipped instances.
func (s *Summary) Total() int {
	return s.Failed + s.Skipped + s.Passed
}

// instanceResult is the explicit per-instance outcome; one instance
// failing never aborts the run.
type instanceResult struct {
	failed bool
	detail string
}

// Run drives the test cases in order. It returns an error only when a
// sandbox directory cannot be created; test failures are reported
// through the summary. Fixture defects (identity pool exhaustion,
// broken identity switching) abort the process.
func (r *Runner) Run(cases []*TestCase) (*Summary, error) {
	// Tests control the creation mask themselves.
	unix.Umask(0)

	eval := &guardEvaluator{
		cfg:    r.Config,
		caps:   r.Caps,
		isRoot: unix.Geteuid() == 0,
	}

	summary := &Summary{}
	for _, tc := range cases {
		types := tc.types()
		if !tc.parameterized() {
			// Type agnostic tests are instantiated once.
			if err := r.runInstance(tc, eval, false, Regular, summary); err != nil {
				return summary, err
			}
			continue
		}
		for _, ft := range types {
			if err := r.runInstance(tc, eval, true, ft, summary); err != nil {
				return summary, err
			}
		}
	}
	return summary, nil
}

func (r *Runner) runInstance(tc *TestCase, eval *guardEvaluator, typed bool, ft FileType, summary *Summary) error {
	name := fmt.Sprintf("%s::%s", tc.Group, tc.Name)
	if typed {
		name = fmt.Sprintf("%s::%s", name, ft)
	}
	fmt.Fprintf(r.Out, "%s\t", name)
	if r.Verbose && tc.Description != "" {
		fmt.Fprintf(r.Out, "\n\t%s\t\t", tc.Description)
	}

	dir, err := r.newSandboxDir()
	if err != nil {
		return err
	}

	requireRoot := tc.RequireRoot || (typed && ft.Privileged())
	if reason := eval.evaluate(tc, requireRoot, dir); reason != "" {
		fmt.Fprintf(r.Out, "skipped (%s)\n", reason)
		summary.Skipped++
		_ = os.RemoveAll(dir)
		return nil
	}

	res := r.execute(tc, ft, dir)
	switch {
	case res.failed:
		fmt.Fprintf(r.Out, "error: %s\n", res.detail)
		summary.Failed++
	default:
		fmt.Fprintln(r.Out, "success")
		summary.Passed++
	}
	return nil
}

// newSandboxDir creates a fresh, empty, exclusively owned sandbox root.
// Some tests need a 0755 base dir; MkdirTemp creates 0700.
func (r *Runner) newSandboxDir() (string, error) {
	dir, err := os.MkdirTemp(r.BaseDir, "sandbox")
	if err != nil {
		return "", err
	}
	if err := Chmod(dir, 0o755); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}
	return dir, nil
}

// execute runs one instance body, isolating abnormal termination, and
// always tears the context down.
func (r *Runner) execute(tc *TestCase, ft FileType, dir string) (res instanceResult) {
	pool := NewIdentityPool(r.Config.DummyAuth.Entries[:])

	var ctx *TestContext
	var teardown func()

	defer func() {
		if p := recover(); p != nil {
			switch v := p.(type) {
			case testFailure:
				res.failed = true
				res.detail = v.detail
			case fatalError:
				// Fixture defect; tear the sandbox down, then abort
				// the whole run.
				teardown()
				log.Fatalf("%v", v.err)
			default:
				res.failed = true
				res.detail = fmt.Sprintf("panic: %v", v)
				log.Debugf("panic in %s::%s: %v\n%s", tc.Group, tc.Name, v, debug.Stack())
			}
		}
		teardown()
	}()

	if tc.Serialized() {
		sctx := NewSerializedTestContext(r.Config, pool, dir)
		ctx = sctx.TestContext
		teardown = sctx.Teardown
		if tc.SerializedFunWithType != nil {
			tc.SerializedFunWithType(sctx, ft)
		} else {
			tc.SerializedFun(sctx)
		}
	} else {
		ctx = NewTestContext(r.Config, pool, dir)
		teardown = ctx.Teardown
		if tc.FunWithType != nil {
			tc.FunWithType(ctx, ft)
		} else {
			tc.Fun(ctx)
		}
	}

	if ctx.failed() {
		res.failed = true
		res.detail = ctx.failureDetail()
	}
	return res
}
