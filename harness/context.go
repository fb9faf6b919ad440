package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/config"
	"github.com/musikid/pjdfstest/lib/random"
)

// TestContext owns one ephemeral sandbox directory for a single test
// instance and draws secondary principals from the identity pool. No
// two contexts ever share a sandbox root.
type TestContext struct {
	naptime  time.Duration
	baseDir  string
	config   *config.Config
	pool     *IdentityPool
	failures []string
}

// NewTestContext binds a context to dir. The inter-operation delay is
// read from the settings.
func NewTestContext(cfg *config.Config, pool *IdentityPool, dir string) *TestContext {
	return &TestContext{
		naptime: time.Duration(cfg.Settings.Naptime * float64(time.Second)),
		baseDir: dir,
		config:  cfg,
		pool:    pool,
	}
}

// BasePath returns the sandbox root for this context.
func (c *TestContext) BasePath() string {
	return c.baseDir
}

// Config returns the suite configuration.
func (c *TestContext) Config() *config.Config {
	return c.config
}

// FeaturesConfig returns the feature part of the configuration.
func (c *TestContext) FeaturesConfig() *config.FeaturesConfig {
	return &c.config.Features
}

// GenPath generates a random path below the sandbox root.
func (c *TestContext) GenPath() string {
	return filepath.Join(c.baseDir, random.String(numRandChars))
}

// NewFile returns a file builder rooted at the sandbox.
func (c *TestContext) NewFile(ft FileType) *FileBuilder {
	return NewFileBuilder(ft, c.baseDir)
}

// Create creates an entry of the given type with a random name.
func (c *TestContext) Create(ft FileType) (string, error) {
	return c.NewFile(ft).Create()
}

// CreateFile creates a regular file and opens it.
func (c *TestContext) CreateFile(oflags int, mode uint32, hasMode bool) (string, *os.File, error) {
	b := c.NewFile(Regular)
	if hasMode {
		b.Mode(mode)
	}
	return b.Open(oflags)
}

// CreateNameMax creates an entry whose name length is _PC_NAME_MAX.
func (c *TestContext) CreateNameMax(ft FileType) (string, error) {
	max, err := nameMax(c.baseDir)
	if err != nil {
		return "", err
	}
	return c.NewFile(ft).Name(random.String(max)).Create()
}

// CreatePathMax creates an entry whose path length is _PC_PATH_MAX.
func (c *TestContext) CreatePathMax(ft FileType) (string, error) {
	nmax, err := nameMax(c.baseDir)
	if err != nil {
		return "", err
	}
	componentLen := nmax / 2
	pmax, err := pathMax(c.baseDir)
	if err != nil {
		return "", err
	}
	// - 1 for the trailing NUL
	pmax--

	path := c.baseDir
	remaining := pmax - len(path)

	var parts []string
	for i := 0; i < remaining/componentLen; i++ {
		// - 1 for the separator
		parts = append(parts, random.String(componentLen-1))
	}

	remaining = remaining%componentLen - 1
	if remaining > 0 {
		path = filepath.Join(path, filepath.Join(parts...))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", err
		}
		path = filepath.Join(path, random.String(remaining))
	} else {
		path = filepath.Join(path, filepath.Join(parts[:len(parts)-1]...))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", err
		}
		path = filepath.Join(path, parts[len(parts)-1])
	}

	if _, err := c.NewFile(ft).Name(path).Create(); err != nil {
		return "", err
	}
	return path, nil
}

// GetNewEntry returns the next unused (user, group) pair from the
// identity pool.
func (c *TestContext) GetNewEntry() *config.DummyAuthEntry {
	return c.pool.NextEntry()
}

// GetNewUser returns the next unused user from the identity pool.
func (c *TestContext) GetNewUser() *config.UnixUser {
	return &c.GetNewEntry().User
}

// GetNewGroup returns the next unused group from the identity pool.
func (c *TestContext) GetNewGroup() *config.UnixGroup {
	return &c.GetNewEntry().Group
}

// Nap sleeps long enough for filesystem timestamps to change.
func (c *TestContext) Nap() {
	time.Sleep(c.naptime)
}

// Errorf records an assertion failure. Part of the testify TestingT
// interface, so test bodies assert with the usual require/assert calls.
func (c *TestContext) Errorf(format string, args ...interface{}) {
	c.failures = append(c.failures, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// FailNow aborts the test body. The runner recovers the panic and
// records the instance as failed.
func (c *TestContext) FailNow() {
	panic(testFailure{detail: c.failureDetail()})
}

// Fatalf records a failure and aborts the test body.
func (c *TestContext) Fatalf(format string, args ...interface{}) {
	c.Errorf(format, args...)
	c.FailNow()
}

func (c *TestContext) failed() bool {
	return len(c.failures) > 0
}

func (c *TestContext) failureDetail() string {
	if len(c.failures) == 0 {
		return "test failed"
	}
	return strings.Join(c.failures, "; ")
}

// SerializedTestContext is a TestContext for tests which mutate process
// wide ambient state (effective identity, creation mask). The runner
// never interleaves such an instance with any other.
type SerializedTestContext struct {
	*TestContext
}

// NewSerializedTestContext binds a serialized context to dir.
func NewSerializedTestContext(cfg *config.Config, pool *IdentityPool, dir string) *SerializedTestContext {
	return &SerializedTestContext{TestContext: NewTestContext(cfg, pool, dir)}
}

// AsUser executes body with the effective identity of user. If gids is
// nil only the user's primary group is used; otherwise the first gid
// becomes the effective group and the rest become supplementary groups.
// The original identity is restored before returning, also when body
// panics, in which case the panic resumes after restoration.
func (c *SerializedTestContext) AsUser(u *config.UnixUser, gids []int, body func()) {
	origEuid := unix.Geteuid()
	origEgid := unix.Getegid()
	origGroups, err := unix.Getgroups()
	if err != nil {
		panic(fatalError{err})
	}

	if gids == nil {
		gids = []int{u.GID}
	}
	// syscall rather than x/sys: the latter has no seteuid/setegid on
	// Linux, and since Go 1.16 the syscall versions apply to every
	// thread of the process.
	mustSys("setgroups", syscall.Setgroups(gids))
	mustSys("setegid", syscall.Setegid(gids[0]))
	mustSys("seteuid", syscall.Seteuid(u.UID))

	defer func() {
		mustSys("seteuid", syscall.Seteuid(origEuid))
		mustSys("setegid", syscall.Setegid(origEgid))
		mustSys("setgroups", syscall.Setgroups(origGroups))
	}()

	body()
}

// WithUmask executes body with the process creation mask set to mask,
// restoring the previous mask on every exit path.
func (c *SerializedTestContext) WithUmask(mask uint32, body func()) {
	prev := unix.Umask(int(mask))
	defer unix.Umask(prev)
	body()
}

// mustSys panics on identity switch failures; a half switched process
// cannot meaningfully keep running the suite.
func mustSys(op string, err error) {
	if err != nil {
		panic(fatalError{fmt.Errorf("%s: %v", op, err)})
	}
}

// testFailure carries an assertion failure out of a test body.
type testFailure struct {
	detail string
}

// fatalError marks fixture and configuration defects which abort the
// whole run instead of failing a single instance.
type fatalError struct {
	err error
}
