package harness

import (
	"fmt"

	"github.com/musikid/pjdfstest/features"
)

// TestCase describes one registered test. Descriptors are built once at
// registration time and read only afterwards.
type TestCase struct {
	// Group is the syscall group the test belongs to, eg "chmod".
	Group string
	// Name identifies the test within its group.
	Name string
	// Description is an optional doc string, shown in verbose mode.
	Description string
	// RequireRoot skips the test when the process is not effectively
	// root.
	RequireRoot bool
	// RequiredFeatures must all be enabled in the configuration and
	// available on the host.
	RequiredFeatures []features.Feature
	// Guards are evaluated in declaration order; any veto skips the
	// test.
	Guards []Guard
	// FileTypes instantiates the test once per type, in declaration
	// order. Empty means the test is type agnostic and runs once.
	FileTypes []FileType
	// ExcludedTypes removes types from FileTypes.
	ExcludedTypes []FileType

	// Exactly one of the four bodies must be set. Serialized bodies
	// mutate process wide ambient state and are never interleaved with
	// other instances.
	Fun                   func(*TestContext)
	FunWithType           func(*TestContext, FileType)
	SerializedFun         func(*SerializedTestContext)
	SerializedFunWithType func(*SerializedTestContext, FileType)
}

// Serialized reports whether the test body needs a serialized context.
func (tc *TestCase) Serialized() bool {
	return tc.SerializedFun != nil || tc.SerializedFunWithType != nil
}

func (tc *TestCase) parameterized() bool {
	return tc.FunWithType != nil || tc.SerializedFunWithType != nil
}

// types returns the instantiation list after exclusions.
func (tc *TestCase) types() []FileType {
	if len(tc.FileTypes) == 0 {
		return nil
	}
	excluded := make(map[FileType]bool, len(tc.ExcludedTypes))
	for _, ft := range tc.ExcludedTypes {
		excluded[ft] = true
	}
	var out []FileType
	for _, ft := range tc.FileTypes {
		if !excluded[ft] {
			out = append(out, ft)
		}
	}
	return out
}

func (tc *TestCase) validate() error {
	if tc.Group == "" || tc.Name == "" {
		return fmt.Errorf("test case %q::%q needs a group and a name", tc.Group, tc.Name)
	}
	bodies := 0
	for _, set := range []bool{
		tc.Fun != nil,
		tc.FunWithType != nil,
		tc.SerializedFun != nil,
		tc.SerializedFunWithType != nil,
	} {
		if set {
			bodies++
		}
	}
	if bodies != 1 {
		return fmt.Errorf("test case %s::%s must have exactly one body, has %d", tc.Group, tc.Name, bodies)
	}
	if tc.parameterized() && len(tc.types()) == 0 {
		return fmt.Errorf("test case %s::%s takes a file type but lists none", tc.Group, tc.Name)
	}
	if !tc.parameterized() && len(tc.FileTypes) > 0 {
		return fmt.Errorf("test case %s::%s lists file types but takes none", tc.Group, tc.Name)
	}
	return nil
}

// registry is the append-only ordered list of descriptors, fully
// populated by package init functions before the runner starts.
var registry []*TestCase

// Register adds a descriptor to the registry. It is meant to be called
// from init functions of the test packages; a malformed descriptor is a
// programming error and panics.
func Register(tc TestCase) {
	if err := tc.validate(); err != nil {
		panic(err)
	}
	registry = append(registry, &tc)
}

// TestCases returns the registry in registration order.
func TestCases() []*TestCase {
	return registry
}
