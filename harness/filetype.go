// Package harness provides the sandbox, privilege switching context,
// file builder and sequential runner used to drive the conformance
// tests against the filesystem under test.
package harness

// FileType is the kind of filesystem entry a test operates on, mainly
// used with TestContext.Create and FileBuilder.
type FileType int

const (
	Regular FileType = iota
	Dir
	Fifo
	Block
	Char
	Socket
	Symlink
)

// AllFileTypes lists every file type in declaration order, for tests
// parameterized over entry types.
var AllFileTypes = []FileType{Regular, Dir, Fifo, Block, Char, Socket, Symlink}

var fileTypeNames = []string{
	Regular: "regular",
	Dir:     "dir",
	Fifo:    "fifo",
	Block:   "block",
	Char:    "char",
	Socket:  "socket",
	Symlink: "symlink",
}

func (ft FileType) String() string {
	if int(ft) >= len(fileTypeNames) {
		return "unknown"
	}
	return fileTypeNames[ft]
}

// Privileged reports whether creating an entry of this type requires
// elevated privileges. Consumed by the guard evaluator, not enforced by
// the builder.
func (ft FileType) Privileged() bool {
	return ft == Block || ft == Char
}
