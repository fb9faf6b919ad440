package features

import "github.com/pkg/errors"

// FileFlag is a BSD file flag as set by chflags(2), eg UF_IMMUTABLE.
// Which flags exist depends on the platform; the per-platform flag table
// maps the names the host actually knows about to their bit values.
type FileFlag string

// File flags (see https://docs.freebsd.org/en/books/handbook/basics/#permissions).
const (
	UF_SETTABLE  FileFlag = "UF_SETTABLE"
	UF_NODUMP    FileFlag = "UF_NODUMP"
	UF_IMMUTABLE FileFlag = "UF_IMMUTABLE"
	UF_APPEND    FileFlag = "UF_APPEND"
	UF_OPAQUE    FileFlag = "UF_OPAQUE"
	UF_SYSTEM    FileFlag = "UF_SYSTEM"
	UF_SPARSE    FileFlag = "UF_SPARSE"
	UF_OFFLINE   FileFlag = "UF_OFFLINE"
	UF_REPARSE   FileFlag = "UF_REPARSE"
	UF_ARCHIVE   FileFlag = "UF_ARCHIVE"
	UF_READONLY  FileFlag = "UF_READONLY"
	UF_HIDDEN    FileFlag = "UF_HIDDEN"
	UF_NOUNLINK  FileFlag = "UF_NOUNLINK"
	SF_SETTABLE  FileFlag = "SF_SETTABLE"
	SF_ARCHIVED  FileFlag = "SF_ARCHIVED"
	SF_IMMUTABLE FileFlag = "SF_IMMUTABLE"
	SF_APPEND    FileFlag = "SF_APPEND"
	SF_NOUNLINK  FileFlag = "SF_NOUNLINK"
	SF_SNAPSHOT  FileFlag = "SF_SNAPSHOT"
)

func (f FileFlag) String() string {
	return string(f)
}

// UserSettable reports whether the flag is in the UF_ namespace, ie
// settable by the file owner rather than the superuser only.
func (f FileFlag) UserSettable() bool {
	return len(f) > 3 && f[:3] == "UF_"
}

// ParseFileFlag converts a configuration entry into a FileFlag. The flag
// does not have to be available on the host, only known by name.
func ParseFileFlag(s string) (FileFlag, error) {
	if _, ok := flagBits[FileFlag(s)]; ok {
		return FileFlag(s), nil
	}
	return "", errors.Errorf("unknown file flag %q", s)
}

// FlagBit returns the bit value of the flag on this platform. The second
// return is false when the platform does not know the flag.
func FlagBit(f FileFlag) (uint32, bool) {
	bit, ok := platformFlagBits[f]
	return bit, ok
}

// SupportedFlags returns the flags the platform knows about, in table
// order.
func SupportedFlags() []FileFlag {
	var out []FileFlag
	for _, f := range flagOrder {
		if _, ok := platformFlagBits[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// flagBits holds every flag name known to any platform, so configuration
// parsing accepts them everywhere; availability is decided by
// platformFlagBits.
var flagBits = map[FileFlag]struct{}{}

var flagOrder = []FileFlag{
	UF_SETTABLE, UF_NODUMP, UF_IMMUTABLE, UF_APPEND, UF_OPAQUE,
	UF_SYSTEM, UF_SPARSE, UF_OFFLINE, UF_REPARSE, UF_ARCHIVE,
	UF_READONLY, UF_HIDDEN, UF_NOUNLINK,
	SF_SETTABLE, SF_ARCHIVED, SF_IMMUTABLE, SF_APPEND, SF_NOUNLINK,
	SF_SNAPSHOT,
}

func init() {
	for _, f := range flagOrder {
		flagBits[f] = struct{}{}
	}
}
