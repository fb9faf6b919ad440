// Package features describes optional filesystem capabilities which are
// not available on every filesystem and can be tested for.
//
// A feature has to be both enabled in the configuration and available on
// the host (see Probe) for a test requiring it to run.
package features

import "github.com/pkg/errors"

// Feature is a named optional filesystem capability gating whether a
// test instance is applicable.
type Feature string

// Optional features, in the order they are listed by --list-features.
const (
	Chflags           Feature = "chflags"
	ChflagsSfSnapshot Feature = "chflags_sf_snapshot"
	Nfsv4Acls         Feature = "nfsv4_acls"
	PosixFallocate    Feature = "posix_fallocate"
	RenameCtime       Feature = "rename_ctime"
	StatStBirthtime   Feature = "stat_st_birthtime"
	UtimeNow          Feature = "utime_now"
	Utimensat         Feature = "utimensat"
)

// List returns every known feature in a stable order.
func List() []Feature {
	return []Feature{
		Chflags,
		ChflagsSfSnapshot,
		Nfsv4Acls,
		PosixFallocate,
		RenameCtime,
		StatStBirthtime,
		UtimeNow,
		Utimensat,
	}
}

var docs = map[Feature]string{
	Chflags:           "the chflags(2) syscall is available",
	ChflagsSfSnapshot: "the SF_SNAPSHOT flag can be set with chflags(2)",
	Nfsv4Acls:         "NFSv4 style Access Control Lists are available",
	PosixFallocate:    "the posix_fallocate(2) syscall is available",
	RenameCtime:       "rename(2) changes st_ctime on success (POSIX does not require it, but some filesystems do it anyway)",
	StatStBirthtime:   "struct stat contains an st_birthtime field",
	UtimeNow:          "the UTIME_NOW constant is available",
	Utimensat:         "the utimensat(2) syscall is available",
}

// Doc returns a one line description of the feature.
func (f Feature) Doc() string {
	return docs[f]
}

func (f Feature) String() string {
	return string(f)
}

// Parse converts a configuration key into a Feature.
func Parse(s string) (Feature, error) {
	for _, f := range List() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown feature %q", s)
}
