package config

import (
	"os/user"
	"strconv"

	"github.com/pkg/errors"
)

// PoolSize is the fixed size of the identity pool. It is the maximum
// number of distinct principals any single test needs.
const PoolSize = 3

// UnixUser is a resolved entry from the host user database.
type UnixUser struct {
	Name string
	UID  int
	GID  int
}

// UnixGroup is a resolved entry from the host group database.
type UnixGroup struct {
	Name string
	GID  int
}

// DummyAuthEntry is a user and its associated group, used when a test
// needs to switch to a different principal. The user must be a member
// of the group.
type DummyAuthEntry struct {
	UserName  string
	GroupName string
	User      UnixUser
	Group     UnixGroup
}

// DummyAuthConfig holds the ordered identity pool.
type DummyAuthConfig struct {
	Entries [PoolSize]DummyAuthEntry
}

func defaultDummyAuth() DummyAuthConfig {
	return DummyAuthConfig{
		Entries: [PoolSize]DummyAuthEntry{
			{UserName: "nobody", GroupName: "nobody"},
			{UserName: "pjdfstest", GroupName: "pjdfstest"},
			{UserName: "tests", GroupName: "tests"},
		},
	}
}

func (c *DummyAuthConfig) setNames(entries [][]string) error {
	if len(entries) != PoolSize {
		return errors.Errorf("dummy_auth.entries must contain exactly %d user/group pairs, got %d", PoolSize, len(entries))
	}
	for i, pair := range entries {
		if len(pair) != 2 {
			return errors.Errorf("dummy_auth.entries[%d] must be a [user, group] pair", i)
		}
		c.Entries[i].UserName = pair[0]
		c.Entries[i].GroupName = pair[1]
	}
	return nil
}

// resolve looks every entry up in the host user and group databases.
func (c *DummyAuthConfig) resolve() error {
	for i := range c.Entries {
		if err := c.Entries[i].resolve(); err != nil {
			return err
		}
	}
	return nil
}

func (e *DummyAuthEntry) resolve() error {
	u, err := user.Lookup(e.UserName)
	if err != nil {
		return errors.Errorf("no user found for %q", e.UserName)
	}
	g, err := user.LookupGroup(e.GroupName)
	if err != nil {
		return errors.Errorf("no group found for %q", e.GroupName)
	}
	if u.Gid != g.Gid {
		return errors.Errorf("user %q is not part of group %q", e.UserName, e.GroupName)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return errors.Wrapf(err, "invalid uid for user %q", e.UserName)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return errors.Wrapf(err, "invalid gid for group %q", e.GroupName)
	}
	e.User = UnixUser{Name: u.Username, UID: uid, GID: gid}
	e.Group = UnixGroup{Name: g.Name, GID: gid}
	return nil
}
