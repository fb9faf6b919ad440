package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musikid/pjdfstest/config"
)

func testEntries() []config.DummyAuthEntry {
	return []config.DummyAuthEntry{
		{UserName: "first", User: config.UnixUser{Name: "first", UID: 1001, GID: 1001}},
		{UserName: "second", User: config.UnixUser{Name: "second", UID: 1002, GID: 1002}},
		{UserName: "third", User: config.UnixUser{Name: "third", UID: 1003, GID: 1003}},
	}
}

func TestPoolHandsOutEntriesInOrder(t *testing.T) {
	pool := NewIdentityPool(testEntries())
	for _, want := range []string{"first", "second", "third"} {
		entry := pool.NextEntry()
		require.NotNil(t, entry)
		assert.Equal(t, want, entry.UserName)
	}
}

func TestPoolExhaustionIsFatal(t *testing.T) {
	pool := NewIdentityPool(testEntries())
	for i := 0; i < len(testEntries()); i++ {
		pool.NextEntry()
	}
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(fatalError)
		assert.True(t, ok, "expected fatalError, got %T", r)
	}()
	pool.NextEntry()
}
