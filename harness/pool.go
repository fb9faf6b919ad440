package harness

import (
	"github.com/pkg/errors"

	"github.com/musikid/pjdfstest/config"
)

// IdentityPool hands out the (user, group) pairs of the identity pool
// in order. Each pair is handed out at most once per context lifetime;
// the cursor only advances.
type IdentityPool struct {
	entries []config.DummyAuthEntry
	next    int
}

// NewIdentityPool returns a pool over the resolved entries.
func NewIdentityPool(entries []config.DummyAuthEntry) *IdentityPool {
	return &IdentityPool{entries: entries}
}

// NextEntry returns the next unused pair. Exhausting the pool is a
// fixture defect, not a test failure: the pool size is the maximum
// number of principals any single test needs, so running out aborts
// the suite.
func (p *IdentityPool) NextEntry() *config.DummyAuthEntry {
	if p.next >= len(p.entries) {
		panic(fatalError{errors.Errorf("identity pool exhausted after %d entries", len(p.entries))})
	}
	entry := &p.entries[p.next]
	p.next++
	return entry
}
