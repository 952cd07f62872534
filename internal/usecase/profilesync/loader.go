package profilesync

import (
	"context"

	"profile-sync/internal/domain/profile"
)

// Focus handles re-entry from the routing host. A true newProfileCreated
// forces a reload for the current identity; without one it is a no-op and
// the load triggered by identity resolution fills the list instead.
func (c *Controller) Focus(ctx context.Context, newProfileCreated bool) error {
	return c.do(ctx, func() error {
		if newProfileCreated {
			c.load()
		}
		return nil
	})
}

// load issues a query for the current identity. Each call takes a new
// generation; only the newest generation may replace the list.
func (c *Controller) load() {
	if !c.hasIdentity {
		c.metrics.incLoad(outcomeSkipped)
		return
	}

	c.generation++
	gen, owner := c.generation, c.identity
	ctx := c.baseCtx

	go func() {
		records, err := c.repo.ListByOwner(ctx, owner)
		c.post(func() { c.finishLoad(gen, owner, records, err) })
	}()
}

func (c *Controller) finishLoad(gen uint64, owner profile.UserID, records []profile.Profile, err error) {
	if err != nil {
		c.metrics.incLoad(outcomeError)
		c.reporter.Report(KindLoadFailure, "loading profiles failed", err)
		return
	}
	if gen != c.generation || owner != c.identity {
		c.metrics.incLoad(outcomeStale)
		return
	}

	records = profile.OwnedBy(owner, records)

	// A query issued before a delete succeeded may still carry the deleted
	// record. Queries issued after it cannot.
	kept := records[:0]
	for _, p := range records {
		if deletedAt, ok := c.tombstones[p.ID]; ok && deletedAt >= gen {
			continue
		}
		kept = append(kept, p)
	}
	for id, deletedAt := range c.tombstones {
		if deletedAt < gen {
			delete(c.tombstones, id)
		}
	}

	c.profiles = kept
	c.metrics.incLoad(outcomeOK)
	c.notify()
}
