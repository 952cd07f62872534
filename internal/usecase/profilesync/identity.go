package profilesync

import (
	"context"

	"profile-sync/internal/domain/profile"
)

type identitySource string

const (
	sourceStream identitySource = "stream"
	sourceCache  identitySource = "cache"
)

// onAuthState runs on the auth service's goroutine.
func (c *Controller) onAuthState(id profile.UserID, signedIn bool) {
	id = id.Normalize()
	if !signedIn || id.IsZero() {
		return
	}
	c.post(func() { c.adopt(id, sourceStream) })
}

func (c *Controller) readCache(ctx context.Context) {
	id, ok, err := c.cache.GetIdentity(ctx)
	if err != nil {
		c.reporter.Report(KindCacheReadFailure, "reading cached identity failed", err)
		return
	}
	id = id.Normalize()
	if !ok || id.IsZero() {
		return
	}
	c.post(func() { c.adopt(id, sourceCache) })
}

// adopt makes id the current identity and loads its profiles. A stream value
// is authoritative; a cached value only counts until the stream has spoken.
func (c *Controller) adopt(id profile.UserID, source identitySource) {
	if source == sourceCache && c.streamSeen {
		c.logger.Printf("[ProfileSync] cached identity ignored | reason=stream_authoritative")
		return
	}
	if source == sourceStream {
		c.streamSeen = true
	}

	if c.hasIdentity && c.identity != id {
		// The list may only ever show records of the current owner.
		c.profiles = nil
		if c.mutation == StateConfirmationPending {
			c.mutation = StateIdle
			c.pendingID = ""
		}
	}

	c.identity = id
	c.hasIdentity = true
	c.logger.Printf("[ProfileSync] identity adopted | source=%s", source)

	c.load()
	c.notify()
}
