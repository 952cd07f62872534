package profilesync

import (
	"context"
)

// OpenProfile sends the user to the home view of a listed profile.
func (c *Controller) OpenProfile(ctx context.Context, profileID string) error {
	var name string
	err := c.do(ctx, func() error {
		p, ok := c.find(profileID)
		if !ok {
			return ErrUnknownProfile
		}
		name = p.Name
		return nil
	})
	if err != nil {
		return err
	}
	return c.nav.Navigate(ctx, TargetHome, map[string]any{ParamProfileName: name})
}

// StartCreateProfile hands off to the creation flow. Its completion comes
// back as Focus(ctx, true).
func (c *Controller) StartCreateProfile(ctx context.Context) error {
	if err := c.do(ctx, func() error { return nil }); err != nil {
		return err
	}
	return c.nav.Navigate(ctx, TargetCreateProfile, nil)
}
