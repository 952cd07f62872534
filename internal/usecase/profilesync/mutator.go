package profilesync

import (
	"context"
	"fmt"

	"profile-sync/internal/domain/profile"
)

// MutationState tracks a deletion:
//
//	idle -> confirmation_pending -> idle                (cancelled)
//	idle -> confirmation_pending -> deleting -> idle    (deleted or failed)
type MutationState string

const (
	StateIdle                MutationState = "idle"
	StateConfirmationPending MutationState = "confirmation_pending"
	StateDeleting            MutationState = "deleting"
)

type Texts struct {
	ConfirmTitle   string
	ConfirmMessage string
	CancelLabel    string
	ConfirmLabel   string
	SuccessTitle   string
	SuccessMessage string
	FailureTitle   string
	FailureMessage string
}

func DefaultTexts() Texts {
	return Texts{
		ConfirmTitle:   "Confirm",
		ConfirmMessage: "Are you sure you want to delete this profile?",
		CancelLabel:    "Cancel",
		ConfirmLabel:   "Accept",
		SuccessTitle:   "Success",
		SuccessMessage: "Profile deleted",
		FailureTitle:   "Error",
		FailureMessage: "There was a problem deleting the profile",
	}
}

// RequestDelete asks the user to confirm deleting profileID. Nothing is
// deleted until ConfirmDelete.
func (c *Controller) RequestDelete(ctx context.Context, profileID string) error {
	return c.do(ctx, func() error {
		if c.mutation != StateIdle {
			return ErrMutationInProgress
		}
		if _, ok := c.find(profileID); !ok {
			return ErrUnknownProfile
		}

		c.mutation = StateConfirmationPending
		c.pendingID = profileID
		c.dialogs.Confirm(Prompt{
			ProfileID:    profileID,
			Title:        c.texts.ConfirmTitle,
			Message:      c.texts.ConfirmMessage,
			CancelLabel:  c.texts.CancelLabel,
			ConfirmLabel: c.texts.ConfirmLabel,
		})
		c.notify()
		return nil
	})
}

func (c *Controller) CancelDelete(ctx context.Context) error {
	return c.do(ctx, func() error {
		if c.mutation != StateConfirmationPending {
			return ErrNoPendingConfirmation
		}
		c.mutation = StateIdle
		c.pendingID = ""
		c.metrics.incDelete(outcomeCancelled)
		c.notify()
		return nil
	})
}

// ConfirmDelete issues the remote delete for the pending profile. It returns
// once the delete is in flight; the outcome is reported through Dialogs.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	return c.do(ctx, func() error {
		if c.mutation != StateConfirmationPending {
			return ErrNoPendingConfirmation
		}

		id := c.pendingID
		c.mutation = StateDeleting
		c.notify()

		reqCtx := c.baseCtx
		go func() {
			err := c.repo.DeleteByID(reqCtx, id)
			c.post(func() { c.finishDelete(id, err) })
		}()
		return nil
	})
}

func (c *Controller) finishDelete(id string, err error) {
	c.mutation = StateIdle
	c.pendingID = ""

	if err != nil {
		c.metrics.incDelete(outcomeError)
		c.dialogs.Alert(c.texts.FailureTitle, c.texts.FailureMessage)
		c.reporter.Report(KindDeleteFailure, "deleting profile failed", fmt.Errorf("profile %s: %w", id, err))
		c.notify()
		return
	}

	c.profiles = profile.Without(c.profiles, id)
	c.tombstones[id] = c.generation
	c.metrics.incDelete(outcomeOK)
	c.dialogs.Alert(c.texts.SuccessTitle, c.texts.SuccessMessage)
	c.notify()
}
