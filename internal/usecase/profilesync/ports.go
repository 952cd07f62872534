package profilesync

import (
	"context"

	"profile-sync/internal/domain/profile"
)

// AuthService emits the signed-in identity, or signedIn=false, on change.
type AuthService interface {
	Subscribe(fn func(id profile.UserID, signedIn bool)) (unsubscribe func())
}

// IdentityCache reads the identity persisted by a previous sign-in.
type IdentityCache interface {
	GetIdentity(ctx context.Context) (profile.UserID, bool, error)
}

const (
	TargetHome          = "Home"
	TargetCreateProfile = "CreateProfile"

	ParamProfileName = "profileName"
)

type Navigator interface {
	Navigate(ctx context.Context, target string, params map[string]any) error
}

// Prompt is a blocking confirm/cancel choice. The answer comes back through
// Controller.ConfirmDelete or Controller.CancelDelete.
type Prompt struct {
	ProfileID    string `json:"profile_id"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	CancelLabel  string `json:"cancel_label"`
	ConfirmLabel string `json:"confirm_label"`
}

// Dialogs is the user-facing confirmation and alert surface. Implementations
// must not block; the controller calls them from its event loop.
type Dialogs interface {
	Confirm(p Prompt)
	Alert(title, message string)
}

// Observer is told about every state change visible to the view.
type Observer interface {
	StateChanged(s Snapshot)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, string, map[string]any) error { return nil }

type nopDialogs struct{}

func (nopDialogs) Confirm(Prompt)       {}
func (nopDialogs) Alert(string, string) {}

type nopObserver struct{}

func (nopObserver) StateChanged(Snapshot) {}
