package dto

import (
	"profile-sync/internal/domain/profile"
	"profile-sync/internal/usecase/profilesync"
)

type ProfileResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	UserID  string `json:"userId"`
}

type ProfileListResponse struct {
	Identity  string            `json:"identity,omitempty"`
	Ready     bool              `json:"ready"`
	Mutation  string            `json:"mutation"`
	PendingID string            `json:"pending_id,omitempty"`
	Profiles  []ProfileResponse `json:"profiles"`
}

type SessionResponse struct {
	UserID string `json:"userId"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:      p.ID,
		Name:    p.Name,
		Surname: p.Surname,
		UserID:  p.OwnerID.String(),
	}
}

func NewProfileListResponse(s profilesync.Snapshot) ProfileListResponse {
	items := make([]ProfileResponse, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		items = append(items, NewProfileResponse(p))
	}
	return ProfileListResponse{
		Identity:  s.Identity.String(),
		Ready:     s.Ready,
		Mutation:  string(s.Mutation),
		PendingID: s.PendingID,
		Profiles:  items,
	}
}
