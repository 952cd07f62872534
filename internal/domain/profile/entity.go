package profile

import "strings"

// UserID identifies the signed-in account that owns a set of profiles.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// Normalize strips surrounding whitespace. Every component compares
// normalized ids, so " u1" and "u1" name the same owner.
func (u UserID) Normalize() UserID {
	return UserID(strings.TrimSpace(string(u)))
}

func (u UserID) IsZero() bool {
	return u.Normalize() == ""
}

type Profile struct {
	ID      string
	Name    string
	Surname string
	OwnerID UserID
}

// OwnedBy keeps the records owned by owner, in order, dropping repeated ids.
func OwnedBy(owner UserID, in []Profile) []Profile {
	out := make([]Profile, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		if p.OwnerID != owner {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Without returns a copy of in with the record identified by id removed.
func Without(in []Profile, id string) []Profile {
	out := make([]Profile, 0, len(in))
	for _, p := range in {
		if p.ID == id {
			continue
		}
		out = append(out, p)
	}
	return out
}
