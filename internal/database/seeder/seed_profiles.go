package seeder

import (
	"context"
	"fmt"
	"strings"

	"profile-sync/internal/database"
	"profile-sync/internal/domain/profile"

	"github.com/google/uuid"
)

// DemoProfile is one row ProfilesSeeder inserts.
type DemoProfile struct {
	Name    string
	Surname string
}

func DefaultDemoProfiles() []DemoProfile {
	return []DemoProfile{
		{Name: "Ana", Surname: "Lee"},
		{Name: "Ben", Surname: "Ray"},
		{Name: "Kids", Surname: ""},
	}
}

// ProfilesSeeder gives Owner a starter set of profiles. Owners that already
// have profiles are left alone, so the seeder can run on every deploy.
type ProfilesSeeder struct {
	Owner    profile.UserID
	Profiles []DemoProfile
	NewID    func() string
}

func (ProfilesSeeder) Name() string { return "profiles" }

func (s ProfilesSeeder) Run(ctx context.Context, db database.DB) error {
	owner := strings.TrimSpace(s.Owner.String())
	if owner == "" {
		return profile.ErrEmptyOwner
	}
	if err := EnsureTableColumns(ctx, db, "profiles", "id", "name", "surname", "user_id", "created_at"); err != nil {
		return err
	}

	items := s.Profiles
	if items == nil {
		items = DefaultDemoProfiles()
	}
	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	var existing int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE user_id = $1`, owner).Scan(&existing); err != nil {
		return fmt.Errorf("count profiles: %w", err)
	}
	if existing > 0 {
		return nil
	}

	for _, it := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO profiles (id, name, surname, user_id) VALUES ($1, $2, $3, $4)`,
			newID(),
			it.Name,
			it.Surname,
			owner,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
