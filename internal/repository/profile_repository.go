package repository

import (
	"context"
	"strings"

	"profile-sync/internal/database"
	"profile-sync/internal/domain/profile"

	"github.com/google/uuid"
)

// PostgresProfileRepository stores profile documents in the profiles table.
// Columns mirror the document shape {name, surname, userId} plus the
// store-assigned id.
type PostgresProfileRepository struct {
	db database.DB
}

var _ profile.Repository = (*PostgresProfileRepository)(nil)

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) ListByOwner(ctx context.Context, owner profile.UserID) ([]profile.Profile, error) {
	ownerID := owner.Normalize().String()
	if ownerID == "" {
		return nil, profile.ErrEmptyOwner
	}

	rows, err := r.db.Query(ctx,
		`SELECT id::text, name, surname, user_id
		 FROM profiles
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		var (
			p       profile.Profile
			ownerOf string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Surname, &ownerOf); err != nil {
			return nil, err
		}
		p.OwnerID = profile.UserID(ownerOf)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID removes one profile document. Deleting an id that no longer
// exists succeeds, matching document-store delete semantics; an id that is
// not a uuid cannot name a stored row and is treated the same way.
func (r *PostgresProfileRepository) DeleteByID(ctx context.Context, id string) error {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil
	}
	_, err = r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1::uuid`, pid.String())
	return err
}
