package profile

import (
	"context"
	"errors"
)

var ErrEmptyOwner = errors.New("empty profile owner")

type Repository interface {
	ListByOwner(ctx context.Context, owner UserID) ([]Profile, error)
	DeleteByID(ctx context.Context, id string) error
}
