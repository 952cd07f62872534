package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"profile-sync/internal/database"
)

var errNilDB = errors.New("nil db")

// Runner applies seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errNilDB
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("[Seeder] applied | name=%s took=%s", s.Name(), time.Since(start))
		}
	}
	return nil
}
