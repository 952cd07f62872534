package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"profile-sync/internal/app"
	"profile-sync/internal/config"
	"profile-sync/internal/database/migration"
	"profile-sync/internal/database/seeder"
	"profile-sync/internal/domain/profile"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for migrations and seeding")
	seedOwner := flag.String("seed-owner", "", "insert demo profiles for this user id if it has none")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := app.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	r := migration.Runner{Source: migration.Profiles(), LockID: cfg.Database.MigrationsLockID}
	applied, err := r.Run(ctx, db)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	for _, m := range applied {
		logger.Printf("[Migration] applied | version=%d name=%s", m.Version, m.Name)
	}
	logger.Printf("[Migration] done | applied=%d", len(applied))

	owner := strings.TrimSpace(*seedOwner)
	if owner == "" {
		return
	}
	seeds := seeder.Runner{
		Seeders: []seeder.Seeder{seeder.ProfilesSeeder{Owner: profile.UserID(owner)}},
		Logger:  logger,
	}
	if err := seeds.Run(ctx, db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
