package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"profile-sync/internal/config"
	"profile-sync/internal/database"
	dbpostgres "profile-sync/internal/database/postgres"
	"profile-sync/internal/database/sqldb"
	"profile-sync/internal/infrastructure/authstream"
	"profile-sync/internal/infrastructure/cache"
	"profile-sync/internal/pkg/jwt"
	"profile-sync/internal/repository"
	"profile-sync/internal/usecase/profilesync"
	"profile-sync/internal/ws"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB       database.DB
	Redis    *cache.Redis
	Identity *cache.IdentityCache
	Tokens   *jwt.HMACService

	AuthStream *authstream.Client
	Hub        *ws.Hub
	Bridge     *ws.ViewBridge

	Registry *prometheus.Registry
	Sync     *profilesync.Controller
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := profilesync.NewMetrics(reg)

	redisStore := cache.NewRedis(cfg.Redis, logger)
	identity := cache.NewIdentityCache(redisStore, cfg.Redis.IdentityKey)
	tokens := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn)

	stream := authstream.NewClient(cfg.AuthStream.URL, tokens, logger,
		authstream.WithBackoff(cfg.AuthStream.MinBackoff, cfg.AuthStream.MaxBackoff),
	)

	hub := ws.NewHub(logger)
	bridge := ws.NewViewBridge(hub)

	ctrl := profilesync.New(stream, identity, repository.NewPostgresProfileRepository(db),
		profilesync.WithNavigator(bridge),
		profilesync.WithDialogs(bridge),
		profilesync.WithObserver(bridge),
		profilesync.WithMetrics(metrics),
		profilesync.WithReporter(profilesync.NewLogReporter(logger, metrics)),
		profilesync.WithLogger(logger),
	)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Redis:      redisStore,
		Identity:   identity,
		Tokens:     tokens,
		AuthStream: stream,
		Hub:        hub,
		Bridge:     bridge,
		Registry:   reg,
		Sync:       ctrl,
	}, nil
}

// OpenDB connects with the driver named in cfg.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	switch cfg.Driver {
	case config.DriverStdlib:
		return sqldb.Open(ctx, cfg)
	case config.DriverPgxPool, "":
		return dbpostgres.Connect(ctx, cfg)
	default:
		return nil, fmt.Errorf("open database: unsupported driver %q", cfg.Driver)
	}
}

// Close stops the controller before releasing the stores it reads from.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Sync != nil {
		errs = append(errs, c.Sync.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
