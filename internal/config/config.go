package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	AuthStream AuthStreamConfig
}

type AppConfig struct {
	AppName     string `env:"APP_NAME,required,notEmpty"`
	Environment string `env:"APP_ENV,required,notEmpty"`
	HTTPPort    string `env:"HTTP_PORT,required,notEmpty"`
}

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"pgxpool"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	ConnectTimeout        time.Duration `env:"DB_CONNECT_TIMEOUT"`
	PoolMaxConns          int32         `env:"DB_POOL_MAX_CONNS"`
	PoolMinConns          int32         `env:"DB_POOL_MIN_CONNS"`
	PoolMaxConnLifetime   time.Duration `env:"DB_POOL_MAX_CONN_LIFETIME"`
	PoolMaxConnIdleTime   time.Duration `env:"DB_POOL_MAX_CONN_IDLE_TIME"`
	PoolHealthCheckPeriod time.Duration `env:"DB_POOL_HEALTH_CHECK_PERIOD"`

	MigrationsLockID int64 `env:"DB_MIGRATIONS_LOCK_ID" envDefault:"746295114"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	IdentityKey string `env:"IDENTITY_CACHE_KEY" envDefault:"userId"`
}

type JWTConfig struct {
	AccessSecret    string        `env:"JWT_ACCESS_SECRET,required,notEmpty"`
	AccessExpiresIn time.Duration `env:"JWT_ACCESS_EXPIRES_IN" envDefault:"1h"`
}

type AuthStreamConfig struct {
	URL        string        `env:"AUTH_STREAM_URL"`
	MinBackoff time.Duration `env:"AUTH_STREAM_MIN_BACKOFF" envDefault:"1s"`
	MaxBackoff time.Duration `env:"AUTH_STREAM_MAX_BACKOFF" envDefault:"30s"`
}

const (
	DriverPgxPool = "pgxpool"
	DriverStdlib  = "stdlib"
)

var (
	errInvalidEnv        = errors.New("invalid environment")
	errUnsupportedDriver = errors.New("unsupported DB_DRIVER")
)

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errInvalidEnv, err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case DriverPgxPool, DriverStdlib:
	default:
		return Config{}, fmt.Errorf("%w: %q", errUnsupportedDriver, cfg.Database.Driver)
	}

	cfg.AuthStream.URL = strings.TrimSpace(cfg.AuthStream.URL)
	if cfg.AuthStream.MaxBackoff < cfg.AuthStream.MinBackoff {
		cfg.AuthStream.MaxBackoff = cfg.AuthStream.MinBackoff
	}

	return cfg, nil
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(c.DBHost),
		strings.TrimSpace(c.DBPort),
		strings.TrimSpace(c.DBUser),
		c.DBPassword,
		strings.TrimSpace(c.DBName),
		strings.TrimSpace(c.DBSSLMode),
	)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}
