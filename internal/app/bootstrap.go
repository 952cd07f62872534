package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"profile-sync/internal/config"
	"profile-sync/internal/delivery/http/handler"
	"profile-sync/internal/delivery/http/middleware"
	"profile-sync/internal/delivery/http/routes"
	"profile-sync/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

// Run serves HTTP and drives the hub, the auth stream and the sync controller
// until ctx is done or one of them fails.
func (a *App) Run(ctx context.Context, addr string) error {
	c := a.Container
	if err := c.Sync.Start(ctx); err != nil {
		return fmt.Errorf("start profile sync: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Hub.Run(gctx) })
	g.Go(func() error { return c.AuthStream.Run(gctx) })

	g.Go(func() error {
		c.Logger.Printf("[HTTP] listening | addr=%s env=%s", addr, c.Config.App.Environment)
		if err := a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Fiber.ShutdownWithContext(shutdownCtx)
	})

	return g.Wait()
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger, "/health", "/metrics").Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	reg := &routes.Registry{
		Health:   handler.NewHealthHandler(c.DB, c.Redis),
		Profiles: handler.NewProfileHandler(c.Sync),
		Session:  handler.NewSessionHandler(c.Identity),
		Auth:     middleware.NewAuthMiddleware(c.Tokens),
		ViewWS:   ws.NewHandler(c.Hub, c.Logger).HandleViewWS,
		Metrics:  promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}),
	}
	reg.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
