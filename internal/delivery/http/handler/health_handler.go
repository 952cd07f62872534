package handler

import (
	"context"
	"errors"
	"time"

	"profile-sync/internal/delivery/http/middleware"
	"profile-sync/internal/infrastructure/cache"
	"profile-sync/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const (
	healthTimeout = 2 * time.Second

	componentOK     = "ok"
	componentBypass = "bypass"
	componentDown   = "down"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the database and identity cache. The service is only
// unhealthy when the database is down; a missing cache degrades cold starts
// but nothing else.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	components := fiber.Map{
		"database": componentOK,
		"cache":    componentOK,
	}
	healthy := true

	if h.db == nil || h.db.Ping(ctx) != nil {
		components["database"] = componentDown
		healthy = false
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			if errors.Is(err, cache.ErrUnavailable) {
				components["cache"] = componentBypass
			} else {
				components["cache"] = componentDown
			}
		}
	}

	if !healthy {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", components, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, components)
}
