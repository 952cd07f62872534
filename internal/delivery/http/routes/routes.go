package routes

import (
	"net/http"

	"profile-sync/internal/delivery/http/handler"
	"profile-sync/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// Registry holds every handler the server exposes. Nil handlers are skipped.
type Registry struct {
	Health   *handler.HealthHandler
	Profiles *handler.ProfileHandler
	Session  *handler.SessionHandler
	Auth     *middleware.AuthMiddleware
	ViewWS   fiber.Handler
	Metrics  http.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}
	if r.ViewWS != nil {
		app.Get("/ws", r.ViewWS)
	}

	r.registerV1(app.Group("/api/v1"))
}

// registerV1 mounts the user-scoped routes. Without an auth middleware they
// are not mounted at all.
func (r *Registry) registerV1(v1 fiber.Router) {
	if r.Auth == nil {
		return
	}
	protected := v1.Group("", r.Auth.Middleware())

	if r.Profiles != nil {
		r.Profiles.RegisterRoutes(protected.Group("/profiles"))
	}
	if r.Session != nil {
		r.Session.RegisterRoutes(protected.Group("/session"))
	}
}
