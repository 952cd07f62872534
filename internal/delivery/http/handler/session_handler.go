package handler

import (
	"context"
	"errors"

	"profile-sync/internal/delivery/http/dto"
	"profile-sync/internal/delivery/http/middleware"
	"profile-sync/internal/domain/profile"
	"profile-sync/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// IdentityStore is where sign-in leaves the identity for the next cold start.
type IdentityStore interface {
	RememberIdentity(ctx context.Context, id profile.UserID) error
	ForgetIdentity(ctx context.Context) error
}

type SessionHandler struct {
	store IdentityStore
}

func NewSessionHandler(store IdentityStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// RegisterRoutes expects r to sit behind the auth middleware.
func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Remember)
	r.Delete("/", h.Forget)
}

func (h *SessionHandler) Remember(c fiber.Ctx) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.store.RememberIdentity(c.Context(), id); err != nil {
		if errors.Is(err, profile.ErrEmptyOwner) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
		}
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SessionResponse{UserID: id.String()})
}

func (h *SessionHandler) Forget(c fiber.Ctx) error {
	if _, ok := middleware.UserID(c); !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	if err := h.store.ForgetIdentity(c.Context()); err != nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
