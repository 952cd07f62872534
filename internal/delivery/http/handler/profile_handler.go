package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"profile-sync/internal/delivery/http/dto"
	"profile-sync/internal/delivery/http/middleware"
	"profile-sync/internal/pkg/response"
	"profile-sync/internal/usecase/profilesync"

	"github.com/gofiber/fiber/v3"
)

// ProfileController is the part of the sync controller the view drives.
type ProfileController interface {
	Snapshot(ctx context.Context) (profilesync.Snapshot, error)
	Focus(ctx context.Context, newProfileCreated bool) error
	RequestDelete(ctx context.Context, profileID string) error
	ConfirmDelete(ctx context.Context) error
	CancelDelete(ctx context.Context) error
	OpenProfile(ctx context.Context, profileID string) error
	StartCreateProfile(ctx context.Context) error
}

type ProfileHandler struct {
	ctrl ProfileController
}

func NewProfileHandler(ctrl ProfileController) *ProfileHandler {
	return &ProfileHandler{ctrl: ctrl}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/focus", h.Focus)
	r.Post("/new", h.StartCreate)
	r.Post("/deletion/confirm", h.ConfirmDelete)
	r.Post("/deletion/cancel", h.CancelDelete)
	r.Delete("/:id", h.RequestDelete)
	r.Post("/:id/open", h.Open)
}

// authorize admits the caller only when the bearer identity is the one the
// controller is bound to. Until an identity is adopted nobody is admitted.
func (h *ProfileHandler) authorize(c fiber.Ctx) (profilesync.Snapshot, error) {
	caller, ok := middleware.UserID(c)
	if !ok {
		return profilesync.Snapshot{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	s, err := h.ctrl.Snapshot(c.Context())
	if err != nil {
		return profilesync.Snapshot{}, mapSyncError(err)
	}
	if s.Identity != caller {
		return profilesync.Snapshot{}, middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, nil)
	}
	return s, nil
}

func (h *ProfileHandler) List(c fiber.Ctx) error {
	s, err := h.authorize(c)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileListResponse(s))
}

// Focus is the re-entry signal from the routing host.
func (h *ProfileHandler) Focus(c fiber.Ctx) error {
	if _, err := h.authorize(c); err != nil {
		return err
	}
	created := false
	if raw := strings.TrimSpace(c.Query("newProfileCreated")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid newProfileCreated", nil, err)
		}
		created = v
	}

	if err := h.ctrl.Focus(c.Context(), created); err != nil {
		return mapSyncError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"reloading": created})
}

func (h *ProfileHandler) RequestDelete(c fiber.Ctx) error {
	if _, err := h.authorize(c); err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}
	if err := h.ctrl.RequestDelete(c.Context(), id); err != nil {
		return mapSyncError(err)
	}
	return response.Accepted(c, fiber.Map{"mutation": profilesync.StateConfirmationPending, "pending_id": id})
}

func (h *ProfileHandler) ConfirmDelete(c fiber.Ctx) error {
	if _, err := h.authorize(c); err != nil {
		return err
	}
	if err := h.ctrl.ConfirmDelete(c.Context()); err != nil {
		return mapSyncError(err)
	}
	return response.Accepted(c, fiber.Map{"mutation": profilesync.StateDeleting})
}

func (h *ProfileHandler) CancelDelete(c fiber.Ctx) error {
	if _, err := h.authorize(c); err != nil {
		return err
	}
	if err := h.ctrl.CancelDelete(c.Context()); err != nil {
		return mapSyncError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"mutation": profilesync.StateIdle})
}

func (h *ProfileHandler) Open(c fiber.Ctx) error {
	if _, err := h.authorize(c); err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}
	if err := h.ctrl.OpenProfile(c.Context(), id); err != nil {
		return mapSyncError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *ProfileHandler) StartCreate(c fiber.Ctx) error {
	if _, err := h.authorize(c); err != nil {
		return err
	}
	if err := h.ctrl.StartCreateProfile(c.Context()); err != nil {
		return mapSyncError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func profileIDParam(c fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return "", middleware.NewAppError(fiber.StatusBadRequest, "Invalid profile id", nil, nil)
	}
	return id, nil
}

func mapSyncError(err error) error {
	switch {
	case errors.Is(err, profilesync.ErrUnknownProfile):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, profilesync.ErrMutationInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "A profile deletion is already in progress", nil, err)
	case errors.Is(err, profilesync.ErrNoPendingConfirmation):
		return middleware.NewAppError(fiber.StatusConflict, "No deletion awaiting confirmation", nil, err)
	case errors.Is(err, profilesync.ErrClosed), errors.Is(err, profilesync.ErrNotStarted):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
