package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	numberdomain "github.com/healthsms/golang_services/internal/number_service/domain"
)

// ForwardingRegistry is satisfied by numberapp.ForwardingRegistry.
type ForwardingRegistry interface {
	Authorize(ctx context.Context, orgID, userID uuid.UUID, rawNumber, label string) (*numberdomain.AuthorizedForwardNumber, error)
	List(ctx context.Context, orgID uuid.UUID) ([]numberdomain.AuthorizedForwardNumber, error)
	Disable(ctx context.Context, orgID, id uuid.UUID) error
}

// AuthorizedNumberHandler manages the org's approved call-forwarding destinations.
type AuthorizedNumberHandler struct {
	registry ForwardingRegistry
	logger   *slog.Logger
	validate *validator.Validate
}

func NewAuthorizedNumberHandler(registry ForwardingRegistry, logger *slog.Logger, validate *validator.Validate) *AuthorizedNumberHandler {
	return &AuthorizedNumberHandler{
		registry: registry,
		logger:   logger.With("handler", "authorized_forward_numbers"),
		validate: validate,
	}
}

// RegisterRoutes mounts the handler under /authorized-forward-numbers.
func (h *AuthorizedNumberHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Authorize)
	r.Delete("/{authorizedNumberID}", h.Disable)
}

func (h *AuthorizedNumberHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	numbers, err := h.registry.List(r.Context(), user.OrgID)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to fetch authorized numbers")
		return
	}
	if numbers == nil {
		numbers = []numberdomain.AuthorizedForwardNumber{}
	}
	respondWithJSON(w, http.StatusOK, numbers)
}

func (h *AuthorizedNumberHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	var req AuthorizeNumberRequestDTO
	if !decodeAndValidate(w, r, h.validate, logger, &req) {
		return
	}

	n, err := h.registry.Authorize(r.Context(), user.OrgID, user.UserID, req.PhoneNumber, req.Label)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to authorize number")
		return
	}
	respondWithJSON(w, http.StatusCreated, n)
}

func (h *AuthorizedNumberHandler) Disable(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "authorizedNumberID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid authorized number ID format")
		return
	}

	if err := h.registry.Disable(r.Context(), user.OrgID, id); err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to disable authorized number")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
