package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/healthsms/golang_services/internal/core_domain"
	numberdomain "github.com/healthsms/golang_services/internal/number_service/domain"
	"github.com/healthsms/golang_services/internal/provider"
)

// NumberService is satisfied by numberapp.NumberService.
type NumberService interface {
	ListNumbers(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error)
	UpdateCallSettings(ctx context.Context, orgID, userID, phoneNumberID uuid.UUID, req numberdomain.ForwardingRequest) (*core_domain.PhoneNumber, error)
	SearchAvailable(ctx context.Context, areaCode, contains string) ([]provider.AvailableNumber, error)
	Purchase(ctx context.Context, orgID uuid.UUID, rawNumber, label string) (*core_domain.PhoneNumber, error)
}

// PhoneNumberHandler serves the org's phone numbers and their call settings.
type PhoneNumberHandler struct {
	numbers  NumberService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewPhoneNumberHandler(numbers NumberService, logger *slog.Logger, validate *validator.Validate) *PhoneNumberHandler {
	return &PhoneNumberHandler{
		numbers:  numbers,
		logger:   logger.With("handler", "phone_numbers"),
		validate: validate,
	}
}

// RegisterRoutes mounts the handler under /phone-numbers.
func (h *PhoneNumberHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/available", h.SearchAvailable)
	r.Post("/purchase", h.Purchase)
	r.Put("/{phoneNumberID}/call-settings", h.UpdateCallSettings)
}

func (h *PhoneNumberHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	numbers, err := h.numbers.ListNumbers(r.Context(), user.OrgID)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Error fetching phone numbers")
		return
	}
	if numbers == nil {
		numbers = []core_domain.PhoneNumber{}
	}
	respondWithJSON(w, http.StatusOK, numbers)
}

func (h *PhoneNumberHandler) UpdateCallSettings(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	phoneNumberID, err := uuid.Parse(chi.URLParam(r, "phoneNumberID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid phone number ID format")
		return
	}

	var req CallSettingsRequestDTO
	if !decodeAndValidate(w, r, h.validate, logger, &req) {
		return
	}
	fwd, err := req.toForwardingRequest()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid authorized number ID format")
		return
	}

	updated, err := h.numbers.UpdateCallSettings(r.Context(), user.OrgID, user.UserID, phoneNumberID, fwd)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to update call settings")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *PhoneNumberHandler) SearchAvailable(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	if _, ok := authUser(w, r, logger); !ok {
		return
	}

	q := r.URL.Query()
	found, err := h.numbers.SearchAvailable(r.Context(), q.Get("areaCode"), q.Get("contains"))
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to search available numbers")
		return
	}

	resp := make([]AvailableNumberResponseDTO, 0, len(found))
	for _, n := range found {
		resp = append(resp, AvailableNumberResponseDTO{
			PhoneNumber:  n.PhoneNumber,
			FriendlyName: n.FriendlyName,
			Locality:     n.Locality,
			Region:       n.Region,
		})
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *PhoneNumberHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	var req PurchaseNumberRequestDTO
	if !decodeAndValidate(w, r, h.validate, logger, &req) {
		return
	}

	n, err := h.numbers.Purchase(r.Context(), user.OrgID, req.PhoneNumber, req.Label)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to purchase number")
		return
	}
	respondWithJSON(w, http.StatusCreated, n)
}
