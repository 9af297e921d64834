package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	portingapp "github.com/healthsms/golang_services/internal/porting_service/app"
	portingdomain "github.com/healthsms/golang_services/internal/porting_service/domain"
)

// PortRequestService is satisfied by portingapp.PortRequestOrchestrator.
type PortRequestService interface {
	CheckPortability(ctx context.Context, rawNumber string) (*portingdomain.PortabilityResult, error)
	SubmitPortRequest(ctx context.Context, orgID, userID uuid.UUID, fields portingdomain.PortRequestFields) (*portingdomain.PortRequest, error)
	ListPortRequests(ctx context.Context, orgID uuid.UUID) ([]portingdomain.PortRequest, error)
	RefreshPortRequest(ctx context.Context, orgID, id uuid.UUID) (*portingdomain.PortRequest, error)
}

// PortStatusIngester is satisfied by portingapp.PortStatusIngestor.
type PortStatusIngester interface {
	IngestPortStatus(ctx context.Context, providerRequestID, vendorStatus, vendorDetail string) (*portingapp.IngestResult, error)
}

// PortingHandler serves portability checks, port-in requests and the provider status webhook.
type PortingHandler struct {
	ports    PortRequestService
	ingestor PortStatusIngester
	logger   *slog.Logger
	validate *validator.Validate
}

func NewPortingHandler(ports PortRequestService, ingestor PortStatusIngester, logger *slog.Logger, validate *validator.Validate) *PortingHandler {
	return &PortingHandler{
		ports:    ports,
		ingestor: ingestor,
		logger:   logger.With("handler", "porting"),
		validate: validate,
	}
}

// RegisterRoutes mounts the session-authenticated routes under /porting.
// The webhook is mounted separately since the provider carries no session.
func (h *PortingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/check", h.CheckPortability)
	r.Post("/request", h.SubmitPortRequest)
	r.Get("/requests", h.ListPortRequests)
	r.Post("/requests/{portRequestID}/refresh", h.RefreshPortRequest)
}

func (h *PortingHandler) CheckPortability(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	if _, ok := authUser(w, r, logger); !ok {
		return
	}

	result, err := h.ports.CheckPortability(r.Context(), r.URL.Query().Get("phoneNumber"))
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Could not check portability. Try again later.")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *PortingHandler) SubmitPortRequest(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	var req SubmitPortRequestDTO
	if !decodeAndValidate(w, r, h.validate, logger, &req) {
		return
	}

	pr, err := h.ports.SubmitPortRequest(r.Context(), user.OrgID, user.UserID, req.toFields())
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to submit port request")
		return
	}
	respondWithJSON(w, http.StatusCreated, pr)
}

func (h *PortingHandler) ListPortRequests(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	requests, err := h.ports.ListPortRequests(r.Context(), user.OrgID)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to fetch port requests")
		return
	}
	if requests == nil {
		requests = []portingdomain.PortRequest{}
	}
	respondWithJSON(w, http.StatusOK, requests)
}

func (h *PortingHandler) RefreshPortRequest(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "portRequestID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid port request ID format")
		return
	}

	pr, err := h.ports.RefreshPortRequest(r.Context(), user.OrgID, id)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to refresh port request")
		return
	}
	respondWithJSON(w, http.StatusOK, pr)
}

// HandleStatusWebhook applies a provider port status callback. The provider posts a form;
// JSON bodies are accepted as well. Unknown statuses and unmatched ids still answer ok.
func (h *PortingHandler) HandleStatusWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := requestLogger(r, h.logger)

	var payload PortStatusWebhookDTO
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.WarnContext(ctx, "Failed to decode port webhook JSON", "error", err)
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "Failed to parse port webhook form", "error", err)
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		payload = PortStatusWebhookDTO{
			PortRequestSid: r.PostForm.Get("PortRequestSid"),
			Status:         r.PostForm.Get("Status"),
			StatusDetails:  r.PostForm.Get("StatusDetails"),
		}
	}

	result, err := h.ingestor.IngestPortStatus(ctx, payload.PortRequestSid, payload.Status, payload.StatusDetails)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Webhook processing failed")
		return
	}
	logger.InfoContext(ctx, "Port status webhook processed",
		"port_request_sid", payload.PortRequestSid,
		"status", result.Status,
		"matched", result.Matched,
	)
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
