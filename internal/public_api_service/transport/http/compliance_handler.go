package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	complianceapp "github.com/healthsms/golang_services/internal/compliance_service/app"
	compliancedomain "github.com/healthsms/golang_services/internal/compliance_service/domain"
)

// BrandRegistrar is satisfied by complianceapp.BrandRegistrationManager.
type BrandRegistrar interface {
	RegisterBrand(ctx context.Context, orgID uuid.UUID, requesterEmail string, info compliancedomain.BusinessInfo) (*complianceapp.BrandRegistrationResult, error)
}

// CampaignRegistrar is satisfied by complianceapp.CampaignRegistrationManager.
type CampaignRegistrar interface {
	RegisterCampaign(ctx context.Context, orgID uuid.UUID, description, useCase string) (*complianceapp.CampaignRegistrationResult, error)
}

// ComplianceStatusReader is satisfied by complianceapp.StatusReconciliationService.
type ComplianceStatusReader interface {
	Status(ctx context.Context, orgID uuid.UUID) (*complianceapp.ComplianceStatus, error)
	Refresh(ctx context.Context, orgID uuid.UUID) (*complianceapp.ComplianceStatusSnapshot, error)
}

// ComplianceHandler serves brand and campaign registration and status.
type ComplianceHandler struct {
	brands    BrandRegistrar
	campaigns CampaignRegistrar
	status    ComplianceStatusReader
	logger    *slog.Logger
	validate  *validator.Validate
}

func NewComplianceHandler(brands BrandRegistrar, campaigns CampaignRegistrar, status ComplianceStatusReader, logger *slog.Logger, validate *validator.Validate) *ComplianceHandler {
	return &ComplianceHandler{
		brands:    brands,
		campaigns: campaigns,
		status:    status,
		logger:    logger.With("handler", "compliance"),
		validate:  validate,
	}
}

// RegisterRoutes mounts the handler under /compliance.
func (h *ComplianceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.GetStatus)
	r.Post("/brand", h.RegisterBrand)
	r.Post("/campaign", h.RegisterCampaign)
	r.Post("/refresh", h.Refresh)
}

func (h *ComplianceHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	status, err := h.status.Status(r.Context(), user.OrgID)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to fetch compliance status")
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

func (h *ComplianceHandler) RegisterBrand(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	var req RegisterBrandRequestDTO
	if !decodeAndValidate(w, r, h.validate, logger, &req) {
		return
	}

	result, err := h.brands.RegisterBrand(r.Context(), user.OrgID, user.Email, req.toBusinessInfo())
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Brand registration failed")
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

func (h *ComplianceHandler) RegisterCampaign(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	var req RegisterCampaignRequestDTO
	if !decodeAndValidate(w, r, h.validate, logger, &req) {
		return
	}

	result, err := h.campaigns.RegisterCampaign(r.Context(), user.OrgID, req.Description, req.UseCase)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Campaign registration failed")
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

func (h *ComplianceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger)
	user, ok := authUser(w, r, logger)
	if !ok {
		return
	}

	snapshot, err := h.status.Refresh(r.Context(), user.OrgID)
	if err != nil {
		respondWithDomainError(w, r, logger, err, "Failed to refresh status")
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}
