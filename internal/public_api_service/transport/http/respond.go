package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/public_api_service/middleware"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

// mapDomainErrorToHTTPStatus converts core_domain error kinds to HTTP status codes.
func mapDomainErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, core_domain.ErrInvalidInput),
		errors.Is(err, core_domain.ErrBrandNotRegistered),
		errors.Is(err, core_domain.ErrBrandNotApproved),
		errors.Is(err, core_domain.ErrMissingRequestID):
		return http.StatusBadRequest
	case errors.Is(err, core_domain.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, core_domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core_domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core_domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core_domain.ErrRemoteCallFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError writes err using its kind's status. Server errors are logged and
// answered with fallback so internal detail does not leak.
func respondWithDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	code := mapDomainErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "error", err)
		respondWithError(w, code, fallback)
		return
	}
	logger.InfoContext(r.Context(), "Request rejected", "status", code, "error", err)
	respondWithError(w, code, core_domain.UserMessage(err, fallback))
}

// requestLogger tags the handler logger with chi's request id.
func requestLogger(r *http.Request, logger *slog.Logger) *slog.Logger {
	return logger.With("request_id", chi_middleware.GetReqID(r.Context()))
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// On failure the response has already been written and false is returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, logger *slog.Logger, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WarnContext(r.Context(), "Failed to decode request JSON", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if err := validate.StructCtx(r.Context(), dst); err != nil {
		logger.WarnContext(r.Context(), "Request validation failed", "error", err)
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// authUser returns the session principal. Routes are mounted behind AuthMiddleware,
// so a missing user is a wiring bug.
func authUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (middleware.AuthenticatedUser, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		logger.ErrorContext(r.Context(), "AuthenticatedUser not found in context")
		respondWithError(w, http.StatusUnauthorized, "No token provided")
	}
	return u, ok
}
