package provider

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/healthsms/golang_services/internal/core_domain"
)

// notFoundCode is the provider's own "resource not found" error code.
const notFoundCode = 20404

// APIError is a non-2xx reply from the provider.
type APIError struct {
	Provider   string `json:"-"`
	Operation  string `json:"-"`
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	MoreInfo   string `json:"more_info"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed: status %d, code %d: %s", e.Provider, e.Operation, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s failed: status %d", e.Provider, e.Operation, e.StatusCode)
}

// Unwrap lets callers match every provider reply as a failed remote call.
func (e *APIError) Unwrap() error {
	return core_domain.ErrRemoteCallFailed
}

// IsNotFound reports whether err is the provider saying the resource (or API) does not exist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == notFoundCode
	}
	return false
}
