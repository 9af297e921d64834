package http

import (
	"strings"

	"github.com/google/uuid"

	numberdomain "github.com/healthsms/golang_services/internal/number_service/domain"
)

// AuthorizeNumberRequestDTO adds a number to the approved forwarding list.
type AuthorizeNumberRequestDTO struct {
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
	Label       string `json:"label" validate:"max=100"`
}

// CallSettingsRequestDTO sets how inbound calls to a number are handled.
type CallSettingsRequestDTO struct {
	CallMode               string  `json:"callMode" validate:"omitempty,max=32"`
	AuthorizedNumberID     *string `json:"authorizedNumberId"`
	CallForwardTo          string  `json:"callForwardTo" validate:"max=32"`
	AutoAuthorizeIfMissing bool    `json:"autoAuthorizeIfMissing"`
}

func (d CallSettingsRequestDTO) toForwardingRequest() (numberdomain.ForwardingRequest, error) {
	req := numberdomain.ForwardingRequest{
		CallMode:               d.CallMode,
		CallForwardTo:          d.CallForwardTo,
		AutoAuthorizeIfMissing: d.AutoAuthorizeIfMissing,
	}
	// voicemail wins over any id, malformed or not
	if strings.EqualFold(strings.TrimSpace(d.CallMode), numberdomain.CallModeVoicemail) {
		return req, nil
	}
	if d.AuthorizedNumberID != nil && *d.AuthorizedNumberID != "" {
		id, err := uuid.Parse(*d.AuthorizedNumberID)
		if err != nil {
			return req, err
		}
		req.AuthorizedNumberID = &id
	}
	return req, nil
}

// PurchaseNumberRequestDTO claims an available number for the org.
type PurchaseNumberRequestDTO struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,max=32"`
	Label       string `json:"label" validate:"max=100"`
}

// AvailableNumberResponseDTO is one purchasable number.
type AvailableNumberResponseDTO struct {
	PhoneNumber  string `json:"phoneNumber"`
	FriendlyName string `json:"friendlyName"`
	Locality     string `json:"locality"`
	Region       string `json:"region"`
}
