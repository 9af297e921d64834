package http

import (
	portingdomain "github.com/healthsms/golang_services/internal/porting_service/domain"
)

// SubmitPortRequestDTO defines the body of a port-in request.
type SubmitPortRequestDTO struct {
	PhoneNumber     string `json:"phoneNumber" validate:"max=32"`
	LosingCarrier   string `json:"losingCarrier" validate:"max=255"`
	CustomerType    string `json:"customerType" validate:"omitempty,oneof=Business Residential"`
	CustomerName    string `json:"customerName" validate:"max=255"`
	AccountNumber   string `json:"accountNumber" validate:"max=64"`
	AuthorizedName  string `json:"authorizedName" validate:"max=255"`
	AuthorizedEmail string `json:"authorizedEmail" validate:"omitempty,email"`
	AuthorizedPhone string `json:"authorizedPhone" validate:"max=32"`
	Street          string `json:"street" validate:"max=255"`
	City            string `json:"city" validate:"max=100"`
	State           string `json:"state" validate:"max=50"`
	Zip             string `json:"zip" validate:"max=20"`
}

func (d SubmitPortRequestDTO) toFields() portingdomain.PortRequestFields {
	return portingdomain.PortRequestFields{
		PhoneNumber:     d.PhoneNumber,
		LosingCarrier:   d.LosingCarrier,
		CustomerType:    d.CustomerType,
		CustomerName:    d.CustomerName,
		AccountNumber:   d.AccountNumber,
		AuthorizedName:  d.AuthorizedName,
		AuthorizedEmail: d.AuthorizedEmail,
		AuthorizedPhone: d.AuthorizedPhone,
		Street:          d.Street,
		City:            d.City,
		State:           d.State,
		Zip:             d.Zip,
	}
}

// PortStatusWebhookDTO is the provider's port status callback.
type PortStatusWebhookDTO struct {
	PortRequestSid string `json:"PortRequestSid"`
	Status         string `json:"Status"`
	StatusDetails  string `json:"StatusDetails"`
}
