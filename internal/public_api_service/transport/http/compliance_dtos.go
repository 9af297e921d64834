package http

import (
	compliancedomain "github.com/healthsms/golang_services/internal/compliance_service/domain"
)

// RegisterBrandRequestDTO defines the body for registering the org's brand.
// Required fields are checked by the service so the caller gets its message.
type RegisterBrandRequestDTO struct {
	LegalName string `json:"legalName" validate:"max=255"`
	EIN       string `json:"ein" validate:"max=32"`
	Address   string `json:"address" validate:"max=255"`
	City      string `json:"city" validate:"max=100"`
	State     string `json:"state" validate:"max=50"`
	Zip       string `json:"zip" validate:"max=20"`
	BrandType string `json:"brandType" validate:"omitempty,oneof=SOLE_PROPRIETOR STANDARD"`
}

func (d RegisterBrandRequestDTO) toBusinessInfo() compliancedomain.BusinessInfo {
	return compliancedomain.BusinessInfo{
		LegalName: d.LegalName,
		TaxID:     d.EIN,
		Address: compliancedomain.Address{
			Street: d.Address,
			City:   d.City,
			State:  d.State,
			Zip:    d.Zip,
		},
		BrandType: compliancedomain.BrandType(d.BrandType),
	}
}

// RegisterCampaignRequestDTO defines the body for registering a campaign. Both fields are optional.
type RegisterCampaignRequestDTO struct {
	Description string `json:"description" validate:"max=1024"`
	UseCase     string `json:"useCase" validate:"max=64"`
}
