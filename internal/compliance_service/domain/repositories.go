package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthsms/golang_services/internal/core_domain"
)

// OrganizationRepository persists the compliance columns of an organization.
// GetByID returns core_domain.ErrNotFound for unknown ids.
type OrganizationRepository interface {
	GetByID(ctx context.Context, orgID uuid.UUID) (*Organization, error)
	SaveBusinessInfo(ctx context.Context, orgID uuid.UUID, info BusinessInfo) error
	SetBrandRegistration(ctx context.Context, orgID uuid.UUID, trustProfileID, brandRegistrationID, brandStatus string) error
	SetBrandStatus(ctx context.Context, orgID uuid.UUID, status string) error
	// SetMessagingServiceIfAbsent stores serviceID only when none is stored yet and
	// returns whichever id is stored afterwards.
	SetMessagingServiceIfAbsent(ctx context.Context, orgID uuid.UUID, serviceID string) (string, error)
	SetCampaign(ctx context.Context, orgID uuid.UUID, campaignID, campaignStatus string) error
	SetCampaignStatus(ctx context.Context, orgID uuid.UUID, status string) error
}

// NumberRepository is the slice of phone-number storage campaign registration needs.
type NumberRepository interface {
	ListWithProviderID(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error)
	SetA2PStatusByProviderID(ctx context.Context, orgID uuid.UUID, providerNumberID string, status core_domain.A2PStatus) error
	PromoteA2PStatus(ctx context.Context, orgID uuid.UUID, from, to core_domain.A2PStatus) (int64, error)
}
