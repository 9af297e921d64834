package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthsms/golang_services/internal/compliance_service/domain"
	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/messagebroker"
	"github.com/healthsms/golang_services/internal/provider"
)

const (
	msgBrandApproved  = "Brand approved! You can now register a campaign."
	msgBrandSubmitted = "Brand registration submitted. Review usually takes 1-2 weeks."
	msgBrandRetry     = "Brand registration saved, but it could not be submitted to the carrier yet. You can retry the registration."
)

// BrandRegistrationResult is returned to the caller of RegisterBrand.
type BrandRegistrationResult struct {
	BrandSID    *string `json:"brandSid"`
	BrandStatus string  `json:"brandStatus"`
	Message     string  `json:"message"`
}

// BrandRegistrationManager runs the multi-step business-identity and brand registration.
type BrandRegistrationManager struct {
	orgRepo      domain.OrganizationRepository
	gateway      provider.Gateway
	events       *messagebroker.EventPublisher
	logger       *slog.Logger
	policySID    string
	defaultEmail string
}

func NewBrandRegistrationManager(
	orgRepo domain.OrganizationRepository,
	gateway provider.Gateway,
	events *messagebroker.EventPublisher,
	logger *slog.Logger,
	policySID string,
	defaultEmail string,
) *BrandRegistrationManager {
	return &BrandRegistrationManager{
		orgRepo:      orgRepo,
		gateway:      gateway,
		events:       events,
		logger:       logger.With("component", "brand_registration"),
		policySID:    policySID,
		defaultEmail: defaultEmail,
	}
}

// RegisterBrand persists the business info, then walks the provider steps.
// Provider failures never surface: the org is marked PENDING and the caller may retry.
func (m *BrandRegistrationManager) RegisterBrand(ctx context.Context, orgID uuid.UUID, requesterEmail string, info domain.BusinessInfo) (*BrandRegistrationResult, error) {
	if !provider.IsAvailable(m.gateway) {
		return nil, core_domain.NewError(core_domain.ErrProviderUnavailable, "Twilio not configured.")
	}

	info.LegalName = strings.TrimSpace(info.LegalName)
	info.TaxID = strings.TrimSpace(info.TaxID)
	if info.LegalName == "" || info.TaxID == "" {
		return nil, core_domain.InvalidInput("Business name and EIN are required")
	}
	if info.BrandType == "" {
		info.BrandType = domain.BrandTypeSoleProprietor
	}
	if !info.BrandType.Valid() {
		return nil, core_domain.InvalidInput("brandType must be SOLE_PROPRIETOR or STANDARD")
	}

	if err := m.orgRepo.SaveBusinessInfo(ctx, orgID, info); err != nil {
		return nil, fmt.Errorf("saving business info for org %s: %w", orgID, err)
	}

	email := requesterEmail
	if email == "" {
		email = m.defaultEmail
	}

	profileID, brand, step, err := m.submitToProvider(ctx, info, email)
	if err != nil {
		m.logger.ErrorContext(ctx, "Brand registration with provider failed; marking pending",
			"org_id", orgID,
			"step", step,
			"error", err,
		)
		if err := m.orgRepo.SetBrandStatus(ctx, orgID, domain.StatusPending); err != nil {
			return nil, fmt.Errorf("marking brand pending for org %s: %w", orgID, err)
		}
		brandRegistrationsCounter.WithLabelValues("degraded").Inc()
		m.events.PublishEvent(ctx, domain.SubjectBrandSubmitted, domain.BrandSubmittedEvent{
			OrgID:       orgID,
			BrandStatus: domain.StatusPending,
			Degraded:    true,
			OccurredAt:  time.Now().UTC(),
		})
		return &BrandRegistrationResult{
			BrandStatus: domain.StatusPending,
			Message:     msgBrandRetry,
		}, nil
	}

	status := brand.Status
	if status == "" {
		status = domain.StatusPending
	}
	if err := m.orgRepo.SetBrandRegistration(ctx, orgID, profileID, brand.ID, status); err != nil {
		return nil, fmt.Errorf("saving brand registration for org %s: %w", orgID, err)
	}

	m.logger.InfoContext(ctx, "Brand registration submitted",
		"org_id", orgID,
		"brand_registration_sid", brand.ID,
		"brand_status", status,
	)
	brandRegistrationsCounter.WithLabelValues("submitted").Inc()
	m.events.PublishEvent(ctx, domain.SubjectBrandSubmitted, domain.BrandSubmittedEvent{
		OrgID:               orgID,
		BrandRegistrationID: brand.ID,
		BrandStatus:         status,
		OccurredAt:          time.Now().UTC(),
	})

	msg := msgBrandSubmitted
	if status == domain.StatusApproved {
		msg = msgBrandApproved
	}
	brandID := brand.ID
	return &BrandRegistrationResult{BrandSID: &brandID, BrandStatus: status, Message: msg}, nil
}

// submitToProvider runs the five provider steps in order and reports which one failed.
func (m *BrandRegistrationManager) submitToProvider(ctx context.Context, info domain.BusinessInfo, email string) (string, *provider.BrandRegistration, string, error) {
	profile, err := m.gateway.CreateCustomerProfile(ctx, provider.CustomerProfileRequest{
		FriendlyName: info.LegalName + " - Health SMS",
		Email:        email,
		PolicyID:     m.policySID,
	})
	if err != nil {
		return "", nil, "create_customer_profile", err
	}

	endUser, err := m.gateway.CreateEndUser(ctx, provider.EndUserRequest{
		FriendlyName: info.LegalName,
		Type:         "customer_profile_business_information",
		Attributes: map[string]string{
			"business_name":                    info.LegalName,
			"business_identity":                "direct_customer",
			"business_type":                    info.BrandType.BusinessType(),
			"business_registration_number":     info.TaxID,
			"business_registration_identifier": "EIN",
			"business_regions_of_operation":    "USA_AND_CANADA",
			"social_media_profile_urls":        "",
			"website_url":                      "",
		},
	})
	if err != nil {
		return "", nil, "create_end_user", err
	}

	if err := m.gateway.AttachEntityToProfile(ctx, profile.ID, endUser.ID); err != nil {
		return "", nil, "attach_entity", err
	}

	if err := m.gateway.SubmitProfileForReview(ctx, profile.ID); err != nil {
		return "", nil, "submit_profile", err
	}

	brand, err := m.gateway.CreateBrandRegistration(ctx, provider.BrandRegistrationRequest{
		CustomerProfileID: profile.ID,
		BrandType:         string(info.BrandType),
	})
	if err != nil {
		return "", nil, "create_brand_registration", err
	}
	return profile.ID, brand, "", nil
}
