package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/healthsms/golang_services/internal/compliance_service/domain"
	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/messagebroker"
	"github.com/healthsms/golang_services/internal/provider"
)

// ComplianceStatus is the locally stored compliance state of an org.
type ComplianceStatus struct {
	LegalName            *string `json:"legalName"`
	EIN                  *string `json:"ein"`
	BrandType            *string `json:"brandType"`
	BrandRegistrationSID *string `json:"brandRegistrationSid"`
	BrandStatus          string  `json:"brandStatus"`
	CampaignSID          *string `json:"campaignSid"`
	CampaignStatus       string  `json:"campaignStatus"`
	MessagingServiceSID  *string `json:"messagingServiceSid"`
	HasRegistration      bool    `json:"hasRegistration"`
}

// ComplianceStatusSnapshot is the (brand, campaign) pair after a refresh.
type ComplianceStatusSnapshot struct {
	BrandStatus    string `json:"brandStatus"`
	CampaignStatus string `json:"campaignStatus"`
}

// campaignLiveStatuses are provider campaign statuses under which numbers may send.
var campaignLiveStatuses = map[string]bool{
	domain.StatusApproved: true,
	"VERIFIED":            true,
}

// StatusReconciliationService pulls brand and campaign status from the provider.
type StatusReconciliationService struct {
	orgRepo    domain.OrganizationRepository
	numberRepo domain.NumberRepository
	gateway    provider.Gateway
	events     *messagebroker.EventPublisher
	logger     *slog.Logger
}

func NewStatusReconciliationService(
	orgRepo domain.OrganizationRepository,
	numberRepo domain.NumberRepository,
	gateway provider.Gateway,
	events *messagebroker.EventPublisher,
	logger *slog.Logger,
) *StatusReconciliationService {
	return &StatusReconciliationService{
		orgRepo:    orgRepo,
		numberRepo: numberRepo,
		gateway:    gateway,
		events:     events,
		logger:     logger.With("component", "status_reconciliation"),
	}
}

func (s *StatusReconciliationService) loadOrg(ctx context.Context, orgID uuid.UUID) (*domain.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, core_domain.ErrNotFound) {
			return nil, core_domain.NewError(core_domain.ErrNotFound, "Organization not found")
		}
		return nil, fmt.Errorf("loading org %s: %w", orgID, err)
	}
	return org, nil
}

// Status reads the stored compliance state without calling the provider.
func (s *StatusReconciliationService) Status(ctx context.Context, orgID uuid.UUID) (*ComplianceStatus, error) {
	org, err := s.loadOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &ComplianceStatus{
		LegalName:            org.LegalName,
		EIN:                  org.TaxID,
		BrandType:            org.BrandType,
		BrandRegistrationSID: org.BrandRegistrationID,
		BrandStatus:          org.BrandStatus,
		CampaignSID:          org.CampaignID,
		CampaignStatus:       org.CampaignStatus,
		MessagingServiceSID:  org.MessagingServiceID,
		HasRegistration:      org.HasRegistration(),
	}, nil
}

// Refresh overwrites the stored statuses with the provider's current values.
// Each half fails open: on a provider error the stored value is kept and returned.
func (s *StatusReconciliationService) Refresh(ctx context.Context, orgID uuid.UUID) (*ComplianceStatusSnapshot, error) {
	if !provider.IsAvailable(s.gateway) {
		return nil, core_domain.NewError(core_domain.ErrProviderUnavailable, "Twilio not configured.")
	}

	org, err := s.loadOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	snapshot := &ComplianceStatusSnapshot{BrandStatus: org.BrandStatus, CampaignStatus: org.CampaignStatus}
	changed := false

	if org.BrandRegistrationID != nil && *org.BrandRegistrationID != "" {
		brand, err := s.gateway.FetchBrandRegistration(ctx, *org.BrandRegistrationID)
		switch {
		case err != nil:
			statusRefreshCounter.WithLabelValues("brand", "provider_error").Inc()
			s.logger.WarnContext(ctx, "Brand status refresh failed", "org_id", orgID, "error", err)
		case brand.Status == "":
			statusRefreshCounter.WithLabelValues("brand", "empty").Inc()
		default:
			if err := s.orgRepo.SetBrandStatus(ctx, orgID, brand.Status); err != nil {
				return nil, fmt.Errorf("saving brand status for org %s: %w", orgID, err)
			}
			statusRefreshCounter.WithLabelValues("brand", "updated").Inc()
			changed = changed || brand.Status != snapshot.BrandStatus
			snapshot.BrandStatus = brand.Status
		}
	}

	if org.CampaignID != nil && *org.CampaignID != "" && org.MessagingServiceID != nil && *org.MessagingServiceID != "" {
		campaigns, err := s.gateway.ListCampaigns(ctx, *org.MessagingServiceID)
		if err != nil {
			statusRefreshCounter.WithLabelValues("campaign", "provider_error").Inc()
			s.logger.WarnContext(ctx, "Campaign status refresh failed", "org_id", orgID, "error", err)
		} else if match := findCampaign(campaigns, *org.CampaignID); match == nil || match.CampaignStatus == "" {
			statusRefreshCounter.WithLabelValues("campaign", "not_found").Inc()
			s.logger.InfoContext(ctx, "Stored campaign not in provider listing", "org_id", orgID, "campaign_sid", *org.CampaignID)
		} else {
			if err := s.orgRepo.SetCampaignStatus(ctx, orgID, match.CampaignStatus); err != nil {
				return nil, fmt.Errorf("saving campaign status for org %s: %w", orgID, err)
			}
			statusRefreshCounter.WithLabelValues("campaign", "updated").Inc()
			changed = changed || match.CampaignStatus != snapshot.CampaignStatus
			snapshot.CampaignStatus = match.CampaignStatus
			s.promoteNumbers(ctx, orgID, match.CampaignStatus)
		}
	}

	if changed {
		s.events.PublishEvent(ctx, domain.SubjectStatusRefreshed, domain.StatusRefreshedEvent{
			OrgID:          orgID,
			BrandStatus:    snapshot.BrandStatus,
			CampaignStatus: snapshot.CampaignStatus,
			OccurredAt:     time.Now().UTC(),
		})
	}
	return snapshot, nil
}

// promoteNumbers marks pending numbers approved once the campaign is live.
func (s *StatusReconciliationService) promoteNumbers(ctx context.Context, orgID uuid.UUID, campaignStatus string) {
	if !campaignLiveStatuses[campaignStatus] {
		return
	}
	n, err := s.numberRepo.PromoteA2PStatus(ctx, orgID, core_domain.A2PStatusPending, core_domain.A2PStatusApproved)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to promote a2p status", "org_id", orgID, "error", err)
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Numbers approved for A2P", "org_id", orgID, "count", n)
	}
}

func findCampaign(campaigns []provider.Campaign, id string) *provider.Campaign {
	for i := range campaigns {
		if campaigns[i].ID == id || campaigns[i].CampaignID == id {
			return &campaigns[i]
		}
	}
	return nil
}
