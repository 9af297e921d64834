package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/healthsms/golang_services/internal/compliance_service/domain"
	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/messagebroker"
	"github.com/healthsms/golang_services/internal/provider"
)

const (
	defaultCampaignDescription = "Patient appointment reminders and healthcare communication"
	defaultCampaignUseCase     = "MIXED"
	campaignMessageFlow        = "Patients opt-in during registration. They can reply STOP at any time."

	msgCampaignApproved  = "Campaign approved! Your numbers are ready for SMS."
	msgCampaignSubmitted = "Campaign submitted for review. Usually takes a few days."
	msgCampaignRetry     = "Campaign registration saved, but it could not be submitted to the carrier yet. You can retry the registration."

	inboundSMSWebhookPath = "/api/webhooks/twilio/sms"
)

var campaignMessageSamples = []string{
	"Hi [Name], this is a reminder of your appointment on [Date] at [Time]. Reply Y to confirm or call us to reschedule.",
	"Your lab results are ready. Please call our office to discuss. Reply STOP to opt out.",
}

// NumberAssociation is the outcome of attaching one phone number to the messaging service.
type NumberAssociation struct {
	PhoneNumberID    uuid.UUID `json:"phoneNumberId"`
	E164Number       string    `json:"number"`
	ProviderNumberID string    `json:"providerSid"`
	Associated       bool      `json:"associated"`
	Error            string    `json:"error,omitempty"`
}

type CampaignRegistrationResult struct {
	CampaignSID         *string             `json:"campaignSid"`
	CampaignStatus      string              `json:"campaignStatus"`
	MessagingServiceSID *string             `json:"messagingServiceSid"`
	Message             string              `json:"message"`
	Associations        []NumberAssociation `json:"associations"`
}

// CampaignRegistrationManager registers the org's messaging use case under its approved brand.
type CampaignRegistrationManager struct {
	orgRepo       domain.OrganizationRepository
	numberRepo    domain.NumberRepository
	gateway       provider.Gateway
	events        *messagebroker.EventPublisher
	logger        *slog.Logger
	publicBaseURL string
	concurrency   int
}

func NewCampaignRegistrationManager(
	orgRepo domain.OrganizationRepository,
	numberRepo domain.NumberRepository,
	gateway provider.Gateway,
	events *messagebroker.EventPublisher,
	logger *slog.Logger,
	publicBaseURL string,
	concurrency int,
) *CampaignRegistrationManager {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &CampaignRegistrationManager{
		orgRepo:       orgRepo,
		numberRepo:    numberRepo,
		gateway:       gateway,
		events:        events,
		logger:        logger.With("component", "campaign_registration"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		concurrency:   concurrency,
	}
}

func (m *CampaignRegistrationManager) RegisterCampaign(ctx context.Context, orgID uuid.UUID, description, useCase string) (*CampaignRegistrationResult, error) {
	if !provider.IsAvailable(m.gateway) {
		return nil, core_domain.NewError(core_domain.ErrProviderUnavailable, "Twilio not configured.")
	}

	org, err := m.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, core_domain.ErrNotFound) {
			return nil, core_domain.NewError(core_domain.ErrNotFound, "Organization not found")
		}
		return nil, fmt.Errorf("loading org %s: %w", orgID, err)
	}

	if org.BrandRegistrationID == nil || *org.BrandRegistrationID == "" {
		campaignRegistrationsCounter.WithLabelValues("brand_not_registered").Inc()
		return nil, core_domain.NewError(core_domain.ErrBrandNotRegistered, "Register your brand first")
	}
	if org.BrandStatus != domain.StatusApproved {
		campaignRegistrationsCounter.WithLabelValues("brand_not_approved").Inc()
		return nil, core_domain.NewError(core_domain.ErrBrandNotApproved,
			"Your brand registration is still pending. Campaign creation requires an approved brand.")
	}

	serviceID, err := m.ensureMessagingService(ctx, org)
	if err != nil {
		m.logger.ErrorContext(ctx, "Messaging service creation failed; marking campaign pending",
			"org_id", orgID, "error", err)
		return m.degraded(ctx, orgID, nil)
	}

	if description == "" {
		description = defaultCampaignDescription
	}
	if useCase == "" {
		useCase = defaultCampaignUseCase
	}

	campaign, err := m.gateway.CreateCampaign(ctx, serviceID, provider.CampaignRequest{
		BrandRegistrationID: *org.BrandRegistrationID,
		Description:         description,
		MessageFlow:         campaignMessageFlow,
		MessageSamples:      campaignMessageSamples,
		UseCase:             useCase,
		HasEmbeddedLinks:    false,
		HasEmbeddedPhone:    true,
	})
	if err != nil {
		m.logger.ErrorContext(ctx, "Campaign creation failed; marking campaign pending",
			"org_id", orgID, "messaging_service_sid", serviceID, "error", err)
		return m.degraded(ctx, orgID, &serviceID)
	}

	campaignID := campaign.ID
	if campaignID == "" {
		campaignID = campaign.CampaignID
	}
	status := campaign.CampaignStatus
	if status == "" {
		status = domain.StatusPending
	}
	if err := m.orgRepo.SetCampaign(ctx, orgID, campaignID, status); err != nil {
		return nil, fmt.Errorf("saving campaign for org %s: %w", orgID, err)
	}

	associations := m.associateNumbers(ctx, orgID, serviceID)
	associated := 0
	for _, a := range associations {
		if a.Associated {
			associated++
		}
	}

	m.logger.InfoContext(ctx, "Campaign submitted",
		"org_id", orgID,
		"campaign_sid", campaignID,
		"campaign_status", status,
		"numbers_total", len(associations),
		"numbers_associated", associated,
	)
	campaignRegistrationsCounter.WithLabelValues("submitted").Inc()
	m.events.PublishEvent(ctx, domain.SubjectCampaignSubmitted, domain.CampaignSubmittedEvent{
		OrgID:              orgID,
		CampaignID:         campaignID,
		CampaignStatus:     status,
		MessagingServiceID: serviceID,
		NumbersAssociated:  associated,
		OccurredAt:         time.Now().UTC(),
	})

	msg := msgCampaignSubmitted
	if status == domain.StatusApproved {
		msg = msgCampaignApproved
	}
	return &CampaignRegistrationResult{
		CampaignSID:         &campaignID,
		CampaignStatus:      status,
		MessagingServiceSID: &serviceID,
		Message:             msg,
		Associations:        associations,
	}, nil
}

// ensureMessagingService returns the org's messaging service, creating it at most once.
// A concurrent creator that loses the conditional write adopts the stored id.
func (m *CampaignRegistrationManager) ensureMessagingService(ctx context.Context, org *domain.Organization) (string, error) {
	if org.MessagingServiceID != nil && *org.MessagingServiceID != "" {
		return *org.MessagingServiceID, nil
	}

	req := provider.MessagingServiceRequest{FriendlyName: org.Name + " - Health SMS"}
	if m.publicBaseURL != "" {
		req.InboundRequestURL = m.publicBaseURL + inboundSMSWebhookPath
	}
	created, err := m.gateway.CreateMessagingService(ctx, req)
	if err != nil {
		return "", err
	}

	stored, err := m.orgRepo.SetMessagingServiceIfAbsent(ctx, org.ID, created.ID)
	if err != nil {
		return "", fmt.Errorf("saving messaging service: %w", err)
	}
	if stored != created.ID {
		m.logger.WarnContext(ctx, "Messaging service already set by a concurrent request; using stored one",
			"org_id", org.ID, "stored_sid", stored, "orphaned_sid", created.ID)
	}
	return stored, nil
}

func (m *CampaignRegistrationManager) degraded(ctx context.Context, orgID uuid.UUID, serviceID *string) (*CampaignRegistrationResult, error) {
	if err := m.orgRepo.SetCampaignStatus(ctx, orgID, domain.StatusPending); err != nil {
		return nil, fmt.Errorf("marking campaign pending for org %s: %w", orgID, err)
	}
	campaignRegistrationsCounter.WithLabelValues("degraded").Inc()
	event := domain.CampaignSubmittedEvent{
		OrgID:          orgID,
		CampaignStatus: domain.StatusPending,
		Degraded:       true,
		OccurredAt:     time.Now().UTC(),
	}
	if serviceID != nil {
		event.MessagingServiceID = *serviceID
	}
	m.events.PublishEvent(ctx, domain.SubjectCampaignSubmitted, event)
	return &CampaignRegistrationResult{
		CampaignStatus:      domain.StatusPending,
		MessagingServiceSID: serviceID,
		Message:             msgCampaignRetry,
		Associations:        []NumberAssociation{},
	}, nil
}

// associateNumbers attaches every provider-backed org number to the service.
// Each number is independent: a failure is recorded on its own result.
func (m *CampaignRegistrationManager) associateNumbers(ctx context.Context, orgID uuid.UUID, serviceID string) []NumberAssociation {
	numbers, err := m.numberRepo.ListWithProviderID(ctx, orgID)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to list numbers for association", "org_id", orgID, "error", err)
		return []NumberAssociation{}
	}

	results := make([]NumberAssociation, len(numbers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, n := range numbers {
		results[i] = NumberAssociation{PhoneNumberID: n.ID, E164Number: n.E164Number}
		if n.ProviderNumberID == nil {
			results[i].Error = "number has no provider id"
			continue
		}
		providerID := *n.ProviderNumberID
		results[i].ProviderNumberID = providerID

		g.Go(func() error {
			if err := m.gateway.AddNumberToMessagingService(gctx, serviceID, providerID); err != nil {
				m.logger.WarnContext(gctx, "Failed to associate number with messaging service",
					"org_id", orgID, "provider_number_sid", providerID, "error", err)
				numberAssociationsCounter.WithLabelValues("provider_error").Inc()
				results[i].Error = err.Error()
				return nil
			}
			if err := m.numberRepo.SetA2PStatusByProviderID(gctx, orgID, providerID, core_domain.A2PStatusPending); err != nil {
				m.logger.ErrorContext(gctx, "Number associated but a2p status update failed",
					"org_id", orgID, "provider_number_sid", providerID, "error", err)
				numberAssociationsCounter.WithLabelValues("store_error").Inc()
				results[i].Error = err.Error()
				return nil
			}
			numberAssociationsCounter.WithLabelValues("associated").Inc()
			results[i].Associated = true
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return results
}
