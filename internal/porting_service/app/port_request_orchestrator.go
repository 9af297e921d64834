package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/messagebroker"
	"github.com/healthsms/golang_services/internal/porting_service/domain"
	"github.com/healthsms/golang_services/internal/provider"
)

const (
	targetPortLeadDays  = 10
	defaultCustomerType = "Business"
	portCountry         = "US"

	msgInvalidNumber        = "Enter a valid US phone number"
	msgRepresentativeNeeded = "Authorized representative name and email are required"
	msgPortabilityFailed    = "Could not check portability. Try again later."
	msgNotPortableNow       = "This number cannot be ported at this time."
)

// PortRequestOrchestrator checks portability and submits and tracks port-in requests.
type PortRequestOrchestrator struct {
	repo     domain.PortRequestRepository
	gateway  provider.Gateway
	cache    domain.PortabilityCache
	ingestor *PortStatusIngestor
	events   *messagebroker.EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

func NewPortRequestOrchestrator(
	repo domain.PortRequestRepository,
	gateway provider.Gateway,
	cache domain.PortabilityCache,
	ingestor *PortStatusIngestor,
	events *messagebroker.EventPublisher,
	logger *slog.Logger,
) *PortRequestOrchestrator {
	return &PortRequestOrchestrator{
		repo:     repo,
		gateway:  gateway,
		cache:    cache,
		ingestor: ingestor,
		events:   events,
		logger:   logger.With("component", "port_request_orchestrator"),
		now:      time.Now,
	}
}

func unavailable() error {
	return core_domain.NewError(core_domain.ErrProviderUnavailable, "Twilio not configured.")
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// unknownPortability is returned when the provider has no answer for the number.
func unknownPortability(e164 string) *domain.PortabilityResult {
	return &domain.PortabilityResult{
		Portable:    true,
		PhoneNumber: e164,
		NumberType:  strOrNil("UNKNOWN"),
		Country:     strOrNil(portCountry),
	}
}

func (o *PortRequestOrchestrator) CheckPortability(ctx context.Context, rawNumber string) (*domain.PortabilityResult, error) {
	if !provider.IsAvailable(o.gateway) {
		return nil, unavailable()
	}
	e164, err := core_domain.NormalizeE164(rawNumber)
	if err != nil {
		return nil, core_domain.InvalidInput(msgInvalidNumber).WithCause(err)
	}

	if cached, ok := o.cache.Get(ctx, e164); ok {
		portabilityChecksCounter.WithLabelValues("cache").Inc()
		return cached, nil
	}

	p, err := o.gateway.CheckPortability(ctx, e164)
	if err != nil {
		if provider.IsNotFound(err) {
			portabilityChecksCounter.WithLabelValues("default").Inc()
			o.logger.WarnContext(ctx, "Portability lookup unsupported, assuming portable", "number", e164, "error", err)
			return unknownPortability(e164), nil
		}
		portabilityChecksCounter.WithLabelValues("error").Inc()
		o.logger.ErrorContext(ctx, "Portability check failed", "number", e164, "error", err)
		return nil, core_domain.NewError(core_domain.ErrRemoteCallFailed, msgPortabilityFailed).WithCause(err)
	}

	result := &domain.PortabilityResult{
		Portable:    p.Portable,
		PhoneNumber: e164,
		NumberType:  strOrNil(p.NumberType),
		Country:     strOrNil(p.Country),
		PinRequired: p.PinAndAccountNumberRequired,
	}
	if !p.Portable {
		reason := msgNotPortableNow
		if p.NotPortableReason != "" {
			reason = fmt.Sprintf("This number cannot be ported: %s. Contact your carrier for more information.", p.NotPortableReason)
		}
		result.Reason = &reason
		if p.NotPortableReasonCode != 0 {
			code := p.NotPortableReasonCode
			result.ReasonCode = &code
		}
	}

	o.cache.Set(ctx, e164, result)
	portabilityChecksCounter.WithLabelValues("provider").Inc()
	return result, nil
}

func trimFields(f domain.PortRequestFields) domain.PortRequestFields {
	for _, s := range []*string{
		&f.PhoneNumber, &f.LosingCarrier, &f.CustomerType, &f.CustomerName, &f.AccountNumber,
		&f.AuthorizedName, &f.AuthorizedEmail, &f.AuthorizedPhone,
		&f.Street, &f.City, &f.State, &f.Zip,
	} {
		*s = strings.TrimSpace(*s)
	}
	return f
}

func (o *PortRequestOrchestrator) portInRequest(e164 string, f domain.PortRequestFields) provider.PortInRequest {
	carrier := provider.LosingCarrierInformation{
		CustomerType:                  f.CustomerType,
		CustomerName:                  f.CustomerName,
		AuthorizedRepresentative:      f.AuthorizedName,
		AuthorizedRepresentativeEmail: f.AuthorizedEmail,
		AccountTelephoneNumber:        e164,
		AccountNumber:                 f.AccountNumber,
	}
	if carrier.CustomerType == "" {
		carrier.CustomerType = defaultCustomerType
	}
	if carrier.CustomerName == "" {
		carrier.CustomerName = f.AuthorizedName
	}
	if f.HasAddress() {
		carrier.Address = &provider.PortInAddress{
			Street:  f.Street,
			City:    f.City,
			State:   f.State,
			Zip:     f.Zip,
			Country: portCountry,
		}
	}
	return provider.PortInRequest{
		PhoneNumbers:             []provider.PortInPhoneNumber{{PhoneNumber: e164}},
		LosingCarrierInformation: carrier,
		NotificationEmails:       []string{f.AuthorizedEmail},
		TargetPortInDate:         o.now().UTC().AddDate(0, 0, targetPortLeadDays).Format(time.DateOnly),
	}
}

// SubmitPortRequest records a port-in request. A provider failure still stores the
// request, in submitted state without a provider id, so it can be handled later.
func (o *PortRequestOrchestrator) SubmitPortRequest(ctx context.Context, orgID, userID uuid.UUID, fields domain.PortRequestFields) (*domain.PortRequest, error) {
	if !provider.IsAvailable(o.gateway) {
		return nil, unavailable()
	}
	f := trimFields(fields)
	e164, err := core_domain.NormalizeE164(f.PhoneNumber)
	if err != nil {
		return nil, core_domain.InvalidInput(msgInvalidNumber).WithCause(err)
	}
	if f.AuthorizedName == "" || f.AuthorizedEmail == "" {
		return nil, core_domain.InvalidInput(msgRepresentativeNeeded)
	}

	pr := &domain.PortRequest{
		ID:              uuid.New(),
		OrgID:           orgID,
		CreatedByUserID: &userID,
		PhoneNumber:     e164,
		LosingCarrier:   strOrNil(f.LosingCarrier),
		AuthorizedName:  f.AuthorizedName,
		AuthorizedEmail: f.AuthorizedEmail,
		AuthorizedPhone: strOrNil(f.AuthorizedPhone),
		ServiceAddress:  strOrNil(f.ServiceAddress()),
		Status:          domain.PortStatusSubmitted,
	}

	portIn, err := o.gateway.SubmitPortIn(ctx, o.portInRequest(e164, f))
	switch {
	case err != nil:
		o.logger.WarnContext(ctx, "Port-in submission failed, saving locally", "org_id", orgID, "number", e164, "error", err)
		portRequestsCounter.WithLabelValues("degraded").Inc()
	case portIn.ID == "":
		o.logger.WarnContext(ctx, "Port-in submission returned no request id", "org_id", orgID, "number", e164)
		portRequestsCounter.WithLabelValues("degraded").Inc()
	default:
		pr.ProviderRequestID = &portIn.ID
		pr.Status = domain.PortStatusInReview
		portRequestsCounter.WithLabelValues("in_review").Inc()
	}

	if err := o.repo.Create(ctx, pr); err != nil {
		return nil, fmt.Errorf("saving port request: %w", err)
	}

	event := domain.PortRequestSubmittedEvent{
		OrgID:         orgID,
		PortRequestID: pr.ID,
		PhoneNumber:   e164,
		Status:        pr.Status,
		OccurredAt:    time.Now().UTC(),
	}
	if pr.ProviderRequestID != nil {
		event.ProviderRequestID = *pr.ProviderRequestID
	}
	o.events.PublishEvent(ctx, domain.SubjectPortRequestSubmitted, event)
	o.logger.InfoContext(ctx, "Port request recorded", "org_id", orgID, "port_request_id", pr.ID, "status", pr.Status)
	return pr, nil
}

func (o *PortRequestOrchestrator) ListPortRequests(ctx context.Context, orgID uuid.UUID) ([]domain.PortRequest, error) {
	return o.repo.ListByOrg(ctx, orgID)
}

// RefreshPortRequest pulls the provider's current status for one request and applies
// it the same way a webhook would. Provider failures leave the stored request as is.
func (o *PortRequestOrchestrator) RefreshPortRequest(ctx context.Context, orgID, id uuid.UUID) (*domain.PortRequest, error) {
	if !provider.IsAvailable(o.gateway) {
		return nil, unavailable()
	}
	pr, err := o.repo.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, core_domain.ErrNotFound) {
			return nil, core_domain.NewError(core_domain.ErrNotFound, "Port request not found")
		}
		return nil, err
	}
	if pr.ProviderRequestID == nil || *pr.ProviderRequestID == "" || pr.Status.IsTerminal() {
		return pr, nil
	}

	portIn, err := o.gateway.FetchPortIn(ctx, *pr.ProviderRequestID)
	if err != nil {
		o.logger.WarnContext(ctx, "Port status refresh failed", "port_request_id", id, "error", err)
		return pr, nil
	}
	if _, err := o.ingestor.IngestPortStatus(ctx, *pr.ProviderRequestID, portIn.Status, ""); err != nil {
		return nil, err
	}
	return o.repo.GetByID(ctx, orgID, id)
}
