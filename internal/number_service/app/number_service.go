package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/number_service/domain"
	"github.com/healthsms/golang_services/internal/provider"
)

const defaultSearchLimit = 20

// NumberService covers the org's own phone numbers: listing, call settings,
// inbound forwarding lookups, and claiming new numbers from the provider.
type NumberService struct {
	numbers  domain.PhoneNumberRepository
	registry *ForwardingRegistry
	gateway  provider.Gateway
	logger   *slog.Logger
}

func NewNumberService(numbers domain.PhoneNumberRepository, registry *ForwardingRegistry, gateway provider.Gateway, logger *slog.Logger) *NumberService {
	return &NumberService{
		numbers:  numbers,
		registry: registry,
		gateway:  gateway,
		logger:   logger.With("component", "number_service"),
	}
}

func (s *NumberService) ListNumbers(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error) {
	return s.numbers.ListByOrg(ctx, orgID)
}

// UpdateCallSettings resolves the requested forwarding and stores it on the number.
// The legacy call_forward_to column is written alongside the authorized reference.
func (s *NumberService) UpdateCallSettings(ctx context.Context, orgID, userID, phoneNumberID uuid.UUID, req domain.ForwardingRequest) (*core_domain.PhoneNumber, error) {
	if _, err := s.numbers.GetByID(ctx, orgID, phoneNumberID); err != nil {
		if errors.Is(err, core_domain.ErrNotFound) {
			return nil, core_domain.NewError(core_domain.ErrNotFound, "Phone number not found")
		}
		return nil, fmt.Errorf("loading phone number %s: %w", phoneNumberID, err)
	}

	res, err := s.registry.ResolveForwarding(ctx, orgID, userID, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.numbers.UpdateForwarding(ctx, orgID, phoneNumberID, res.ForwardNumber, res.AuthorizedID)
	if err != nil {
		switch {
		case errors.Is(err, core_domain.ErrNotAuthorized):
			// disabled between resolution and write
			return nil, core_domain.NewError(core_domain.ErrNotAuthorized, msgSelectedNotAvailable)
		case errors.Is(err, core_domain.ErrNotFound):
			return nil, core_domain.NewError(core_domain.ErrNotFound, "Phone number not found")
		}
		return nil, fmt.Errorf("updating call settings for %s: %w", phoneNumberID, err)
	}
	s.logger.InfoContext(ctx, "Call settings updated",
		"org_id", orgID,
		"phone_number_id", phoneNumberID,
		"forwarding", res.ForwardNumber != nil,
	)
	return updated, nil
}

// EffectiveForwardTarget returns where an inbound call to e164 should ring, or nil
// when the number has no forwarding. Stored legacy values are normalized when possible.
func (s *NumberService) EffectiveForwardTarget(ctx context.Context, inboundNumber string) (*string, error) {
	inboundNumber = strings.TrimSpace(inboundNumber)
	if inboundNumber == "" {
		return nil, nil
	}
	target, err := s.numbers.EffectiveForwardTarget(ctx, inboundNumber)
	if err != nil {
		if errors.Is(err, core_domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if target == nil || strings.TrimSpace(*target) == "" {
		return nil, nil
	}
	if normalized, err := core_domain.NormalizeE164(*target); err == nil {
		return &normalized, nil
	}
	return target, nil
}

// SearchAvailable lists purchasable local numbers, optionally within an area code.
func (s *NumberService) SearchAvailable(ctx context.Context, areaCode, contains string) ([]provider.AvailableNumber, error) {
	if !provider.IsAvailable(s.gateway) {
		return nil, core_domain.NewError(core_domain.ErrProviderUnavailable, "Twilio not configured.")
	}
	areaCode = strings.TrimSpace(areaCode)
	if areaCode != "" && !isAreaCode(areaCode) {
		return nil, core_domain.InvalidInput("Area code must be 3 digits")
	}

	numbers, err := s.gateway.SearchAvailableNumbers(ctx, provider.NumberSearchRequest{
		AreaCode: areaCode,
		Contains: strings.TrimSpace(contains),
		Limit:    defaultSearchLimit,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Number search failed", "area_code", areaCode, "error", err)
		return nil, core_domain.NewError(core_domain.ErrRemoteCallFailed, "Could not search numbers. Try again later.").WithCause(err)
	}
	return numbers, nil
}

func isAreaCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Purchase buys a number from the provider and claims it for the org.
func (s *NumberService) Purchase(ctx context.Context, orgID uuid.UUID, rawNumber, label string) (*core_domain.PhoneNumber, error) {
	if !provider.IsAvailable(s.gateway) {
		return nil, core_domain.NewError(core_domain.ErrProviderUnavailable, "Twilio not configured.")
	}
	e164, err := core_domain.NormalizeE164(rawNumber)
	if err != nil {
		return nil, core_domain.InvalidInput(msgInvalidNumber).WithCause(err)
	}

	purchased, err := s.gateway.PurchaseNumber(ctx, e164)
	if err != nil {
		numberPurchasesCounter.WithLabelValues("provider_error").Inc()
		s.logger.ErrorContext(ctx, "Number purchase failed", "org_id", orgID, "number", e164, "error", err)
		return nil, core_domain.NewError(core_domain.ErrRemoteCallFailed, "Could not purchase this number. Try another.").WithCause(err)
	}

	providerID := purchased.ID
	n := &core_domain.PhoneNumber{
		ID:               uuid.New(),
		OrgID:            orgID,
		E164Number:       e164,
		ProviderNumberID: &providerID,
		A2PStatus:        core_domain.A2PStatusNone,
	}
	if l := strings.TrimSpace(label); l != "" {
		n.Label = &l
	}

	if err := s.numbers.Create(ctx, n); err != nil {
		if errors.Is(err, core_domain.ErrConflict) {
			numberPurchasesCounter.WithLabelValues("conflict").Inc()
			s.logger.WarnContext(ctx, "Purchased number already claimed", "number", e164, "provider_number_id", providerID)
			return nil, core_domain.NewError(core_domain.ErrConflict, "This number is already in use").WithCause(err)
		}
		numberPurchasesCounter.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("saving purchased number: %w", err)
	}
	numberPurchasesCounter.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "Number purchased", "org_id", orgID, "number", e164, "provider_number_id", providerID)
	return n, nil
}
