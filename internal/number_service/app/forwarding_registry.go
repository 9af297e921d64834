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
)

const (
	msgInvalidNumber        = "Enter a valid US phone number"
	msgForwardNotAuthorized = "This forwarding number is not authorized. Authorize it first."
	msgSelectedNotAvailable = "The selected forwarding number is not authorized for this organization."
)

// ForwardingRegistry manages the org's approved call-forwarding destinations.
type ForwardingRegistry struct {
	repo   domain.AuthorizedNumberRepository
	logger *slog.Logger
}

func NewForwardingRegistry(repo domain.AuthorizedNumberRepository, logger *slog.Logger) *ForwardingRegistry {
	return &ForwardingRegistry{repo: repo, logger: logger.With("component", "forwarding_registry")}
}

func cleared() *domain.ForwardingResolution {
	return &domain.ForwardingResolution{}
}

func resolved(n *domain.AuthorizedForwardNumber) *domain.ForwardingResolution {
	number, id := n.E164Number, n.ID
	return &domain.ForwardingResolution{ForwardNumber: &number, AuthorizedID: &id}
}

// ResolveForwarding turns a forwarding request into an approved destination.
// Precedence: voicemail mode, then explicit authorized id, then raw number, else clear.
// At most one authorized-number row is written (auto-authorization).
func (r *ForwardingRegistry) ResolveForwarding(ctx context.Context, orgID, userID uuid.UUID, req domain.ForwardingRequest) (*domain.ForwardingResolution, error) {
	if strings.EqualFold(strings.TrimSpace(req.CallMode), domain.CallModeVoicemail) {
		forwardingResolutionsCounter.WithLabelValues("cleared").Inc()
		return cleared(), nil
	}

	if req.AuthorizedNumberID != nil {
		n, err := r.repo.GetByID(ctx, orgID, *req.AuthorizedNumberID)
		if err != nil && !errors.Is(err, core_domain.ErrNotFound) {
			return nil, fmt.Errorf("looking up authorized number %s: %w", *req.AuthorizedNumberID, err)
		}
		if err != nil || n.IsDisabled() {
			forwardingResolutionsCounter.WithLabelValues("rejected").Inc()
			return nil, core_domain.NewError(core_domain.ErrNotAuthorized, msgSelectedNotAvailable)
		}
		forwardingResolutionsCounter.WithLabelValues("by_id").Inc()
		return resolved(n), nil
	}

	raw := strings.TrimSpace(req.CallForwardTo)
	if raw == "" {
		forwardingResolutionsCounter.WithLabelValues("cleared").Inc()
		return cleared(), nil
	}

	e164, err := core_domain.NormalizeE164(raw)
	if err != nil {
		forwardingResolutionsCounter.WithLabelValues("invalid").Inc()
		return nil, core_domain.InvalidInput(msgInvalidNumber).WithCause(err)
	}

	existing, err := r.repo.GetByNumber(ctx, orgID, e164)
	switch {
	case err == nil && !existing.IsDisabled():
		forwardingResolutionsCounter.WithLabelValues("existing").Inc()
		return resolved(existing), nil
	case err != nil && !errors.Is(err, core_domain.ErrNotFound):
		return nil, fmt.Errorf("looking up authorized number: %w", err)
	}

	if !req.AutoAuthorizeIfMissing {
		forwardingResolutionsCounter.WithLabelValues("rejected").Inc()
		return nil, core_domain.NewError(core_domain.ErrNotAuthorized, msgForwardNotAuthorized)
	}

	n, err := r.repo.UpsertApproved(ctx, orgID, userID, e164, nil)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "Forwarding number auto-authorized", "org_id", orgID, "authorized_number_id", n.ID)
	forwardingResolutionsCounter.WithLabelValues("auto_authorized").Inc()
	return resolved(n), nil
}

// Authorize adds a number to the approved list, or reactivates it. Repeating the call
// returns the same record.
func (r *ForwardingRegistry) Authorize(ctx context.Context, orgID, userID uuid.UUID, rawNumber, label string) (*domain.AuthorizedForwardNumber, error) {
	e164, err := core_domain.NormalizeE164(rawNumber)
	if err != nil {
		return nil, core_domain.InvalidInput(msgInvalidNumber).WithCause(err)
	}
	var labelPtr *string
	if l := strings.TrimSpace(label); l != "" {
		labelPtr = &l
	}
	n, err := r.repo.UpsertApproved(ctx, orgID, userID, e164, labelPtr)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "Forwarding number authorized", "org_id", orgID, "authorized_number_id", n.ID)
	return n, nil
}

// List returns the org's non-disabled numbers, newest first.
func (r *ForwardingRegistry) List(ctx context.Context, orgID uuid.UUID) ([]domain.AuthorizedForwardNumber, error) {
	return r.repo.ListActive(ctx, orgID)
}

// Disable removes a number from the approved list and clears forwarding that pointed at it.
func (r *ForwardingRegistry) Disable(ctx context.Context, orgID, id uuid.UUID) error {
	clearedCount, err := r.repo.Disable(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, core_domain.ErrNotFound) {
			return core_domain.NewError(core_domain.ErrNotFound, "Authorized number not found")
		}
		return err
	}
	r.logger.InfoContext(ctx, "Forwarding number disabled",
		"org_id", orgID,
		"authorized_number_id", id,
		"phone_numbers_cleared", clearedCount,
	)
	return nil
}
