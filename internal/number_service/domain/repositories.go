package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthsms/golang_services/internal/core_domain"
)

// AuthorizedNumberRepository stores authorized forward numbers. Lookups are org-scoped
// and return core_domain.ErrNotFound when nothing matches.
type AuthorizedNumberRepository interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*AuthorizedForwardNumber, error)
	GetByNumber(ctx context.Context, orgID uuid.UUID, e164 string) (*AuthorizedForwardNumber, error)
	// UpsertApproved creates the number or reactivates an existing row for (org, number).
	UpsertApproved(ctx context.Context, orgID, userID uuid.UUID, e164 string, label *string) (*AuthorizedForwardNumber, error)
	ListActive(ctx context.Context, orgID uuid.UUID) ([]AuthorizedForwardNumber, error)
	// Disable marks the number disabled and clears forwarding on every phone number
	// referencing it, atomically. Returns how many phone numbers were cleared.
	Disable(ctx context.Context, orgID, id uuid.UUID) (int64, error)
}

// PhoneNumberRepository stores the org's provider-backed phone numbers.
type PhoneNumberRepository interface {
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*core_domain.PhoneNumber, error)
	UpdateForwarding(ctx context.Context, orgID, id uuid.UUID, forwardTo *string, authorizedID *uuid.UUID) (*core_domain.PhoneNumber, error)
	EffectiveForwardTarget(ctx context.Context, e164 string) (*string, error)
	// Create inserts a purchased number; a duplicate number or provider id yields core_domain.ErrConflict.
	Create(ctx context.Context, n *core_domain.PhoneNumber) error
}
