package domain

import (
	"context"

	"github.com/google/uuid"
)

type PortRequestRepository interface {
	// Create inserts pr and fills in its timestamps.
	Create(ctx context.Context, pr *PortRequest) error
	// ListByOrg returns the org's requests, newest first.
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]PortRequest, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*PortRequest, error)
	// ApplyStatusUpdate writes u to every request with the provider id and returns
	// the rows touched. completed_at is set only on the first move into completed.
	ApplyStatusUpdate(ctx context.Context, u PortStatusUpdate) ([]PortRequestRef, error)
}

// PortabilityCache keeps recent portability answers. Misses and cache failures
// both report ok=false.
type PortabilityCache interface {
	Get(ctx context.Context, e164 string) (result *PortabilityResult, ok bool)
	Set(ctx context.Context, e164 string, result *PortabilityResult)
}
