package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubjectPortRequestSubmitted = "porting.request.submitted"
	SubjectPortStatusChanged    = "porting.status.changed"
)

type PortRequestSubmittedEvent struct {
	OrgID             uuid.UUID  `json:"org_id"`
	PortRequestID     uuid.UUID  `json:"port_request_id"`
	PhoneNumber       string     `json:"phone_number"`
	ProviderRequestID string     `json:"provider_request_id,omitempty"`
	Status            PortStatus `json:"status"`
	OccurredAt        time.Time  `json:"occurred_at"`
}

type PortStatusChangedEvent struct {
	OrgID             uuid.UUID  `json:"org_id"`
	PortRequestID     uuid.UUID  `json:"port_request_id"`
	ProviderRequestID string     `json:"provider_request_id"`
	Status            PortStatus `json:"status"`
	StatusDetail      *string    `json:"status_detail,omitempty"`
	OccurredAt        time.Time  `json:"occurred_at"`
}
