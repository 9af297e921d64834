package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuthorizedNumberStatus string

const (
	AuthorizedNumberApproved AuthorizedNumberStatus = "approved"
	AuthorizedNumberDisabled AuthorizedNumberStatus = "disabled"
)

// AuthorizedForwardNumber is a destination the org has approved for call forwarding.
// Rows are never deleted; disabling is a status change.
type AuthorizedForwardNumber struct {
	ID              uuid.UUID              `json:"id"`
	OrgID           uuid.UUID              `json:"-"`
	CreatedByUserID *uuid.UUID             `json:"-"`
	E164Number      string                 `json:"number"`
	Label           *string                `json:"label"`
	Status          AuthorizedNumberStatus `json:"status"`
	VerifiedAt      *time.Time             `json:"verifiedAt"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func (n *AuthorizedForwardNumber) IsDisabled() bool {
	return n.Status == AuthorizedNumberDisabled
}

// CallModeVoicemail clears forwarding regardless of any other field.
const CallModeVoicemail = "voicemail"

// ForwardingRequest is a caller's desired forwarding configuration for a number.
type ForwardingRequest struct {
	CallMode               string
	AuthorizedNumberID     *uuid.UUID
	CallForwardTo          string
	AutoAuthorizeIfMissing bool
}

// ForwardingResolution is the approved destination, or both nil when forwarding is cleared.
type ForwardingResolution struct {
	ForwardNumber *string
	AuthorizedID  *uuid.UUID
}
