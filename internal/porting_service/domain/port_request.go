package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PortStatus string

const (
	PortStatusSubmitted           PortStatus = "submitted"
	PortStatusInReview            PortStatus = "in_review"
	PortStatusWaitingForSignature PortStatus = "waiting_for_signature"
	PortStatusInProgress          PortStatus = "in_progress"
	PortStatusActionRequired      PortStatus = "action_required"
	PortStatusCompleted           PortStatus = "completed"
	PortStatusRejected            PortStatus = "rejected"
	PortStatusCancelled           PortStatus = "cancelled"
)

func (s PortStatus) IsTerminal() bool {
	switch s {
	case PortStatusCompleted, PortStatusRejected, PortStatusCancelled:
		return true
	}
	return false
}

// vendorStatuses maps the provider's port status labels, lowercased, to ours.
var vendorStatuses = map[string]PortStatus{
	"in review":             PortStatusInReview,
	"waiting for signature": PortStatusWaitingForSignature,
	"in progress":           PortStatusInProgress,
	"completed":             PortStatusCompleted,
	"action required":       PortStatusActionRequired,
	"rejected":              PortStatusRejected,
	"cancelled":             PortStatusCancelled,
	"canceled":              PortStatusCancelled,
	"canceling":             PortStatusCancelled,
}

// MapVendorStatus translates a provider status label. Matching ignores case and
// treats '-' and '_' as spaces so API values like "in-review" map too.
// Anything unrecognized is in_review.
func MapVendorStatus(vendor string) PortStatus {
	key := strings.ToLower(strings.TrimSpace(vendor))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	if s, ok := vendorStatuses[key]; ok {
		return s
	}
	return PortStatusInReview
}

// PortRequest is a request to move a number from another carrier into the org's account.
type PortRequest struct {
	ID                uuid.UUID  `json:"id"`
	OrgID             uuid.UUID  `json:"-"`
	CreatedByUserID   *uuid.UUID `json:"-"`
	PhoneNumber       string     `json:"phoneNumber"`
	LosingCarrier     *string    `json:"losingCarrier"`
	AuthorizedName    string     `json:"authorizedName"`
	AuthorizedEmail   string     `json:"authorizedEmail"`
	AuthorizedPhone   *string    `json:"authorizedPhone,omitempty"`
	ServiceAddress    *string    `json:"serviceAddress,omitempty"`
	ProviderRequestID *string    `json:"providerRequestId"`
	Status            PortStatus `json:"status"`
	StatusDetail      *string    `json:"statusDetail"`
	CompletedAt       *time.Time `json:"completedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PortRequestFields is what the caller supplies when submitting a port.
type PortRequestFields struct {
	PhoneNumber     string
	LosingCarrier   string
	CustomerType    string
	CustomerName    string
	AccountNumber   string
	AuthorizedName  string
	AuthorizedEmail string
	AuthorizedPhone string
	Street          string
	City            string
	State           string
	Zip             string
}

// HasAddress reports whether any service address part was given.
func (f PortRequestFields) HasAddress() bool {
	return f.Street != "" || f.City != "" || f.State != "" || f.Zip != ""
}

// ServiceAddress joins the non-empty address parts with ", ".
func (f PortRequestFields) ServiceAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{f.Street, f.City, f.State, f.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// PortStatusUpdate is a status change reported for a provider request id.
type PortStatusUpdate struct {
	ProviderRequestID string
	Status            PortStatus
	Detail            *string
}

// PortRequestRef identifies a row touched by a status update.
type PortRequestRef struct {
	ID    uuid.UUID
	OrgID uuid.UUID
}

// PortabilityResult is the answer to "can this number be ported in?".
type PortabilityResult struct {
	Portable    bool    `json:"portable"`
	PhoneNumber string  `json:"phoneNumber"`
	NumberType  *string `json:"numberType"`
	Country     *string `json:"country"`
	PinRequired bool    `json:"pinRequired"`
	Reason      *string `json:"reason"`
	ReasonCode  *int    `json:"reasonCode"`
}
