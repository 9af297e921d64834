package domain

import (
	"time"

	"github.com/google/uuid"
)

// BrandType is the kind of business registering for A2P messaging.
type BrandType string

const (
	BrandTypeSoleProprietor BrandType = "SOLE_PROPRIETOR"
	BrandTypeStandard       BrandType = "STANDARD"
)

// Valid reports whether t is one of the supported brand types.
func (t BrandType) Valid() bool {
	return t == BrandTypeSoleProprietor || t == BrandTypeStandard
}

// BusinessType is the TrustHub business_type attribute for this brand type.
func (t BrandType) BusinessType() string {
	if t == BrandTypeSoleProprietor {
		return "Sole Proprietorship"
	}
	return "Corporation"
}

// Canonical registration statuses written by this service. Provider values
// (IN_REVIEW, VERIFIED, ...) are stored verbatim after a refresh.
const (
	StatusUnregistered = "UNREGISTERED"
	StatusPending      = "PENDING"
	StatusApproved     = "APPROVED"
	StatusFailed       = "FAILED"
)

// Address is the business's physical address. Any part may be empty.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Organization is the compliance view of a tenant.
type Organization struct {
	ID                  uuid.UUID
	Name                string
	LegalName           *string
	TaxID               *string
	BusinessAddress     Address
	BrandType           *string
	TrustProfileID      *string
	BrandRegistrationID *string
	BrandStatus         string
	CampaignID          *string
	CampaignStatus      string
	MessagingServiceID  *string
	CreatedAt           time.Time
}

// HasRegistration reports whether brand registration was ever attempted.
func (o *Organization) HasRegistration() bool {
	return o.BrandRegistrationID != nil || o.BrandStatus != StatusUnregistered
}

// BusinessInfo is what the organization submits to register its brand.
type BusinessInfo struct {
	LegalName string
	TaxID     string
	Address   Address
	BrandType BrandType
}
