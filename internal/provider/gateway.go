package provider

import (
	"context"
)

// Gateway is the only boundary to the external telecom provider.
// Every method may block on the network; implementations honour ctx cancellation.
type Gateway interface {
	Name() string

	// Business identity (TrustHub customer profile).
	CreateCustomerProfile(ctx context.Context, req CustomerProfileRequest) (*Resource, error)
	CreateEndUser(ctx context.Context, req EndUserRequest) (*Resource, error)
	AttachEntityToProfile(ctx context.Context, profileID, objectID string) error
	SubmitProfileForReview(ctx context.Context, profileID string) error

	// A2P brand.
	CreateBrandRegistration(ctx context.Context, req BrandRegistrationRequest) (*BrandRegistration, error)
	FetchBrandRegistration(ctx context.Context, brandID string) (*BrandRegistration, error)

	// Messaging service grouping and campaigns.
	CreateMessagingService(ctx context.Context, req MessagingServiceRequest) (*Resource, error)
	CreateCampaign(ctx context.Context, serviceID string, req CampaignRequest) (*Campaign, error)
	ListCampaigns(ctx context.Context, serviceID string) ([]Campaign, error)
	AddNumberToMessagingService(ctx context.Context, serviceID, providerNumberID string) error

	// Porting.
	CheckPortability(ctx context.Context, e164 string) (*Portability, error)
	SubmitPortIn(ctx context.Context, req PortInRequest) (*PortIn, error)
	FetchPortIn(ctx context.Context, portInID string) (*PortIn, error)

	// Number inventory.
	SearchAvailableNumbers(ctx context.Context, req NumberSearchRequest) ([]AvailableNumber, error)
	PurchaseNumber(ctx context.Context, e164 string) (*PurchasedNumber, error)
}

// Resource is the minimal reply of create calls: the provider's handle for the new object.
type Resource struct {
	ID string `json:"sid"`
}

type CustomerProfileRequest struct {
	FriendlyName string
	Email        string
	PolicyID     string
}

// EndUserRequest creates an identity record; Attributes is sent as a JSON object.
type EndUserRequest struct {
	FriendlyName string
	Type         string
	Attributes   map[string]string
}

type BrandRegistrationRequest struct {
	CustomerProfileID string
	BrandType         string
}

type BrandRegistration struct {
	ID     string `json:"sid"`
	Status string `json:"status"`
}

type MessagingServiceRequest struct {
	FriendlyName      string
	InboundRequestURL string
}

type CampaignRequest struct {
	BrandRegistrationID string
	Description         string
	MessageFlow         string
	MessageSamples      []string
	UseCase             string
	HasEmbeddedLinks    bool
	HasEmbeddedPhone    bool
}

type Campaign struct {
	ID             string `json:"sid"`
	CampaignID     string `json:"campaign_id"`
	CampaignStatus string `json:"campaign_status"`
}

// Portability is the provider's view of whether a number can be ported in.
type Portability struct {
	PhoneNumber                 string `json:"phone_number"`
	Portable                    bool   `json:"portable"`
	NotPortableReason           string `json:"not_portable_reason"`
	NotPortableReasonCode       int    `json:"not_portable_reason_code"`
	NumberType                  string `json:"number_type"`
	Country                     string `json:"country"`
	PinAndAccountNumberRequired bool   `json:"pin_and_account_number_required"`
}

type PortInAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type LosingCarrierInformation struct {
	CustomerType                  string         `json:"customer_type"`
	CustomerName                  string         `json:"customer_name"`
	AuthorizedRepresentative      string         `json:"authorized_representative"`
	AuthorizedRepresentativeEmail string         `json:"authorized_representative_email"`
	AccountTelephoneNumber        string         `json:"account_telephone_number"`
	AccountNumber                 string         `json:"account_number,omitempty"`
	Address                       *PortInAddress `json:"address,omitempty"`
}

type PortInPhoneNumber struct {
	PhoneNumber string `json:"phone_number"`
}

// PortInRequest is serialized as the provider's JSON port-in payload.
type PortInRequest struct {
	PhoneNumbers             []PortInPhoneNumber      `json:"phone_numbers"`
	LosingCarrierInformation LosingCarrierInformation `json:"losing_carrier_information"`
	NotificationEmails       []string                 `json:"notification_emails"`
	TargetPortInDate         string                   `json:"target_port_in_date"`
}

type PortIn struct {
	ID     string `json:"port_in_request_sid"`
	Status string `json:"port_in_request_status"`
	// SID is sent instead of port_in_request_sid by some API versions.
	SID string `json:"sid,omitempty"`
}

func (p *PortIn) fillID() {
	if p.ID == "" {
		p.ID = p.SID
	}
}

type NumberSearchRequest struct {
	AreaCode string
	Contains string
	Limit    int
}

type AvailableNumber struct {
	PhoneNumber  string `json:"phone_number"`
	FriendlyName string `json:"friendly_name"`
	Locality     string `json:"locality"`
	Region       string `json:"region"`
}

type PurchasedNumber struct {
	ID          string `json:"sid"`
	PhoneNumber string `json:"phone_number"`
}
