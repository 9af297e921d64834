package provider

import (
	"context"

	"github.com/healthsms/golang_services/internal/core_domain"
)

// UnavailableGateway stands in when provider credentials are not configured.
// Every call fails with core_domain.ErrProviderUnavailable.
type UnavailableGateway struct{}

var errUnavailable = core_domain.NewError(core_domain.ErrProviderUnavailable, "Twilio not configured.")

// IsAvailable reports whether g can reach a real (or simulated) provider.
func IsAvailable(g Gateway) bool {
	if g == nil {
		return false
	}
	_, unavailable := g.(UnavailableGateway)
	if unavailable {
		return false
	}
	_, unavailable = g.(*UnavailableGateway)
	return !unavailable
}

func (UnavailableGateway) Name() string { return "unavailable" }

func (UnavailableGateway) CreateCustomerProfile(context.Context, CustomerProfileRequest) (*Resource, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) CreateEndUser(context.Context, EndUserRequest) (*Resource, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) AttachEntityToProfile(context.Context, string, string) error {
	return errUnavailable
}

func (UnavailableGateway) SubmitProfileForReview(context.Context, string) error {
	return errUnavailable
}

func (UnavailableGateway) CreateBrandRegistration(context.Context, BrandRegistrationRequest) (*BrandRegistration, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) FetchBrandRegistration(context.Context, string) (*BrandRegistration, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) CreateMessagingService(context.Context, MessagingServiceRequest) (*Resource, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) CreateCampaign(context.Context, string, CampaignRequest) (*Campaign, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) ListCampaigns(context.Context, string) ([]Campaign, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) AddNumberToMessagingService(context.Context, string, string) error {
	return errUnavailable
}

func (UnavailableGateway) CheckPortability(context.Context, string) (*Portability, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) SubmitPortIn(context.Context, PortInRequest) (*PortIn, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) FetchPortIn(context.Context, string) (*PortIn, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) SearchAvailableNumbers(context.Context, NumberSearchRequest) ([]AvailableNumber, error) {
	return nil, errUnavailable
}

func (UnavailableGateway) PurchaseNumber(context.Context, string) (*PurchasedNumber, error) {
	return nil, errUnavailable
}
