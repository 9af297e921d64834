// Package providertest holds a testify mock of provider.Gateway for service tests.
package providertest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthsms/golang_services/internal/provider"
)

type MockGateway struct {
	mock.Mock
}

var _ provider.Gateway = (*MockGateway)(nil)

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreateCustomerProfile(ctx context.Context, req provider.CustomerProfileRequest) (*provider.Resource, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*provider.Resource)
	return res, args.Error(1)
}

func (m *MockGateway) CreateEndUser(ctx context.Context, req provider.EndUserRequest) (*provider.Resource, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*provider.Resource)
	return res, args.Error(1)
}

func (m *MockGateway) AttachEntityToProfile(ctx context.Context, profileID, objectID string) error {
	return m.Called(ctx, profileID, objectID).Error(0)
}

func (m *MockGateway) SubmitProfileForReview(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}

func (m *MockGateway) CreateBrandRegistration(ctx context.Context, req provider.BrandRegistrationRequest) (*provider.BrandRegistration, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*provider.BrandRegistration)
	return res, args.Error(1)
}

func (m *MockGateway) FetchBrandRegistration(ctx context.Context, brandID string) (*provider.BrandRegistration, error) {
	args := m.Called(ctx, brandID)
	res, _ := args.Get(0).(*provider.BrandRegistration)
	return res, args.Error(1)
}

func (m *MockGateway) CreateMessagingService(ctx context.Context, req provider.MessagingServiceRequest) (*provider.Resource, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*provider.Resource)
	return res, args.Error(1)
}

func (m *MockGateway) CreateCampaign(ctx context.Context, serviceID string, req provider.CampaignRequest) (*provider.Campaign, error) {
	args := m.Called(ctx, serviceID, req)
	res, _ := args.Get(0).(*provider.Campaign)
	return res, args.Error(1)
}

func (m *MockGateway) ListCampaigns(ctx context.Context, serviceID string) ([]provider.Campaign, error) {
	args := m.Called(ctx, serviceID)
	res, _ := args.Get(0).([]provider.Campaign)
	return res, args.Error(1)
}

func (m *MockGateway) AddNumberToMessagingService(ctx context.Context, serviceID, providerNumberID string) error {
	return m.Called(ctx, serviceID, providerNumberID).Error(0)
}

func (m *MockGateway) CheckPortability(ctx context.Context, e164 string) (*provider.Portability, error) {
	args := m.Called(ctx, e164)
	res, _ := args.Get(0).(*provider.Portability)
	return res, args.Error(1)
}

func (m *MockGateway) SubmitPortIn(ctx context.Context, req provider.PortInRequest) (*provider.PortIn, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*provider.PortIn)
	return res, args.Error(1)
}

func (m *MockGateway) FetchPortIn(ctx context.Context, portInID string) (*provider.PortIn, error) {
	args := m.Called(ctx, portInID)
	res, _ := args.Get(0).(*provider.PortIn)
	return res, args.Error(1)
}

func (m *MockGateway) SearchAvailableNumbers(ctx context.Context, req provider.NumberSearchRequest) ([]provider.AvailableNumber, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).([]provider.AvailableNumber)
	return res, args.Error(1)
}

func (m *MockGateway) PurchaseNumber(ctx context.Context, e164 string) (*provider.PurchasedNumber, error) {
	args := m.Called(ctx, e164)
	res, _ := args.Get(0).(*provider.PurchasedNumber)
	return res, args.Error(1)
}
