package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/healthsms/golang_services/internal/compliance_service/domain"
	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/messagebroker"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, orgID uuid.UUID) (*domain.Organization, error) {
	args := m.Called(ctx, orgID)
	org, _ := args.Get(0).(*domain.Organization)
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) SaveBusinessInfo(ctx context.Context, orgID uuid.UUID, info domain.BusinessInfo) error {
	return m.Called(ctx, orgID, info).Error(0)
}

func (m *MockOrganizationRepository) SetBrandRegistration(ctx context.Context, orgID uuid.UUID, trustProfileID, brandRegistrationID, brandStatus string) error {
	return m.Called(ctx, orgID, trustProfileID, brandRegistrationID, brandStatus).Error(0)
}

func (m *MockOrganizationRepository) SetBrandStatus(ctx context.Context, orgID uuid.UUID, status string) error {
	return m.Called(ctx, orgID, status).Error(0)
}

func (m *MockOrganizationRepository) SetMessagingServiceIfAbsent(ctx context.Context, orgID uuid.UUID, serviceID string) (string, error) {
	args := m.Called(ctx, orgID, serviceID)
	return args.String(0), args.Error(1)
}

func (m *MockOrganizationRepository) SetCampaign(ctx context.Context, orgID uuid.UUID, campaignID, campaignStatus string) error {
	return m.Called(ctx, orgID, campaignID, campaignStatus).Error(0)
}

func (m *MockOrganizationRepository) SetCampaignStatus(ctx context.Context, orgID uuid.UUID, status string) error {
	return m.Called(ctx, orgID, status).Error(0)
}

type MockNumberRepository struct {
	mock.Mock
}

func (m *MockNumberRepository) ListWithProviderID(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error) {
	args := m.Called(ctx, orgID)
	nums, _ := args.Get(0).([]core_domain.PhoneNumber)
	return nums, args.Error(1)
}

func (m *MockNumberRepository) SetA2PStatusByProviderID(ctx context.Context, orgID uuid.UUID, providerNumberID string, status core_domain.A2PStatus) error {
	return m.Called(ctx, orgID, providerNumberID, status).Error(0)
}

func (m *MockNumberRepository) PromoteA2PStatus(ctx context.Context, orgID uuid.UUID, from, to core_domain.A2PStatus) (int64, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvents() *messagebroker.EventPublisher {
	return messagebroker.NewEventPublisher(nil, testLogger())
}

func strPtr(s string) *string { return &s }
