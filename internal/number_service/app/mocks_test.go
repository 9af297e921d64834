package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/number_service/domain"
)

type MockAuthorizedNumberRepository struct {
	mock.Mock
}

func (m *MockAuthorizedNumberRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.AuthorizedForwardNumber, error) {
	args := m.Called(ctx, orgID, id)
	n, _ := args.Get(0).(*domain.AuthorizedForwardNumber)
	return n, args.Error(1)
}

func (m *MockAuthorizedNumberRepository) GetByNumber(ctx context.Context, orgID uuid.UUID, e164 string) (*domain.AuthorizedForwardNumber, error) {
	args := m.Called(ctx, orgID, e164)
	n, _ := args.Get(0).(*domain.AuthorizedForwardNumber)
	return n, args.Error(1)
}

func (m *MockAuthorizedNumberRepository) UpsertApproved(ctx context.Context, orgID, userID uuid.UUID, e164 string, label *string) (*domain.AuthorizedForwardNumber, error) {
	args := m.Called(ctx, orgID, userID, e164, label)
	n, _ := args.Get(0).(*domain.AuthorizedForwardNumber)
	return n, args.Error(1)
}

func (m *MockAuthorizedNumberRepository) ListActive(ctx context.Context, orgID uuid.UUID) ([]domain.AuthorizedForwardNumber, error) {
	args := m.Called(ctx, orgID)
	ns, _ := args.Get(0).([]domain.AuthorizedForwardNumber)
	return ns, args.Error(1)
}

func (m *MockAuthorizedNumberRepository) Disable(ctx context.Context, orgID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockPhoneNumberRepository struct {
	mock.Mock
}

func (m *MockPhoneNumberRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error) {
	args := m.Called(ctx, orgID)
	ns, _ := args.Get(0).([]core_domain.PhoneNumber)
	return ns, args.Error(1)
}

func (m *MockPhoneNumberRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*core_domain.PhoneNumber, error) {
	args := m.Called(ctx, orgID, id)
	n, _ := args.Get(0).(*core_domain.PhoneNumber)
	return n, args.Error(1)
}

func (m *MockPhoneNumberRepository) UpdateForwarding(ctx context.Context, orgID, id uuid.UUID, forwardTo *string, authorizedID *uuid.UUID) (*core_domain.PhoneNumber, error) {
	args := m.Called(ctx, orgID, id, forwardTo, authorizedID)
	n, _ := args.Get(0).(*core_domain.PhoneNumber)
	return n, args.Error(1)
}

func (m *MockPhoneNumberRepository) EffectiveForwardTarget(ctx context.Context, e164 string) (*string, error) {
	args := m.Called(ctx, e164)
	s, _ := args.Get(0).(*string)
	return s, args.Error(1)
}

func (m *MockPhoneNumberRepository) Create(ctx context.Context, n *core_domain.PhoneNumber) error {
	return m.Called(ctx, n).Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func approvedNumber(orgID uuid.UUID, e164 string) *domain.AuthorizedForwardNumber {
	return &domain.AuthorizedForwardNumber{
		ID:         uuid.New(),
		OrgID:      orgID,
		E164Number: e164,
		Status:     domain.AuthorizedNumberApproved,
	}
}
