package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/healthsms/golang_services/internal/platform/messagebroker"
	"github.com/healthsms/golang_services/internal/porting_service/domain"
)

type MockPortRequestRepository struct {
	mock.Mock
}

func (m *MockPortRequestRepository) Create(ctx context.Context, pr *domain.PortRequest) error {
	return m.Called(ctx, pr).Error(0)
}

func (m *MockPortRequestRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]domain.PortRequest, error) {
	args := m.Called(ctx, orgID)
	prs, _ := args.Get(0).([]domain.PortRequest)
	return prs, args.Error(1)
}

func (m *MockPortRequestRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.PortRequest, error) {
	args := m.Called(ctx, orgID, id)
	pr, _ := args.Get(0).(*domain.PortRequest)
	return pr, args.Error(1)
}

func (m *MockPortRequestRepository) ApplyStatusUpdate(ctx context.Context, u domain.PortStatusUpdate) ([]domain.PortRequestRef, error) {
	args := m.Called(ctx, u)
	refs, _ := args.Get(0).([]domain.PortRequestRef)
	return refs, args.Error(1)
}

// memoryCache is a map-backed PortabilityCache.
type memoryCache struct {
	entries map[string]*domain.PortabilityResult
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*domain.PortabilityResult{}}
}

func (c *memoryCache) Get(_ context.Context, e164 string) (*domain.PortabilityResult, bool) {
	r, ok := c.entries[e164]
	return r, ok
}

func (c *memoryCache) Set(_ context.Context, e164 string, r *domain.PortabilityResult) {
	c.entries[e164] = r
}

type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ []byte) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvents() *messagebroker.EventPublisher {
	return messagebroker.NewEventPublisher(nil, testLogger())
}

func strPtr(s string) *string { return &s }
