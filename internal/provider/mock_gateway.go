package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const mockName = "mock"

// MockGateway is an in-memory provider for local development (PROVIDER_MODE=mock).
// Brands and campaigns are approved immediately when AutoApprove is set; port-ins stay "In Review".
type MockGateway struct {
	logger         *slog.Logger
	AutoApprove    bool
	SimulatedDelay time.Duration
	// FailOperations makes the named methods (e.g. "CreateCampaign") return an API error.
	FailOperations map[string]bool

	mu        sync.Mutex
	brands    map[string]string
	campaigns map[string][]Campaign
	portIns   map[string]string
}

func NewMockGateway(logger *slog.Logger, autoApprove bool, delay time.Duration) *MockGateway {
	return &MockGateway{
		logger:         logger.With("provider", mockName),
		AutoApprove:    autoApprove,
		SimulatedDelay: delay,
		FailOperations: map[string]bool{},
		brands:         map[string]string{},
		campaigns:      map[string][]Campaign{},
		portIns:        map[string]string{},
	}
}

func (m *MockGateway) Name() string { return mockName }

// begin simulates latency and configured failures for op.
func (m *MockGateway) begin(ctx context.Context, op string) error {
	timer := prometheus.NewTimer(providerRequestDurationHist.WithLabelValues(mockName, op))
	defer timer.ObserveDuration()

	if m.SimulatedDelay > 0 {
		select {
		case <-time.After(m.SimulatedDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	fail := m.FailOperations[op]
	m.mu.Unlock()
	if fail {
		m.logger.WarnContext(ctx, "Mock provider simulated failure", "operation", op)
		providerRequestsCounter.WithLabelValues(mockName, op, "api_error").Inc()
		return &APIError{Provider: mockName, Operation: op, StatusCode: 500, Message: "simulated failure"}
	}
	providerRequestsCounter.WithLabelValues(mockName, op, "success").Inc()
	return nil
}

func (m *MockGateway) status(approved, pending string) string {
	if m.AutoApprove {
		return approved
	}
	return pending
}

func mockSID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (m *MockGateway) CreateCustomerProfile(ctx context.Context, req CustomerProfileRequest) (*Resource, error) {
	if err := m.begin(ctx, "CreateCustomerProfile"); err != nil {
		return nil, err
	}
	return &Resource{ID: mockSID("BU")}, nil
}

func (m *MockGateway) CreateEndUser(ctx context.Context, req EndUserRequest) (*Resource, error) {
	if err := m.begin(ctx, "CreateEndUser"); err != nil {
		return nil, err
	}
	return &Resource{ID: mockSID("IT")}, nil
}

func (m *MockGateway) AttachEntityToProfile(ctx context.Context, profileID, objectID string) error {
	return m.begin(ctx, "AttachEntityToProfile")
}

func (m *MockGateway) SubmitProfileForReview(ctx context.Context, profileID string) error {
	return m.begin(ctx, "SubmitProfileForReview")
}

func (m *MockGateway) CreateBrandRegistration(ctx context.Context, req BrandRegistrationRequest) (*BrandRegistration, error) {
	if err := m.begin(ctx, "CreateBrandRegistration"); err != nil {
		return nil, err
	}
	b := BrandRegistration{ID: mockSID("BN"), Status: m.status("APPROVED", "PENDING")}
	m.mu.Lock()
	m.brands[b.ID] = b.Status
	m.mu.Unlock()
	return &b, nil
}

func (m *MockGateway) FetchBrandRegistration(ctx context.Context, brandID string) (*BrandRegistration, error) {
	if err := m.begin(ctx, "FetchBrandRegistration"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	status, ok := m.brands[brandID]
	m.mu.Unlock()
	if !ok {
		return nil, &APIError{Provider: mockName, Operation: "FetchBrandRegistration", StatusCode: 404, Code: notFoundCode, Message: "brand not found"}
	}
	return &BrandRegistration{ID: brandID, Status: status}, nil
}

func (m *MockGateway) CreateMessagingService(ctx context.Context, req MessagingServiceRequest) (*Resource, error) {
	if err := m.begin(ctx, "CreateMessagingService"); err != nil {
		return nil, err
	}
	return &Resource{ID: mockSID("MG")}, nil
}

func (m *MockGateway) CreateCampaign(ctx context.Context, serviceID string, req CampaignRequest) (*Campaign, error) {
	if err := m.begin(ctx, "CreateCampaign"); err != nil {
		return nil, err
	}
	c := Campaign{ID: mockSID("QE"), CampaignID: mockSID("C"), CampaignStatus: m.status("VERIFIED", "PENDING")}
	m.mu.Lock()
	m.campaigns[serviceID] = append(m.campaigns[serviceID], c)
	m.mu.Unlock()
	return &c, nil
}

func (m *MockGateway) ListCampaigns(ctx context.Context, serviceID string) ([]Campaign, error) {
	if err := m.begin(ctx, "ListCampaigns"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Campaign(nil), m.campaigns[serviceID]...), nil
}

func (m *MockGateway) AddNumberToMessagingService(ctx context.Context, serviceID, providerNumberID string) error {
	return m.begin(ctx, "AddNumberToMessagingService")
}

func (m *MockGateway) CheckPortability(ctx context.Context, e164 string) (*Portability, error) {
	if err := m.begin(ctx, "CheckPortability"); err != nil {
		return nil, err
	}
	return &Portability{PhoneNumber: e164, Portable: true, NumberType: "LOCAL", Country: "US"}, nil
}

func (m *MockGateway) SubmitPortIn(ctx context.Context, req PortInRequest) (*PortIn, error) {
	if err := m.begin(ctx, "SubmitPortIn"); err != nil {
		return nil, err
	}
	p := PortIn{ID: mockSID("KW"), Status: "In Review"}
	m.mu.Lock()
	m.portIns[p.ID] = p.Status
	m.mu.Unlock()
	m.logger.InfoContext(ctx, "Mock port-in accepted", "port_in_sid", p.ID, "numbers", len(req.PhoneNumbers))
	return &p, nil
}

func (m *MockGateway) FetchPortIn(ctx context.Context, portInID string) (*PortIn, error) {
	if err := m.begin(ctx, "FetchPortIn"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	status, ok := m.portIns[portInID]
	m.mu.Unlock()
	if !ok {
		return nil, &APIError{Provider: mockName, Operation: "FetchPortIn", StatusCode: 404, Code: notFoundCode, Message: "port in not found"}
	}
	return &PortIn{ID: portInID, Status: status}, nil
}

func (m *MockGateway) SearchAvailableNumbers(ctx context.Context, req NumberSearchRequest) ([]AvailableNumber, error) {
	if err := m.begin(ctx, "SearchAvailableNumbers"); err != nil {
		return nil, err
	}
	areaCode := req.AreaCode
	if areaCode == "" {
		areaCode = "555"
	}
	limit := req.Limit
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	out := make([]AvailableNumber, 0, limit)
	for i := 0; i < limit; i++ {
		n := fmt.Sprintf("+1%s555%04d", areaCode, 100+i)
		out = append(out, AvailableNumber{PhoneNumber: n, FriendlyName: n, Region: "CA"})
	}
	return out, nil
}

func (m *MockGateway) PurchaseNumber(ctx context.Context, e164 string) (*PurchasedNumber, error) {
	if err := m.begin(ctx, "PurchaseNumber"); err != nil {
		return nil, err
	}
	return &PurchasedNumber{ID: mockSID("PN"), PhoneNumber: e164}, nil
}

// SetPortInStatus lets development tooling move a simulated port-in forward.
func (m *MockGateway) SetPortInStatus(portInID, status string) {
	m.mu.Lock()
	m.portIns[portInID] = status
	m.mu.Unlock()
}
