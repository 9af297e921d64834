package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/healthsms/golang_services/internal/public_api_service/middleware"
)

const testJWTSecret = "handler-test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testSession struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Token  string
}

func newSession(t *testing.T) testSession {
	t.Helper()
	s := testSession{UserID: uuid.New(), OrgID: uuid.New()}
	claims := middleware.Claims{
		UserID: s.UserID.String(),
		OrgID:  s.OrgID.String(),
		Email:  "owner@clinic.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	s.Token = token
	return s
}

// testHandlers builds a router where any handler left nil is backed by a handler
// with nil services; tests only hit the routes they wire.
type testHandlers struct {
	brands    BrandRegistrar
	campaigns CampaignRegistrar
	status    ComplianceStatusReader
	ports     PortRequestService
	ingestor  PortStatusIngester
	registry  ForwardingRegistry
	numbers   NumberService

	webhookToken string
}

func (th testHandlers) router() http.Handler {
	logger := testLogger()
	validate := validator.New()
	return NewRouter(RouterConfig{
		Compliance:       NewComplianceHandler(th.brands, th.campaigns, th.status, logger, validate),
		Porting:          NewPortingHandler(th.ports, th.ingestor, logger, validate),
		AuthorizedNumber: NewAuthorizedNumberHandler(th.registry, logger, validate),
		PhoneNumbers:     NewPhoneNumberHandler(th.numbers, logger, validate),
		JWTSecret:        testJWTSecret,
		WebhookAuthToken: th.webhookToken,
		PublicBaseURL:    "https://api.healthsms.test",
	}, logger)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func strPtr(s string) *string { return &s }
