package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsms/golang_services/internal/core_domain"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *TwilioGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTwilioGateway(TwilioConfig{
		AccountSID:        "AC123",
		AuthToken:         "token",
		TrustHubPolicySID: "RNpolicy",
		TrustHubBaseURL:   server.URL,
		MessagingBaseURL:  server.URL,
		NumbersBaseURL:    server.URL,
		APIBaseURL:        server.URL,
		CallTimeout:       2 * time.Second,
	}, logger, server.Client())
}

func TestTwilioGateway_Name(t *testing.T) {
	g := NewTwilioGateway(TwilioConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	assert.Equal(t, "twilio", g.Name())
	assert.True(t, IsAvailable(g))
}

func TestTwilioGateway_CreateCustomerProfile(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/CustomerProfiles", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Acme Clinic - Health SMS", r.PostForm.Get("FriendlyName"))
		assert.Equal(t, "ops@acme.test", r.PostForm.Get("Email"))
		assert.Equal(t, "RNpolicy", r.PostForm.Get("PolicySid"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sid":"BU123","status":"draft"}`)
	})

	res, err := g.CreateCustomerProfile(context.Background(), CustomerProfileRequest{
		FriendlyName: "Acme Clinic - Health SMS",
		Email:        "ops@acme.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "BU123", res.ID)
}

func TestTwilioGateway_CreateEndUser_SendsAttributesAsJSON(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/EndUsers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "customer_profile_business_information", r.PostForm.Get("Type"))

		var attrs map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("Attributes")), &attrs))
		assert.Equal(t, "EIN", attrs["business_registration_identifier"])
		fmt.Fprint(w, `{"sid":"IT1"}`)
	})

	res, err := g.CreateEndUser(context.Background(), EndUserRequest{
		FriendlyName: "Acme",
		Type:         "customer_profile_business_information",
		Attributes:   map[string]string{"business_registration_identifier": "EIN"},
	})
	require.NoError(t, err)
	assert.Equal(t, "IT1", res.ID)
}

func TestTwilioGateway_CreateCampaign_RepeatsMessageSamples(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Services/MG1/Compliance/Usa2p", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, []string{"one", "two"}, r.PostForm["MessageSamples"])
		assert.Equal(t, "MIXED", r.PostForm.Get("UsAppToPersonUsecase"))
		assert.Equal(t, "false", r.PostForm.Get("HasEmbeddedLinks"))
		assert.Equal(t, "true", r.PostForm.Get("HasEmbeddedPhone"))
		fmt.Fprint(w, `{"sid":"QE1","campaign_status":"PENDING"}`)
	})

	c, err := g.CreateCampaign(context.Background(), "MG1", CampaignRequest{
		BrandRegistrationID: "BN1",
		MessageSamples:      []string{"one", "two"},
		UseCase:             "MIXED",
		HasEmbeddedPhone:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "QE1", c.ID)
	assert.Equal(t, "PENDING", c.CampaignStatus)
}

func TestTwilioGateway_ListCampaigns(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `{"compliance":[{"sid":"QE1","campaign_status":"VERIFIED"},{"sid":"QE2","campaign_status":"FAILED"}]}`)
	})

	campaigns, err := g.ListCampaigns(context.Background(), "MG1")
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, "VERIFIED", campaigns[0].CampaignStatus)
}

func TestTwilioGateway_CheckPortability(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Porting/Portability/PhoneNumber/+19495551234", r.URL.Path)
		fmt.Fprint(w, `{"phone_number":"+19495551234","portable":false,"not_portable_reason":"NO_PORTING_AVAILABLE","not_portable_reason_code":22131,"number_type":"LOCAL","country":"US","pin_and_account_number_required":true}`)
	})

	p, err := g.CheckPortability(context.Background(), "+19495551234")
	require.NoError(t, err)
	assert.False(t, p.Portable)
	assert.Equal(t, "NO_PORTING_AVAILABLE", p.NotPortableReason)
	assert.Equal(t, 22131, p.NotPortableReasonCode)
	assert.True(t, p.PinAndAccountNumberRequired)
}

func TestTwilioGateway_SubmitPortIn_SendsJSON(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Porting/PortIn", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-01-11", body["target_port_in_date"])
		lci := body["losing_carrier_information"].(map[string]any)
		assert.Equal(t, "Business", lci["customer_type"])
		_, hasAddress := lci["address"]
		assert.False(t, hasAddress)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"port_in_request_sid":"KW123","port_in_request_status":"In Review"}`)
	})

	res, err := g.SubmitPortIn(context.Background(), PortInRequest{
		PhoneNumbers: []PortInPhoneNumber{{PhoneNumber: "+19495551234"}},
		LosingCarrierInformation: LosingCarrierInformation{
			CustomerType: "Business",
			CustomerName: "Jane",
		},
		NotificationEmails: []string{"jane@acme.test"},
		TargetPortInDate:   "2025-01-11",
	})
	require.NoError(t, err)
	assert.Equal(t, "KW123", res.ID)
}

func TestTwilioGateway_PortIn_FallsBackToSid(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		fmt.Fprint(w, `{"sid":"KW777","port_in_request_status":"In Review"}`)
	})

	res, err := g.SubmitPortIn(context.Background(), PortInRequest{
		PhoneNumbers: []PortInPhoneNumber{{PhoneNumber: "+19495551234"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "KW777", res.ID)

	res, err = g.FetchPortIn(context.Background(), "KW777")
	require.NoError(t, err)
	assert.Equal(t, "KW777", res.ID)
	assert.Equal(t, "In Review", res.Status)
}

func TestTwilioGateway_APIError_NotFound(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":20404,"message":"The requested resource was not found","more_info":"https://www.twilio.com/docs/errors/20404","status":404}`)
	})

	_, err := g.CheckPortability(context.Background(), "+19495551234")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, 20404, apiErr.Code)
	assert.Equal(t, "twilio", apiErr.Provider)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, core_domain.ErrRemoteCallFailed)
}

func TestTwilioGateway_APIError_NonJSONBody(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "upstream exploded")
	})

	err := g.AddNumberToMessagingService(context.Background(), "MG1", "PN1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.Contains(t, err.Error(), "status 500")
}

func TestTwilioGateway_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	g := NewTwilioGateway(TwilioConfig{
		AccountSID:       "AC123",
		AuthToken:        "token",
		MessagingBaseURL: server.URL,
		CallTimeout:      time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	_, err := g.FetchBrandRegistration(context.Background(), "BN1")
	require.Error(t, err)
	assert.ErrorIs(t, err, core_domain.ErrRemoteCallFailed)
	assert.False(t, IsNotFound(err))
}

func TestTwilioGateway_CallTimeout(t *testing.T) {
	release := make(chan struct{})
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	g.cfg.CallTimeout = 50 * time.Millisecond

	start := time.Now()
	_, err := g.FetchPortIn(context.Background(), "KW1")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, core_domain.ErrRemoteCallFailed)
}

func TestTwilioGateway_SearchAvailableNumbers(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/AvailablePhoneNumbers/US/Local.json", r.URL.Path)
		assert.Equal(t, "949", r.URL.Query().Get("AreaCode"))
		fmt.Fprint(w, `{"available_phone_numbers":[{"phone_number":"+19495550100","friendly_name":"(949) 555-0100","locality":"Irvine","region":"CA"}]}`)
	})

	nums, err := g.SearchAvailableNumbers(context.Background(), NumberSearchRequest{AreaCode: "949"})
	require.NoError(t, err)
	require.Len(t, nums, 1)
	assert.Equal(t, "Irvine", nums[0].Locality)
}

func TestUnavailableGateway(t *testing.T) {
	var g Gateway = UnavailableGateway{}
	assert.False(t, IsAvailable(g))
	assert.False(t, IsAvailable(nil))

	_, err := g.CheckPortability(context.Background(), "+19495551234")
	assert.ErrorIs(t, err, core_domain.ErrProviderUnavailable)
	assert.Equal(t, "Twilio not configured.", core_domain.UserMessage(err, ""))
}

func TestMockGateway_AutoApproveAndFailures(t *testing.T) {
	m := NewMockGateway(slog.New(slog.NewTextHandler(io.Discard, nil)), true, 0)
	ctx := context.Background()

	brand, err := m.CreateBrandRegistration(ctx, BrandRegistrationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", brand.Status)

	fetched, err := m.FetchBrandRegistration(ctx, brand.ID)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", fetched.Status)

	_, err = m.FetchBrandRegistration(ctx, "BNmissing")
	assert.True(t, IsNotFound(err))

	m.FailOperations["CreateCampaign"] = true
	_, err = m.CreateCampaign(ctx, "MG1", CampaignRequest{})
	assert.ErrorIs(t, err, core_domain.ErrRemoteCallFailed)

	port, err := m.SubmitPortIn(ctx, PortInRequest{})
	require.NoError(t, err)
	m.SetPortInStatus(port.ID, "Completed")
	got, err := m.FetchPortIn(ctx, port.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", got.Status)
}
