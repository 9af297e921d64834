package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/healthsms/golang_services/internal/core_domain"
)

const twilioName = "twilio"

// TwilioConfig carries credentials and per-product base URLs.
type TwilioConfig struct {
	AccountSID        string
	AuthToken         string
	TrustHubPolicySID string

	TrustHubBaseURL  string
	MessagingBaseURL string
	NumbersBaseURL   string
	APIBaseURL       string

	CallTimeout  time.Duration
	RateLimitRPS float64
}

// TwilioGateway implements Gateway over Twilio's REST API.
type TwilioGateway struct {
	logger      *slog.Logger
	httpClient  *http.Client
	cfg         TwilioConfig
	rateLimiter *rate.Limiter
}

func NewTwilioGateway(cfg TwilioConfig, logger *slog.Logger, httpClient *http.Client) *TwilioGateway {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
		burst = int(cfg.RateLimitRPS * 2)
		if burst < 1 {
			burst = 1
		}
	}
	cfg.TrustHubBaseURL = strings.TrimRight(cfg.TrustHubBaseURL, "/")
	cfg.MessagingBaseURL = strings.TrimRight(cfg.MessagingBaseURL, "/")
	cfg.NumbersBaseURL = strings.TrimRight(cfg.NumbersBaseURL, "/")
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	return &TwilioGateway{
		logger:      logger.With("provider", twilioName),
		httpClient:  httpClient,
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(limit, burst),
	}
}

func (g *TwilioGateway) Name() string {
	return twilioName
}

// call performs one provider request. Exactly one of form and jsonBody may be non-nil.
// A non-2xx reply is returned as *APIError; out (if non-nil) receives the decoded 2xx body.
func (g *TwilioGateway) call(ctx context.Context, op, method, endpoint string, form url.Values, jsonBody any, out any) error {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: rate limiter: %w", twilioName, op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()

	timer := prometheus.NewTimer(providerRequestDurationHist.WithLabelValues(twilioName, op))
	defer timer.ObserveDuration()

	var body io.Reader
	contentType := ""
	switch {
	case jsonBody != nil:
		b, err := json.Marshal(jsonBody)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	case form != nil && method != http.MethodGet:
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case form != nil:
		endpoint += "?" + form.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	httpReq.SetBasicAuth(g.cfg.AccountSID, g.cfg.AuthToken)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	g.logger.DebugContext(ctx, "Sending provider request", "operation", op, "method", method, "url", endpoint)

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		providerRequestsCounter.WithLabelValues(twilioName, op, "transport_error").Inc()
		g.logger.ErrorContext(ctx, "Provider request failed", "operation", op, "error", err)
		return fmt.Errorf("%s %s: %w: %w", twilioName, op, core_domain.ErrRemoteCallFailed, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		providerRequestsCounter.WithLabelValues(twilioName, op, "transport_error").Inc()
		return fmt.Errorf("%s %s: reading response (status %d): %w: %w", twilioName, op, httpResp.StatusCode, core_domain.ErrRemoteCallFailed, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		providerRequestsCounter.WithLabelValues(twilioName, op, "api_error").Inc()
		apiErr := &APIError{Provider: twilioName, Operation: op, StatusCode: httpResp.StatusCode}
		if jsonErr := json.Unmarshal(respBody, apiErr); jsonErr != nil && len(respBody) > 0 && len(respBody) < 200 {
			apiErr.Message = string(respBody)
		}
		g.logger.WarnContext(ctx, "Provider returned error",
			"operation", op,
			"status_code", httpResp.StatusCode,
			"provider_code", apiErr.Code,
			"provider_message", apiErr.Message,
		)
		return apiErr
	}

	providerRequestsCounter.WithLabelValues(twilioName, op, "success").Inc()
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w: %w", twilioName, op, core_domain.ErrRemoteCallFailed, err)
	}
	return nil
}

func (g *TwilioGateway) CreateCustomerProfile(ctx context.Context, req CustomerProfileRequest) (*Resource, error) {
	policy := req.PolicyID
	if policy == "" {
		policy = g.cfg.TrustHubPolicySID
	}
	form := url.Values{}
	form.Set("FriendlyName", req.FriendlyName)
	form.Set("Email", req.Email)
	form.Set("PolicySid", policy)

	var res Resource
	if err := g.call(ctx, "create_customer_profile", http.MethodPost, g.cfg.TrustHubBaseURL+"/v1/CustomerProfiles", form, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *TwilioGateway) CreateEndUser(ctx context.Context, req EndUserRequest) (*Resource, error) {
	attrs, err := json.Marshal(req.Attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal end user attributes: %w", err)
	}
	form := url.Values{}
	form.Set("FriendlyName", req.FriendlyName)
	form.Set("Type", req.Type)
	form.Set("Attributes", string(attrs))

	var res Resource
	if err := g.call(ctx, "create_end_user", http.MethodPost, g.cfg.TrustHubBaseURL+"/v1/EndUsers", form, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *TwilioGateway) AttachEntityToProfile(ctx context.Context, profileID, objectID string) error {
	form := url.Values{}
	form.Set("ObjectSid", objectID)
	endpoint := fmt.Sprintf("%s/v1/CustomerProfiles/%s/EntityAssignments", g.cfg.TrustHubBaseURL, url.PathEscape(profileID))
	return g.call(ctx, "attach_entity", http.MethodPost, endpoint, form, nil, nil)
}

func (g *TwilioGateway) SubmitProfileForReview(ctx context.Context, profileID string) error {
	form := url.Values{}
	form.Set("Status", "pending-review")
	endpoint := fmt.Sprintf("%s/v1/CustomerProfiles/%s", g.cfg.TrustHubBaseURL, url.PathEscape(profileID))
	return g.call(ctx, "submit_profile", http.MethodPost, endpoint, form, nil, nil)
}

func (g *TwilioGateway) CreateBrandRegistration(ctx context.Context, req BrandRegistrationRequest) (*BrandRegistration, error) {
	form := url.Values{}
	form.Set("CustomerProfileBundleSid", req.CustomerProfileID)
	form.Set("BrandType", req.BrandType)

	var res BrandRegistration
	if err := g.call(ctx, "create_brand", http.MethodPost, g.cfg.MessagingBaseURL+"/v1/a2p/BrandRegistrations", form, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *TwilioGateway) FetchBrandRegistration(ctx context.Context, brandID string) (*BrandRegistration, error) {
	var res BrandRegistration
	endpoint := fmt.Sprintf("%s/v1/a2p/BrandRegistrations/%s", g.cfg.MessagingBaseURL, url.PathEscape(brandID))
	if err := g.call(ctx, "fetch_brand", http.MethodGet, endpoint, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *TwilioGateway) CreateMessagingService(ctx context.Context, req MessagingServiceRequest) (*Resource, error) {
	form := url.Values{}
	form.Set("FriendlyName", req.FriendlyName)
	if req.InboundRequestURL != "" {
		form.Set("InboundRequestUrl", req.InboundRequestURL)
	}

	var res Resource
	if err := g.call(ctx, "create_messaging_service", http.MethodPost, g.cfg.MessagingBaseURL+"/v1/Services", form, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *TwilioGateway) CreateCampaign(ctx context.Context, serviceID string, req CampaignRequest) (*Campaign, error) {
	form := url.Values{}
	form.Set("BrandRegistrationSid", req.BrandRegistrationID)
	form.Set("Description", req.Description)
	form.Set("MessageFlow", req.MessageFlow)
	for _, sample := range req.MessageSamples {
		form.Add("MessageSamples", sample)
	}
	form.Set("UsAppToPersonUsecase", req.UseCase)
	form.Set("HasEmbeddedLinks", strconv.FormatBool(req.HasEmbeddedLinks))
	form.Set("HasEmbeddedPhone", strconv.FormatBool(req.HasEmbeddedPhone))

	var res Campaign
	endpoint := fmt.Sprintf("%s/v1/Services/%s/Compliance/Usa2p", g.cfg.MessagingBaseURL, url.PathEscape(serviceID))
	if err := g.call(ctx, "create_campaign", http.MethodPost, endpoint, form, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *TwilioGateway) ListCampaigns(ctx context.Context, serviceID string) ([]Campaign, error) {
	var res struct {
		Compliance []Campaign `json:"compliance"`
	}
	endpoint := fmt.Sprintf("%s/v1/Services/%s/Compliance/Usa2p", g.cfg.MessagingBaseURL, url.PathEscape(serviceID))
	if err := g.call(ctx, "list_campaigns", http.MethodGet, endpoint, nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Compliance, nil
}

func (g *TwilioGateway) AddNumberToMessagingService(ctx context.Context, serviceID, providerNumberID string) error {
	form := url.Values{}
	form.Set("PhoneNumberSid", providerNumberID)
	endpoint := fmt.Sprintf("%s/v1/Services/%s/PhoneNumbers", g.cfg.MessagingBaseURL, url.PathEscape(serviceID))
	return g.call(ctx, "add_number_to_service", http.MethodPost, endpoint, form, nil, nil)
}

func (g *TwilioGateway) CheckPortability(ctx context.Context, e164 string) (*Portability, error) {
	var res Portability
	endpoint := fmt.Sprintf("%s/v1/Porting/Portability/PhoneNumber/%s", g.cfg.NumbersBaseURL, url.PathEscape(e164))
	if err := g.call(ctx, "check_portability", http.MethodGet, endpoint, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *TwilioGateway) SubmitPortIn(ctx context.Context, req PortInRequest) (*PortIn, error) {
	var res PortIn
	if err := g.call(ctx, "submit_port_in", http.MethodPost, g.cfg.NumbersBaseURL+"/v1/Porting/PortIn", nil, req, &res); err != nil {
		return nil, err
	}
	res.fillID()
	return &res, nil
}

func (g *TwilioGateway) FetchPortIn(ctx context.Context, portInID string) (*PortIn, error) {
	var res PortIn
	endpoint := fmt.Sprintf("%s/v1/Porting/PortIn/%s", g.cfg.NumbersBaseURL, url.PathEscape(portInID))
	if err := g.call(ctx, "fetch_port_in", http.MethodGet, endpoint, nil, nil, &res); err != nil {
		return nil, err
	}
	res.fillID()
	return &res, nil
}

func (g *TwilioGateway) SearchAvailableNumbers(ctx context.Context, req NumberSearchRequest) ([]AvailableNumber, error) {
	params := url.Values{}
	if req.AreaCode != "" {
		params.Set("AreaCode", req.AreaCode)
	}
	if req.Contains != "" {
		params.Set("Contains", req.Contains)
	}
	if req.Limit > 0 {
		params.Set("PageSize", strconv.Itoa(req.Limit))
	}
	params.Set("SmsEnabled", "true")
	params.Set("VoiceEnabled", "true")

	var res struct {
		AvailablePhoneNumbers []AvailableNumber `json:"available_phone_numbers"`
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/AvailablePhoneNumbers/US/Local.json", g.cfg.APIBaseURL, url.PathEscape(g.cfg.AccountSID))
	if err := g.call(ctx, "search_numbers", http.MethodGet, endpoint, params, nil, &res); err != nil {
		return nil, err
	}
	return res.AvailablePhoneNumbers, nil
}

func (g *TwilioGateway) PurchaseNumber(ctx context.Context, e164 string) (*PurchasedNumber, error) {
	form := url.Values{}
	form.Set("PhoneNumber", e164)

	var res PurchasedNumber
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/IncomingPhoneNumbers.json", g.cfg.APIBaseURL, url.PathEscape(g.cfg.AccountSID))
	if err := g.call(ctx, "purchase_number", http.MethodPost, endpoint, form, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
