package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/healthsms/golang_services/internal/compliance_service/domain"
	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/provider"
	"github.com/healthsms/golang_services/internal/provider/providertest"
)

func newBrandManager(orgRepo *MockOrganizationRepository, gw provider.Gateway) *BrandRegistrationManager {
	return NewBrandRegistrationManager(orgRepo, gw, testEvents(), testLogger(), "RNpolicy", "compliance@healthsms.com")
}

func validBusinessInfo() domain.BusinessInfo {
	return domain.BusinessInfo{
		LegalName: "Acme Family Clinic LLC",
		TaxID:     "12-3456789",
		Address:   domain.Address{Street: "1 Main St", City: "Irvine", State: "CA", Zip: "92618"},
	}
}

func TestRegisterBrand_ProviderUnavailable(t *testing.T) {
	orgRepo := new(MockOrganizationRepository)
	m := newBrandManager(orgRepo, provider.UnavailableGateway{})

	_, err := m.RegisterBrand(context.Background(), uuid.New(), "a@b.test", validBusinessInfo())
	require.Error(t, err)
	assert.ErrorIs(t, err, core_domain.ErrProviderUnavailable)
	orgRepo.AssertNotCalled(t, "SaveBusinessInfo", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterBrand_RequiresLegalNameAndTaxID(t *testing.T) {
	orgRepo := new(MockOrganizationRepository)
	gw := new(providertest.MockGateway)
	m := newBrandManager(orgRepo, gw)

	info := validBusinessInfo()
	info.TaxID = "   "
	_, err := m.RegisterBrand(context.Background(), uuid.New(), "a@b.test", info)
	assert.ErrorIs(t, err, core_domain.ErrInvalidInput)
	assert.Equal(t, "Business name and EIN are required", core_domain.UserMessage(err, ""))

	info = validBusinessInfo()
	info.BrandType = "NONPROFIT"
	_, err = m.RegisterBrand(context.Background(), uuid.New(), "a@b.test", info)
	assert.ErrorIs(t, err, core_domain.ErrInvalidInput)

	orgRepo.AssertNotCalled(t, "SaveBusinessInfo", mock.Anything, mock.Anything, mock.Anything)
	gw.AssertExpectations(t)
}

func TestRegisterBrand_FullSuccess(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	orgRepo := new(MockOrganizationRepository)
	gw := new(providertest.MockGateway)
	m := newBrandManager(orgRepo, gw)

	info := validBusinessInfo()
	saved := info
	saved.BrandType = domain.BrandTypeSoleProprietor

	orgRepo.On("SaveBusinessInfo", ctx, orgID, saved).Return(nil).Once()
	gw.On("CreateCustomerProfile", ctx, provider.CustomerProfileRequest{
		FriendlyName: "Acme Family Clinic LLC - Health SMS",
		Email:        "owner@acme.test",
		PolicyID:     "RNpolicy",
	}).Return(&provider.Resource{ID: "BU1"}, nil).Once()
	gw.On("CreateEndUser", ctx, mock.MatchedBy(func(req provider.EndUserRequest) bool {
		return req.Type == "customer_profile_business_information" &&
			req.Attributes["business_type"] == "Sole Proprietorship" &&
			req.Attributes["business_registration_number"] == "12-3456789" &&
			req.Attributes["business_regions_of_operation"] == "USA_AND_CANADA"
	})).Return(&provider.Resource{ID: "IT1"}, nil).Once()
	gw.On("AttachEntityToProfile", ctx, "BU1", "IT1").Return(nil).Once()
	gw.On("SubmitProfileForReview", ctx, "BU1").Return(nil).Once()
	gw.On("CreateBrandRegistration", ctx, provider.BrandRegistrationRequest{
		CustomerProfileID: "BU1",
		BrandType:         "SOLE_PROPRIETOR",
	}).Return(&provider.BrandRegistration{ID: "BN1", Status: ""}, nil).Once()
	orgRepo.On("SetBrandRegistration", ctx, orgID, "BU1", "BN1", domain.StatusPending).Return(nil).Once()

	res, err := m.RegisterBrand(ctx, orgID, "owner@acme.test", info)
	require.NoError(t, err)
	require.NotNil(t, res.BrandSID)
	assert.Equal(t, "BN1", *res.BrandSID)
	assert.Equal(t, domain.StatusPending, res.BrandStatus)
	assert.Equal(t, msgBrandSubmitted, res.Message)

	orgRepo.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestRegisterBrand_ApprovedImmediately_StandardBrand(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	orgRepo := new(MockOrganizationRepository)
	gw := new(providertest.MockGateway)
	m := newBrandManager(orgRepo, gw)

	info := validBusinessInfo()
	info.BrandType = domain.BrandTypeStandard

	orgRepo.On("SaveBusinessInfo", ctx, orgID, info).Return(nil)
	gw.On("CreateCustomerProfile", ctx, mock.MatchedBy(func(req provider.CustomerProfileRequest) bool {
		return req.Email == "compliance@healthsms.com"
	})).Return(&provider.Resource{ID: "BU1"}, nil)
	gw.On("CreateEndUser", ctx, mock.MatchedBy(func(req provider.EndUserRequest) bool {
		return req.Attributes["business_type"] == "Corporation"
	})).Return(&provider.Resource{ID: "IT1"}, nil)
	gw.On("AttachEntityToProfile", ctx, "BU1", "IT1").Return(nil)
	gw.On("SubmitProfileForReview", ctx, "BU1").Return(nil)
	gw.On("CreateBrandRegistration", ctx, mock.MatchedBy(func(req provider.BrandRegistrationRequest) bool {
		return req.BrandType == "STANDARD"
	})).Return(&provider.BrandRegistration{ID: "BN9", Status: "APPROVED"}, nil)
	orgRepo.On("SetBrandRegistration", ctx, orgID, "BU1", "BN9", "APPROVED").Return(nil)

	res, err := m.RegisterBrand(ctx, orgID, "", info)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", res.BrandStatus)
	assert.Equal(t, msgBrandApproved, res.Message)
	gw.AssertExpectations(t)
}

func TestRegisterBrand_RemoteFailureDegradesToPending(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	orgRepo := new(MockOrganizationRepository)
	gw := new(providertest.MockGateway)
	m := newBrandManager(orgRepo, gw)

	orgRepo.On("SaveBusinessInfo", ctx, orgID, mock.Anything).Return(nil).Once()
	gw.On("CreateCustomerProfile", ctx, mock.Anything).Return(&provider.Resource{ID: "BU1"}, nil)
	gw.On("CreateEndUser", ctx, mock.Anything).Return(&provider.Resource{ID: "IT1"}, nil)
	gw.On("AttachEntityToProfile", ctx, "BU1", "IT1").
		Return(&provider.APIError{Provider: "twilio", Operation: "attach_entity", StatusCode: 400, Code: 21650})
	orgRepo.On("SetBrandStatus", ctx, orgID, domain.StatusPending).Return(nil).Once()

	res, err := m.RegisterBrand(ctx, orgID, "a@b.test", validBusinessInfo())
	require.NoError(t, err)
	assert.Nil(t, res.BrandSID)
	assert.Equal(t, domain.StatusPending, res.BrandStatus)
	assert.Contains(t, res.Message, "retry")

	gw.AssertNotCalled(t, "SubmitProfileForReview", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "CreateBrandRegistration", mock.Anything, mock.Anything)
	orgRepo.AssertNotCalled(t, "SetBrandRegistration", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	orgRepo.AssertExpectations(t)
}

func TestRegisterBrand_BusinessInfoPersistedEvenWhenFirstStepFails(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	orgRepo := new(MockOrganizationRepository)
	gw := new(providertest.MockGateway)
	m := newBrandManager(orgRepo, gw)

	orgRepo.On("SaveBusinessInfo", ctx, orgID, mock.Anything).Return(nil).Once()
	gw.On("CreateCustomerProfile", ctx, mock.Anything).Return(nil, errors.New("connection reset"))
	orgRepo.On("SetBrandStatus", ctx, orgID, domain.StatusPending).Return(nil).Once()

	res, err := m.RegisterBrand(ctx, orgID, "a@b.test", validBusinessInfo())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, res.BrandStatus)
	orgRepo.AssertExpectations(t)
}

func TestRegisterBrand_SaveBusinessInfoFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	orgRepo := new(MockOrganizationRepository)
	gw := new(providertest.MockGateway)
	m := newBrandManager(orgRepo, gw)

	dbErr := errors.New("db down")
	orgRepo.On("SaveBusinessInfo", ctx, orgID, mock.Anything).Return(dbErr)

	_, err := m.RegisterBrand(ctx, orgID, "a@b.test", validBusinessInfo())
	assert.ErrorIs(t, err, dbErr)
	gw.AssertNotCalled(t, "CreateCustomerProfile", mock.Anything, mock.Anything)
}
