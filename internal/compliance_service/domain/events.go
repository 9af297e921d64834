package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubjectBrandSubmitted    = "compliance.brand.submitted"
	SubjectCampaignSubmitted = "compliance.campaign.submitted"
	SubjectStatusRefreshed   = "compliance.status.refreshed"
)

type BrandSubmittedEvent struct {
	OrgID               uuid.UUID `json:"org_id"`
	BrandRegistrationID string    `json:"brand_registration_id,omitempty"`
	BrandStatus         string    `json:"brand_status"`
	Degraded            bool      `json:"degraded"`
	OccurredAt          time.Time `json:"occurred_at"`
}

type CampaignSubmittedEvent struct {
	OrgID              uuid.UUID `json:"org_id"`
	CampaignID         string    `json:"campaign_id,omitempty"`
	CampaignStatus     string    `json:"campaign_status"`
	MessagingServiceID string    `json:"messaging_service_id,omitempty"`
	NumbersAssociated  int       `json:"numbers_associated"`
	Degraded           bool      `json:"degraded"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type StatusRefreshedEvent struct {
	OrgID          uuid.UUID `json:"org_id"`
	BrandStatus    string    `json:"brand_status"`
	CampaignStatus string    `json:"campaign_status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
