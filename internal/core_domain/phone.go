package core_domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotANumber is returned by NormalizeE164 for input that cannot be read as a phone number.
var ErrNotANumber = errors.New("not a valid phone number")

// NormalizeE164 maps user input to a canonical E.164 number.
// Accepted shapes: 10 US digits, 11 digits starting with 1, or "+" followed by at least 10 digits.
// Formatting characters (spaces, dashes, parentheses, dots) are ignored.
func NormalizeE164(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrNotANumber
	}

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "+1" + digits, nil
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits, nil
	case strings.HasPrefix(trimmed, "+") && len(digits) >= 10:
		return "+" + digits, nil
	}
	return "", ErrNotANumber
}

// A2PStatus tracks whether a number is cleared to send application-to-person SMS.
type A2PStatus string

const (
	A2PStatusNone     A2PStatus = "none"
	A2PStatusPending  A2PStatus = "pending"
	A2PStatusApproved A2PStatus = "approved"
)

// PhoneNumber is an organization-owned number held in the provider account.
type PhoneNumber struct {
	ID                            uuid.UUID  `json:"id"`
	OrgID                         uuid.UUID  `json:"-"`
	E164Number                    string     `json:"e164Number"`
	Label                         *string    `json:"label"`
	ProviderNumberID              *string    `json:"providerSid"`
	CallForwardTo                 *string    `json:"callForwardTo"` // legacy, kept in sync with the authorized number
	CallForwardAuthorizedNumberID *uuid.UUID `json:"callForwardAuthorizedNumberId"`
	A2PStatus                     A2PStatus  `json:"a2pStatus"`
	CreatedAt                     time.Time  `json:"createdAt"`
}
