package forum

import (
	"context"
	"fmt"
	"net/url"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/gateway"
)

// MembershipPriceCents is the gold membership price, in cents.
const MembershipPriceCents = 4999

// PaymentsService handles the membership upgrade flow. Card tokenization
// and charging stay with the external payment processor; the client only
// creates the intent and records the resulting tier change.
type PaymentsService struct {
	gw *gateway.Gateway
}

// CreateMembershipIntent creates a payment intent for the gold membership
// and returns the processor's client secret for confirmation.
func (s *PaymentsService) CreateMembershipIntent(ctx context.Context, amountCents int) (string, error) {
	if amountCents <= 0 {
		amountCents = MembershipPriceCents
	}
	body := map[string]int{"amount": amountCents}
	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := s.gw.PostJSON(ctx, "/create-membership-intent", body, &out); err != nil {
		return "", fmt.Errorf("create membership intent: %w", err)
	}
	if out.ClientSecret == "" {
		return "", fmt.Errorf("create membership intent: empty client secret")
	}
	return out.ClientSecret, nil
}

// RecordUpgrade marks the user as gold after a confirmed payment. The
// caller must refresh the role resolver so the guard sees the new tier.
func (s *PaymentsService) RecordUpgrade(ctx context.Context, userID string) error {
	body := map[string]domainauth.Role{"role": domainauth.RoleGold}
	if err := s.gw.PatchJSON(ctx, "/user/role/"+url.PathEscape(userID), body, nil); err != nil {
		return fmt.Errorf("record membership upgrade: %w", err)
	}
	return nil
}
