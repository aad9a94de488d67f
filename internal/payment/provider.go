package payment

import (
	"context"

	"github.com/aloepure/storefront/internal/domain"
)

// RedirectTarget is where the browser goes next: a provider-hosted payment
// page, reached either directly by URL or through the provider's client
// library given the session id.
type RedirectTarget struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id,omitempty"`
}

// Provider is one payment strategy. Each implementation owns its amount
// computation end to end; the card provider bills in integer minor units
// while the instant-transfer provider bills in decimal major units, and the
// two must never share that logic.
type Provider interface {
	Initiate(ctx context.Context, details domain.CheckoutDetails, items []domain.CartItem) (RedirectTarget, error)
}
