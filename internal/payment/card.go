package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aloepure/storefront/internal/domain"
)

// CardProvider creates single-use hosted-checkout sessions with the card
// network's API. Amounts are integer minor currency units, recomputed here
// from the cart; nothing client-submitted is trusted.
type CardProvider struct {
	secretKey   string
	apiURL      string
	checkoutURL string
	currency    string
	client      *http.Client
	now         func() time.Time
}

func NewCardProvider(secretKey, apiURL, checkoutURL, currency string, client *http.Client) *CardProvider {
	return &CardProvider{
		secretKey:   secretKey,
		apiURL:      apiURL,
		checkoutURL: checkoutURL,
		currency:    currency,
		client:      client,
		now:         time.Now,
	}
}

type orderDetail struct {
	Billing  billingDetail     `json:"billing"`
	Shipping *domain.Address   `json:"shipping"`
	Items    []domain.CartItem `json:"items"`
}

type billingDetail struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type sessionResponse struct {
	ID string `json:"id"`
}

func (p *CardProvider) Initiate(ctx context.Context, details domain.CheckoutDetails, items []domain.CartItem) (RedirectTarget, error) {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	amount := int64(math.Round(total * 100))

	detail := orderDetail{
		Billing: billingDetail{
			Name:       details.FirstName + " " + details.LastName,
			Email:      details.Email,
			Address:    details.Billing.Address,
			City:       details.Billing.City,
			PostalCode: details.Billing.PostalCode,
			Country:    details.Billing.Country,
			Phone:      details.Phone,
		},
		Items: items,
	}
	if !details.SameAsBilling {
		detail.Shipping = details.Shipping
	}

	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return RedirectTarget{}, fmt.Errorf("marshal order detail: %w", err)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", p.currency)
	form.Add("payment_method_types[]", "card")
	form.Set("metadata[order_date_time]", p.now().UTC().Format(time.RFC3339))
	form.Set("metadata[order_details]", string(detailJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return RedirectTarget{}, fmt.Errorf("create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return RedirectTarget{}, &ProviderError{Provider: "card", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return RedirectTarget{}, &ProviderError{
			Provider: "card",
			Err:      fmt.Errorf("session creation returned status %d: %s", resp.StatusCode, body),
		}
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return RedirectTarget{}, &ProviderError{Provider: "card", Err: fmt.Errorf("decode session response: %w", err)}
	}
	if session.ID == "" {
		return RedirectTarget{}, &ProviderError{Provider: "card", Err: fmt.Errorf("session response missing id")}
	}

	return RedirectTarget{
		URL:       p.checkoutURL + "/" + session.ID,
		SessionID: session.ID,
	}, nil
}
