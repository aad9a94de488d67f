package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aloepure/storefront/internal/domain"
)

func cardDetails() domain.CheckoutDetails {
	return domain.CheckoutDetails{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Phone:     "+919876543210",
		Billing: domain.Address{
			Address:    "12 MG Road",
			City:       "Bengaluru",
			PostalCode: "560001",
			Country:    "India",
		},
		SameAsBilling: true,
		PaymentMethod: domain.PaymentMethodCard,
	}
}

func TestCardProvider_Initiate(t *testing.T) {
	t.Run("sends the recomputed amount in minor units", func(t *testing.T) {
		var gotForm map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_123" {
				t.Errorf("expected bearer auth, got %q", auth)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			gotForm = map[string]string{
				"amount":   r.PostFormValue("amount"),
				"currency": r.PostFormValue("currency"),
				"types":    r.PostFormValue("payment_method_types[]"),
				"details":  r.PostFormValue("metadata[order_details]"),
				"datetime": r.PostFormValue("metadata[order_date_time]"),
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"cs_test_123"}`))
		}))
		defer server.Close()

		p := NewCardProvider("sk_test_123", server.URL, "https://checkout.example.com/pay", "inr", server.Client())

		items := []domain.CartItem{{ID: "prod-001", Title: "Aloe Vera Gel", Price: 19.99, Quantity: 2}}
		target, err := p.Initiate(context.Background(), cardDetails(), items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotForm["amount"] != "3998" {
			t.Errorf("expected amount 3998 minor units, got %s", gotForm["amount"])
		}
		if gotForm["currency"] != "inr" {
			t.Errorf("expected currency inr, got %s", gotForm["currency"])
		}
		if gotForm["types"] != "card" {
			t.Errorf("expected payment_method_types card, got %s", gotForm["types"])
		}
		if gotForm["datetime"] == "" {
			t.Error("expected order timestamp in metadata")
		}

		var detail orderDetail
		if err := json.Unmarshal([]byte(gotForm["details"]), &detail); err != nil {
			t.Fatalf("order details metadata is not valid JSON: %v", err)
		}
		if detail.Billing.Name != "Asha Rao" {
			t.Errorf("expected billing name Asha Rao, got %s", detail.Billing.Name)
		}
		if detail.Shipping != nil {
			t.Error("expected nil shipping when same as billing")
		}
		if len(detail.Items) != 1 {
			t.Errorf("expected 1 line item in metadata, got %d", len(detail.Items))
		}

		if target.SessionID != "cs_test_123" {
			t.Errorf("expected session id cs_test_123, got %s", target.SessionID)
		}
		if target.URL != "https://checkout.example.com/pay/cs_test_123" {
			t.Errorf("unexpected redirect URL: %s", target.URL)
		}
	})

	t.Run("includes the shipping address when separate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			var detail orderDetail
			if err := json.Unmarshal([]byte(r.PostFormValue("metadata[order_details]")), &detail); err != nil {
				t.Fatalf("order details metadata is not valid JSON: %v", err)
			}
			if detail.Shipping == nil || detail.Shipping.City != "Kolkata" {
				t.Errorf("expected shipping address in metadata, got %+v", detail.Shipping)
			}
			_, _ = w.Write([]byte(`{"id":"cs_test_456"}`))
		}))
		defer server.Close()

		p := NewCardProvider("sk_test_123", server.URL, "https://checkout.example.com/pay", "inr", server.Client())

		details := cardDetails()
		details.SameAsBilling = false
		details.Shipping = &domain.Address{Address: "45 Park Street", City: "Kolkata", PostalCode: "700016", Country: "India"}

		if _, err := p.Initiate(context.Background(), details, []domain.CartItem{{ID: "prod-001", Price: 19.99, Quantity: 1}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("provider rejection is a ProviderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":"card declined"}`))
		}))
		defer server.Close()

		p := NewCardProvider("sk_test_123", server.URL, "https://checkout.example.com/pay", "inr", server.Client())

		_, err := p.Initiate(context.Background(), cardDetails(), []domain.CartItem{{ID: "prod-001", Price: 19.99, Quantity: 1}})

		var perr *ProviderError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ProviderError, got %v", err)
		}
		if perr.Provider != "card" {
			t.Errorf("expected provider card, got %s", perr.Provider)
		}
	})

	t.Run("unreachable provider is a ProviderError", func(t *testing.T) {
		p := NewCardProvider("sk_test_123", "http://127.0.0.1:1", "https://checkout.example.com/pay", "inr", &http.Client{})

		_, err := p.Initiate(context.Background(), cardDetails(), []domain.CartItem{{ID: "prod-001", Price: 19.99, Quantity: 1}})

		var perr *ProviderError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ProviderError, got %v", err)
		}
	})

	t.Run("missing session id is a ProviderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		p := NewCardProvider("sk_test_123", server.URL, "https://checkout.example.com/pay", "inr", server.Client())

		_, err := p.Initiate(context.Background(), cardDetails(), []domain.CartItem{{ID: "prod-001", Price: 19.99, Quantity: 1}})

		var perr *ProviderError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ProviderError, got %v", err)
		}
	})
}
