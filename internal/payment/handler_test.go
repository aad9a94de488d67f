package payment

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aloepure/storefront/internal/cart"
	"github.com/aloepure/storefront/internal/domain"
)

func handlerFixture(t *testing.T, card, transfer Provider) (*Handler, *cart.Sessions) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewService(card, transfer, logger)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	sessions := cart.NewSessions()
	return NewHandler(svc, sessions, logger), sessions
}

func checkoutJSON() string {
	return `{
		"first_name": "Asha",
		"last_name": "Rao",
		"email": "asha@example.com",
		"phone": "+919876543210",
		"billing": {"address": "12 MG Road", "city": "Bengaluru", "postal_code": "560001", "country": "India"},
		"same_as_billing": true
	}`
}

func TestHandler_HandleCreateTransfer(t *testing.T) {
	t.Run("returns the provider payment URL", func(t *testing.T) {
		transfer := &providerStub{target: RedirectTarget{URL: "https://pay.example.com/_payment?txnid=txn_1", SessionID: "txn_1"}}
		handler, sessions := handlerFixture(t, &providerStub{}, transfer)

		id, c := sessions.Create()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 2})

		req := httptest.NewRequest(http.MethodPost, "/api/create-upi-payment", strings.NewReader(checkoutJSON()))
		req.AddCookie(&http.Cookie{Name: cart.SessionCookie, Value: id})
		rec := httptest.NewRecorder()

		handler.HandleCreateTransfer(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp createTransferResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.PaymentURL != "https://pay.example.com/_payment?txnid=txn_1" {
			t.Errorf("unexpected payment URL: %s", resp.PaymentURL)
		}
	})

	t.Run("rejects a request without a cart session", func(t *testing.T) {
		handler, _ := handlerFixture(t, &providerStub{}, &providerStub{})

		req := httptest.NewRequest(http.MethodPost, "/api/create-upi-payment", strings.NewReader(checkoutJSON()))
		rec := httptest.NewRecorder()

		handler.HandleCreateTransfer(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("empty cart yields field errors with status 422", func(t *testing.T) {
		handler, sessions := handlerFixture(t, &forbiddenProvider{t}, &forbiddenProvider{t})

		id, _ := sessions.Create()

		req := httptest.NewRequest(http.MethodPost, "/api/create-upi-payment", strings.NewReader(checkoutJSON()))
		req.AddCookie(&http.Cookie{Name: cart.SessionCookie, Value: id})
		rec := httptest.NewRecorder()

		handler.HandleCreateTransfer(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", rec.Code)
		}

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if _, ok := resp.Errors["cart"]; !ok {
			t.Errorf("expected cart error, got %v", resp.Errors)
		}
	})
}

func TestHandler_HandleCreateCardSession(t *testing.T) {
	t.Run("returns the session id as the client secret", func(t *testing.T) {
		card := &providerStub{target: RedirectTarget{URL: "https://checkout.example.com/pay/cs_test_123", SessionID: "cs_test_123"}}
		handler, sessions := handlerFixture(t, card, &providerStub{})

		id, c := sessions.Create()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 2})

		req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(checkoutJSON()))
		req.AddCookie(&http.Cookie{Name: cart.SessionCookie, Value: id})
		rec := httptest.NewRecorder()

		handler.HandleCreateCardSession(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp createIntentResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ClientSecret != "cs_test_123" {
			t.Errorf("expected client secret cs_test_123, got %s", resp.ClientSecret)
		}
	})

	t.Run("provider failure maps to 502", func(t *testing.T) {
		card := &providerStub{err: &ProviderError{Provider: "card", Err: io.ErrUnexpectedEOF}}
		handler, sessions := handlerFixture(t, card, &providerStub{})

		id, c := sessions.Create()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 2})

		req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(checkoutJSON()))
		req.AddCookie(&http.Cookie{Name: cart.SessionCookie, Value: id})
		rec := httptest.NewRecorder()

		handler.HandleCreateCardSession(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
	})

	t.Run("invalid body is a 400", func(t *testing.T) {
		handler, _ := handlerFixture(t, &providerStub{}, &providerStub{})

		req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		handler.HandleCreateCardSession(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}
