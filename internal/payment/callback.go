package payment

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/aloepure/storefront/internal/cart"
	"github.com/aloepure/storefront/internal/domain"
)

// EventPublisher is satisfied by the Kafka producer; it may be absent when
// the broker is not configured.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// CallbackHandler receives the provider's out-of-band success/failure
// notifications. A checkout attempt is pending until exactly one of the
// two callbacks arrives; there are no intermediate states and nothing is
// persisted while pending.
type CallbackHandler struct {
	sessions    *cart.Sessions
	producer    EventPublisher
	merchantKey string
	salt        string
	frontendURL string
	logger      *slog.Logger
}

func NewCallbackHandler(sessions *cart.Sessions, producer EventPublisher, merchantKey, salt, frontendURL string, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{
		sessions:    sessions,
		producer:    producer,
		merchantKey: merchantKey,
		salt:        salt,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// HandleSuccess serves POST /api/payment-success. The provider posts the
// transaction fields plus a response hash; a callback whose hash does not
// verify is rejected and the cart is left untouched, otherwise a forged
// post could mark an unpaid order as paid.
func (h *CallbackHandler) HandleSuccess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid callback payload", http.StatusBadRequest)
		return
	}

	status := r.PostFormValue("status")
	txnid := r.PostFormValue("txnid")
	amount := r.PostFormValue("amount")
	email := r.PostFormValue("email")
	firstname := r.PostFormValue("firstname")
	info := r.PostFormValue("productinfo")
	gotHash := r.PostFormValue("hash")

	want := ResponseHash(h.salt, status, email, firstname, info, amount, txnid, h.merchantKey)
	if gotHash == "" || subtle.ConstantTimeCompare([]byte(gotHash), []byte(want)) != 1 {
		h.logger.Error("rejected success callback with bad hash", "txnid", txnid)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	if status != "success" {
		h.logger.Error("success callback with non-success status", "txnid", txnid, "status", status)
		http.Redirect(w, r, h.frontendURL+"/checkout?error=payment_failed", http.StatusSeeOther)
		return
	}

	if cookie, err := r.Cookie(cart.SessionCookie); err == nil {
		if c, ok := h.sessions.Get(cookie.Value); ok {
			c.Clear()
		}
	}

	if h.producer != nil {
		event := domain.PaymentCapturedEvent{
			TransactionID: txnid,
			Amount:        amount,
			Email:         email,
			FirstName:     firstname,
			CapturedAt:    time.Now().UTC(),
		}
		if err := h.producer.Publish(r.Context(), txnid, event); err != nil {
			h.logger.Error("failed to publish payment captured event", "error", err, "txnid", txnid)
		}
	}

	h.logger.Info("payment confirmed", "txnid", txnid, "amount", amount)
	http.Redirect(w, r, h.frontendURL+"/checkout-success", http.StatusSeeOther)
}

// HandleFailure serves POST /api/payment-failure. The cart is preserved so
// the shopper can retry.
func (h *CallbackHandler) HandleFailure(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid callback payload", http.StatusBadRequest)
		return
	}

	h.logger.Info("payment failed", "txnid", r.PostFormValue("txnid"), "status", r.PostFormValue("status"))
	http.Redirect(w, r, h.frontendURL+"/checkout?error=payment_failed", http.StatusSeeOther)
}
