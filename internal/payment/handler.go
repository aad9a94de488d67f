package payment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aloepure/storefront/internal/cart"
	"github.com/aloepure/storefront/internal/domain"
)

type Handler struct {
	service  *Service
	sessions *cart.Sessions
	logger   *slog.Logger
}

func NewHandler(service *Service, sessions *cart.Sessions, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	RedirectURL  string `json:"redirectUrl"`
}

type createTransferResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

// HandleCreateCardSession serves POST /api/create-payment-intent. The body
// is the checkout form; the amount comes from the session cart, never from
// the request.
func (h *Handler) HandleCreateCardSession(w http.ResponseWriter, r *http.Request) {
	details, items, ok := h.decodeAttempt(w, r, domain.PaymentMethodCard)
	if !ok {
		return
	}

	target, err := h.service.Initiate(r.Context(), details, items)
	if err != nil {
		h.writeInitiateError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, createIntentResponse{
		ClientSecret: target.SessionID,
		RedirectURL:  target.URL,
	})
}

// HandleCreateTransfer serves POST /api/create-upi-payment.
func (h *Handler) HandleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	details, items, ok := h.decodeAttempt(w, r, domain.PaymentMethodInstantTransfer)
	if !ok {
		return
	}

	target, err := h.service.Initiate(r.Context(), details, items)
	if err != nil {
		h.writeInitiateError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, createTransferResponse{PaymentURL: target.URL})
}

func (h *Handler) decodeAttempt(w http.ResponseWriter, r *http.Request, method domain.PaymentMethod) (domain.CheckoutDetails, []domain.CartItem, bool) {
	var details domain.CheckoutDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return details, nil, false
	}
	details.PaymentMethod = method

	cookie, err := r.Cookie(cart.SessionCookie)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "no cart session")
		return details, nil, false
	}

	c, ok := h.sessions.Get(cookie.Value)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "no cart session")
		return details, nil, false
	}

	return details, c.Items(), true
}

func (h *Handler) writeInitiateError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Fields})
		return
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		h.logger.Error("provider error", "error", perr, "provider", perr.Provider)
		h.writeError(w, http.StatusBadGateway, "payment provider unavailable")
		return
	}

	h.logger.Error("payment initiation error", "error", err)
	h.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
