package cart

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aloepure/storefront/internal/domain"
)

const SessionCookie = "cart_session"

type Handler struct {
	sessions *Sessions
	logger   *slog.Logger
}

func NewHandler(sessions *Sessions, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	h.writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total()})
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if item.ID == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	c := h.session(w, r)
	c.AddItem(item)

	h.logger.Info("item added to cart", "item_id", item.ID, "quantity", item.Quantity)
	h.writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total()})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.session(w, r)
	c.UpdateQuantity(id, req.Quantity)

	h.writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total()})
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	c := h.session(w, r)
	c.RemoveItem(id)

	h.logger.Info("item removed from cart", "item_id", id)
	h.writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total()})
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	c.Clear()

	h.writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: 0})
}

// session returns the cart bound to the request's session cookie, creating
// the session and setting the cookie when absent.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Cart {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if c, ok := h.sessions.Get(cookie.Value); ok {
			return c
		}
	}

	id, c := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c
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
