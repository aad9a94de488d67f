package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aloepure/storefront/internal/domain"
)

// ReceiptHandler turns payment.captured events into receipt emails.
type ReceiptHandler struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewReceiptHandler(emailServiceURL string, client *http.Client, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
	}
}

func (h *ReceiptHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.PaymentCapturedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal payment captured event: %w", err)
	}

	h.logger.Info("processing payment captured event", "transaction_id", event.TransactionID, "email", event.Email)

	if err := h.sendReceipt(ctx, event); err != nil {
		h.logger.Error("failed to send receipt", "error", err, "transaction_id", event.TransactionID)
		return fmt.Errorf("send receipt: %w", err)
	}

	h.logger.Info("receipt sent", "transaction_id", event.TransactionID)
	return nil
}

func (h *ReceiptHandler) sendReceipt(ctx context.Context, event domain.PaymentCapturedEvent) error {
	body := map[string]string{
		"to":      event.Email,
		"subject": "Payment received: " + event.TransactionID,
		"body": fmt.Sprintf("Hi %s, we received your payment of %s. Your order is on its way.",
			event.FirstName, event.Amount),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
