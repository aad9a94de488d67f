package domain

import "time"

type PaymentCapturedEvent struct {
	TransactionID string    `json:"transaction_id"`
	Amount        string    `json:"amount"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	CapturedAt    time.Time `json:"captured_at"`
}
