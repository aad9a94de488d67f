package domain

type PaymentMethod string

const (
	PaymentMethodCard            PaymentMethod = "card"
	PaymentMethodInstantTransfer PaymentMethod = "instant_transfer"
)

type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CheckoutDetails is the validated checkout form. It is handed to the
// payment service once and never persisted.
type CheckoutDetails struct {
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Billing       Address       `json:"billing"`
	SameAsBilling bool          `json:"same_as_billing"`
	Shipping      *Address      `json:"shipping,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}
