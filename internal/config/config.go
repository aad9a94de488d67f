package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	PostgresURL string `envconfig:"POSTGRES_URL"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:""`

	// Card provider (hosted checkout sessions).
	CardSecretKey   string `envconfig:"CARD_SECRET_KEY"`
	CardAPIURL      string `envconfig:"CARD_API_URL" default:"https://api.stripe.com/v1/checkout/sessions"`
	CardCheckoutURL string `envconfig:"CARD_CHECKOUT_URL" default:"https://checkout.stripe.com/pay"`
	Currency        string `envconfig:"CURRENCY" default:"inr"`

	// Instant-transfer provider (hash-signed redirect).
	TransferKey        string `envconfig:"TRANSFER_KEY"`
	TransferSalt       string `envconfig:"TRANSFER_SALT"`
	TransferPaymentURL string `envconfig:"TRANSFER_PAYMENT_URL" default:"https://test.payu.in/_payment"`

	// Base URL this service is reachable at, used to build the
	// success/failure callback URLs handed to the transfer provider.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	// Frontend the browser is redirected to after the provider calls back.
	FrontendBaseURL string `envconfig:"FRONTEND_BASE_URL" default:"http://localhost:5173"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidatePayment reports missing provider credentials. Credentials are
// startup-fatal, not a per-request condition.
func (c *Config) ValidatePayment() error {
	if c.CardSecretKey == "" {
		return fmt.Errorf("CARD_SECRET_KEY is required")
	}
	if c.TransferKey == "" || c.TransferSalt == "" {
		return fmt.Errorf("TRANSFER_KEY and TRANSFER_SALT are required")
	}
	return nil
}
