package payment

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aloepure/storefront/internal/checkout"
	"github.com/aloepure/storefront/internal/domain"
)

var meter = otel.Meter("payment")

// Service validates a checkout attempt and hands it to the provider the
// shopper selected. The amount is always recomputed from the server-held
// cart; a client-submitted amount is never trusted.
type Service struct {
	card        Provider
	transfer    Provider
	logger      *slog.Logger
	initiations metric.Int64Counter
}

func NewService(card, transfer Provider, logger *slog.Logger) (*Service, error) {
	initiations, err := meter.Int64Counter("checkout.payment.initiations",
		metric.WithDescription("Payment initiation attempts by method and outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		card:        card,
		transfer:    transfer,
		logger:      logger,
		initiations: initiations,
	}, nil
}

func (s *Service) Initiate(ctx context.Context, details domain.CheckoutDetails, items []domain.CartItem) (RedirectTarget, error) {
	if errs := checkout.Validate(details); len(errs) > 0 {
		return RedirectTarget{}, &ValidationError{Fields: errs}
	}

	if len(items) == 0 {
		return RedirectTarget{}, newValidationError("cart", "cart is empty")
	}

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	if total <= 0 {
		return RedirectTarget{}, newValidationError("cart", "cart total must be positive")
	}

	var provider Provider
	switch details.PaymentMethod {
	case domain.PaymentMethodCard:
		provider = s.card
	case domain.PaymentMethodInstantTransfer:
		provider = s.transfer
	default:
		return RedirectTarget{}, newValidationError("payment_method", "unsupported payment method")
	}

	target, err := provider.Initiate(ctx, details, items)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.initiations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("payment.method", string(details.PaymentMethod)),
		attribute.String("outcome", outcome),
	))

	if err != nil {
		s.logger.Error("payment initiation failed", "error", err, "method", details.PaymentMethod)
		return RedirectTarget{}, err
	}

	s.logger.Info("payment initiated", "method", details.PaymentMethod, "transaction_id", target.SessionID, "total", total)
	return target, nil
}
