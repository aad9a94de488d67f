package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/aloepure/storefront/internal/cart"
	"github.com/aloepure/storefront/internal/catalog"
	"github.com/aloepure/storefront/internal/config"
	"github.com/aloepure/storefront/internal/messaging"
	"github.com/aloepure/storefront/internal/payment"
	"github.com/aloepure/storefront/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.ValidatePayment(); err != nil {
		logger.Error("missing payment provider credentials", "error", err)
		os.Exit(1)
	}

	if cfg.PostgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "storefront", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("storefront", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, "payment.captured")
		defer func() { _ = producer.Close() }()
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	sessions := cart.NewSessions()

	catalogHandler := catalog.NewHandler(catalog.NewProductRepository(db), logger)
	cartHandler := cart.NewHandler(sessions, logger)

	cardProvider := payment.NewCardProvider(cfg.CardSecretKey, cfg.CardAPIURL, cfg.CardCheckoutURL, cfg.Currency, httpClient)
	transferProvider := payment.NewInstantTransferProvider(
		cfg.TransferKey,
		cfg.TransferSalt,
		cfg.TransferPaymentURL,
		cfg.PublicBaseURL+"/api/payment-success",
		cfg.PublicBaseURL+"/api/payment-failure",
	)

	paymentService, err := payment.NewService(cardProvider, transferProvider, logger)
	if err != nil {
		logger.Error("failed to create payment service", "error", err)
		os.Exit(1)
	}
	paymentHandler := payment.NewHandler(paymentService, sessions, logger)

	var publisher payment.EventPublisher
	if producer != nil {
		publisher = producer
	}
	callbackHandler := payment.NewCallbackHandler(sessions, publisher, cfg.TransferKey, cfg.TransferSalt, cfg.FrontendBaseURL, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", telemetry.WithHTTPRoute(catalogHandler.HandleList))
	mux.HandleFunc("GET /api/products/{id}", telemetry.WithHTTPRoute(catalogHandler.HandleGet))
	mux.HandleFunc("GET /api/cart", telemetry.WithHTTPRoute(cartHandler.HandleGet))
	mux.HandleFunc("POST /api/cart/items", telemetry.WithHTTPRoute(cartHandler.HandleAddItem))
	mux.HandleFunc("PATCH /api/cart/items/{id}", telemetry.WithHTTPRoute(cartHandler.HandleUpdateQuantity))
	mux.HandleFunc("DELETE /api/cart/items/{id}", telemetry.WithHTTPRoute(cartHandler.HandleRemoveItem))
	mux.HandleFunc("DELETE /api/cart", telemetry.WithHTTPRoute(cartHandler.HandleClear))
	mux.HandleFunc("POST /api/create-payment-intent", telemetry.WithHTTPRoute(paymentHandler.HandleCreateCardSession))
	mux.HandleFunc("POST /api/create-upi-payment", telemetry.WithHTTPRoute(paymentHandler.HandleCreateTransfer))
	mux.HandleFunc("POST /api/payment-success", telemetry.WithHTTPRoute(callbackHandler.HandleSuccess))
	mux.HandleFunc("POST /api/payment-failure", telemetry.WithHTTPRoute(callbackHandler.HandleFailure))
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, "storefront",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
