package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gulf-float-booking/internal/config"
	"gulf-float-booking/internal/database"
	"gulf-float-booking/internal/handlers"
	"gulf-float-booking/internal/logging"
	"gulf-float-booking/internal/models"
	"gulf-float-booking/internal/repositories"
	"gulf-float-booking/internal/server"
	"gulf-float-booking/internal/services"
	"gulf-float-booking/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Server.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	bookingRepo := repositories.NewBookingRepository(db.DB)
	waiverRepo := repositories.NewWaiverRepository(db.DB)
	contactRepo := repositories.NewContactRepository(db.DB)

	carts := store.NewCartStore(cfg.Cart.TTL)
	go carts.StartSweeper(ctx, cfg.Cart.SweepInterval, logger)

	catalog := services.NewCatalogService(models.DefaultServices())
	cartService := services.NewCartService(carts, catalog)
	waiverService := services.NewWaiverService(waiverRepo, cartService)

	stripeClient := services.NewStripeClient(services.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	})
	paypalClient := services.NewPayPalClient(services.PayPalConfig{
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
		Environment:  cfg.PayPal.Environment,
	})
	manualPayments := services.NewManualPaymentService(cfg.PeerPayment)
	dispatcher := services.NewPaymentDispatcher(stripeClient, paypalClient, manualPayments)

	poller := services.NewStatusPoller(5, 2*time.Second, logger)
	notifier := services.NewNotifier(cfg.Notify, logger)

	checkoutService := services.NewCheckoutService(cartService, waiverService, bookingRepo, dispatcher, notifier, logger)
	bookingService := services.NewBookingService(bookingRepo, dispatcher, poller, logger)

	validate := validator.New()

	router := server.NewRouter(server.Handlers{
		Catalog: handlers.NewCatalogHandler(catalog),
		Cart:    handlers.NewCartHandler(cartService, checkoutService, validate, cfg.Server.BaseURL),
		Waiver:  handlers.NewWaiverHandler(waiverService, validate),
		Booking: handlers.NewBookingHandler(bookingService),
		Payment: handlers.NewPaymentHandler(bookingService, stripeClient, logger),
		Contact: handlers.NewContactHandler(contactRepo, validate),
	}, logger, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
