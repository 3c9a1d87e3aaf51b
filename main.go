package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"go-marketplace/ai"
	"go-marketplace/config"
	"go-marketplace/controllers"
	"go-marketplace/metrics"
	"go-marketplace/payment"
	"go-marketplace/routes"
	"go-marketplace/store"
	"go-marketplace/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("service", cfg.ServiceName), slog.String("env", cfg.AppEnv))
	slog.SetDefault(logger)

	utils.JwtKey = []byte(cfg.JWTSecret)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	appMetrics, meterProvider, err := metrics.Init(ctx, cfg)
	if err != nil {
		logger.Warn("metrics disabled", slog.Any("err", err))
	} else {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics shutdown error", slog.Any("err", err))
			}
		}()
	}

	client, err := utils.ConnectDB(ctx, cfg.MongoURL)
	if err != nil {
		logger.Error("could not connect to MongoDB", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("mongo disconnect error", slog.Any("err", err))
		}
	}()
	db := client.Database(cfg.Database)

	carts := store.NewCarts(db)
	products := store.NewProducts(db)
	orders := store.NewOrders(db)
	coupons := store.NewCoupons(db)
	transactions := store.NewTransactions(db)

	aiClient := ai.NewClient(cfg.OpenAIAPIKey, logger)
	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.SenderEmail, logger)
	orderMailer := utils.NewOrderMailer(orders, db, emailService, logger)

	provider := payment.NewStripeProvider(cfg.StripeAPIKey, cfg.StripeWebhookSecret, logger)
	checkout := payment.NewCheckout(carts, products, coupons, orders, transactions, provider, cfg.Currency, logger, appMetrics)
	reconciler := payment.NewReconciler(transactions, orders, coupons, provider, orderMailer, logger, appMetrics)
	verification := utils.NewVerificationService(db,
		cfg.SendGridAPIKey, cfg.SenderEmail,
		cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber,
		logger)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Users:     controllers.NewUserController(db, verification),
		Products:  controllers.NewProductController(products, aiClient),
		Carts:     controllers.NewCartController(carts, products),
		Checkout:  controllers.NewCheckoutController(checkout, reconciler),
		Orders:    controllers.NewOrderController(orders, db, emailService, logger),
		Coupons:   controllers.NewCouponController(coupons),
		Reviews:   controllers.NewReviewController(db, products),
		Wishlists: controllers.NewWishlistController(db, products),
	}, appMetrics)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("err", err))
	}
	logger.Info("bye")
}
