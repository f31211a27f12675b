package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/parcelhub/parcelhub/internal/auth"
	"github.com/parcelhub/parcelhub/internal/config"
	"github.com/parcelhub/parcelhub/internal/handlers"
	"github.com/parcelhub/parcelhub/internal/service"
	"github.com/parcelhub/parcelhub/internal/storage/sqlite"
	"github.com/parcelhub/parcelhub/internal/webpay"
	"github.com/parcelhub/parcelhub/pkg/logging"
)

func main() {
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	tokenTTL, err := cfg.Auth.TokenDuration()
	if err != nil {
		slog.Error("Invalid token TTL", "error", err)
		os.Exit(1)
	}
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, tokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	gateway := webpay.New(webpay.Config{
		BaseURL:      cfg.Webpay.BaseURL,
		CommerceCode: cfg.Webpay.CommerceCode,
		APIKey:       cfg.Webpay.APIKey,
	})
	slog.Info("Webpay client configured", "base_url", cfg.Webpay.BaseURL, "commerce_code", cfg.Webpay.CommerceCode)

	router := handlers.NewRouter(handlers.Services{
		Auth:     service.NewAuthService(authenticator, jwtManager),
		Payments: service.NewPaymentService(store, gateway, cfg.Webpay.ReturnURL),
		Invoices: service.NewInvoiceService(store),
		Parcels:  service.NewParcelService(store),
		Meters:   service.NewMeterService(store),
	}, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
