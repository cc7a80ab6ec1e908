package main

import (
	"log"
	"net/http"

	"flexipay-be/internal/charge"
	"flexipay-be/internal/checkout"
	"flexipay-be/internal/config"
	"flexipay-be/internal/db"
	"flexipay-be/internal/eligibility"
	"flexipay-be/internal/httpapi"
	"flexipay-be/internal/logger"
	"flexipay-be/internal/middleware"
	"flexipay-be/internal/money"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway := charge.NewFinloopGateway(cfg.FinloopAPIKey, cfg.FinloopSecretKey, cfg.FinloopBaseURL)
	chargeRepo := charge.NewRepository(database)
	chargeSvc := charge.NewService(gateway, chargeRepo, func(p *charge.Payment) bool {
		// Only an authorized, uncaptured charge can be voided.
		return p.Status == charge.StatusAuthorized
	})

	capability := charge.HostCurrent
	if cfg.HostCompat == "legacy" {
		capability = charge.HostLegacy
	}
	authorizer := charge.NewAuthorizer(capability, chargeSvc)

	currencies := money.NewCurrencies(cfg.FinloopCurrency)
	checker := eligibility.NewChecker(cfg.RegionDenylist, currencies)
	builder := checkout.NewBuilder(cfg)

	handler := httpapi.NewHandler(chargeSvc, authorizer, chargeRepo, checker, builder, cfg.FinloopCurrency)
	router := setupRouter(handler)

	log.Printf("charge API listening on :%s", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}

func setupRouter(handler *httpapi.Handler) http.Handler {
	api := http.NewServeMux()
	handler.Register(api)

	// Charge endpoints move money; no anonymous path, strict rate tier.
	protected := middleware.RateLimitMiddleware(middleware.RequireAuth(api))

	root := http.NewServeMux()
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	root.Handle("/", protected)

	return logger.RequestIDMiddleware(logger.LoggingMiddleware(root))
}
