package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	FinloopAPIKey       string
	FinloopSecretKey    string
	FinloopBaseURL      string
	FinloopCurrency     string
	FinancialProductKey string

	MerchantConfirmURL  string
	MerchantCancelURL   string
	MerchantDeclinedURL string

	// HostCompat selects the authorize strategy for the surrounding order
	// system. "legacy" compensates for hosts that close the transaction on
	// hook return; anything else uses the current strategy.
	HostCompat string

	// Billing regions where the gateway cannot extend financing.
	// Comma-separated region names, exact-match semantics.
	RegionDenylist []string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		FinloopAPIKey:       os.Getenv("FINLOOP_API_KEY"),
		FinloopSecretKey:    os.Getenv("FINLOOP_SECRET_KEY"),
		FinloopBaseURL:      os.Getenv("FINLOOP_API_URL"),
		FinloopCurrency:     os.Getenv("FINLOOP_CURRENCY"),
		FinancialProductKey: os.Getenv("FINLOOP_FINANCIAL_PRODUCT_KEY"),

		MerchantConfirmURL:  os.Getenv("MERCHANT_CONFIRM_URL"),
		MerchantCancelURL:   os.Getenv("MERCHANT_CANCEL_URL"),
		MerchantDeclinedURL: os.Getenv("MERCHANT_DECLINED_URL"),

		HostCompat: os.Getenv("HOST_COMPAT"),

		RegionDenylist: splitList(os.Getenv("REGION_DENYLIST")),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
