package config

import (
	"fmt"
	"os"
)

// Config holds the runtime settings for the storefront. Values come from
// the environment; godotenv loads a local .env in main before this runs.
type Config struct {
	PlatformURL       string // base URL of the remote data platform
	PlatformAnonKey   string // publishable API key sent with every call
	PaystackPublicKey string
	Currency          string // ISO code for the payment provider, e.g. NGN
	AdminRole         string // role metadata value that grants admin access
	ProfileDB         string // path of the local profile store
	Port              string
}

// Load reads configuration from the environment. The platform URL and key
// are required; everything else has a sensible default.
func Load() (Config, error) {
	cfg := Config{
		PlatformURL:       os.Getenv("PLATFORM_URL"),
		PlatformAnonKey:   os.Getenv("PLATFORM_ANON_KEY"),
		PaystackPublicKey: os.Getenv("PAYSTACK_PUBLIC_KEY"),
		Currency:          os.Getenv("CURRENCY"),
		AdminRole:         os.Getenv("ADMIN_ROLE"),
		ProfileDB:         os.Getenv("PROFILE_DB"),
		Port:              os.Getenv("PORT"),
	}

	if cfg.PlatformURL == "" || cfg.PlatformAnonKey == "" {
		return Config{}, fmt.Errorf("platform configuration missing: PLATFORM_URL and PLATFORM_ANON_KEY are required")
	}

	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	if cfg.AdminRole == "" {
		cfg.AdminRole = "admin"
	}
	if cfg.ProfileDB == "" {
		cfg.ProfileDB = "profile.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}
