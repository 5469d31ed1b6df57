package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// AddressMode selects how the ride-creation form captures the route. The
// historical UI shipped both variants; one binary serves either behind this
// flag.
type AddressMode string

const (
	// AddressFreetext takes origin/destination as plain text, no coordinates.
	AddressFreetext AddressMode = "freetext"
	// AddressGeocoded requires geocoded coordinates and a computed route
	// before a ride can be submitted.
	AddressGeocoded AddressMode = "geocoded"
)

// FrontendConfig captures all tunable parameters for the web frontend process.
// Values are primarily loaded from environment variables with sane defaults
// so the binary can run locally without excessive setup.
type FrontendConfig struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// BackendBaseURL is the platform REST API, including the /api prefix.
	BackendBaseURL string
	// AdvisoryBaseURL serves the unauthenticated price suggestion endpoint.
	// Defaults to BackendBaseURL when empty.
	AdvisoryBaseURL string
	BackendTimeout  time.Duration

	NominatimEndpoint string
	OSRMEndpoint      string
	// CountryCode restricts address autocomplete to one country.
	CountryCode   string
	RouteCacheTTL time.Duration

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	CookieName    string

	AddressMode AddressMode
	// FlashTTL is how long a transient notification stays on screen.
	FlashTTL time.Duration

	LogLevel string
}

func defaultFrontendConfig() FrontendConfig {
	return FrontendConfig{
		HTTPAddr:          ":3000",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		BackendBaseURL:    "http://localhost:8080/api",
		BackendTimeout:    10 * time.Second,
		NominatimEndpoint: "https://nominatim.openstreetmap.org",
		OSRMEndpoint:      "https://router.project-osrm.org",
		CountryCode:       "tr",
		RouteCacheTTL:     5 * time.Minute,
		SessionTTL:        24 * time.Hour,
		CookieName:        "commute_session",
		AddressMode:       AddressGeocoded,
		FlashTTL:          3 * time.Second,
		LogLevel:          "info",
	}
}

func LoadFrontendConfig() (FrontendConfig, error) {
	cfg := defaultFrontendConfig()
	var errs []error

	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	setDurationFromEnv(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)

	setStringFromEnv(&cfg.BackendBaseURL, "BACKEND_BASE_URL")
	setStringFromEnv(&cfg.AdvisoryBaseURL, "ADVISORY_BASE_URL")
	setDurationFromEnv(&cfg.BackendTimeout, "BACKEND_TIMEOUT", &errs)

	setStringFromEnv(&cfg.NominatimEndpoint, "NOMINATIM_ENDPOINT")
	setStringFromEnv(&cfg.OSRMEndpoint, "OSRM_ENDPOINT")
	setStringFromEnv(&cfg.CountryCode, "COUNTRY_CODE")
	setDurationFromEnv(&cfg.RouteCacheTTL, "ROUTE_CACHE_TTL", &errs)

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setDurationFromEnv(&cfg.SessionTTL, "SESSION_TTL", &errs)
	setStringFromEnv(&cfg.CookieName, "SESSION_COOKIE_NAME")

	if v := strings.TrimSpace(os.Getenv("ADDRESS_MODE")); v != "" {
		cfg.AddressMode = AddressMode(strings.ToLower(v))
	}
	setDurationFromEnv(&cfg.FlashTTL, "FLASH_TTL", &errs)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	cfg.BackendBaseURL = strings.TrimRight(cfg.BackendBaseURL, "/")
	if cfg.AdvisoryBaseURL == "" {
		cfg.AdvisoryBaseURL = cfg.BackendBaseURL
	}
	cfg.AdvisoryBaseURL = strings.TrimRight(cfg.AdvisoryBaseURL, "/")

	if cfg.AddressMode != AddressFreetext && cfg.AddressMode != AddressGeocoded {
		errs = append(errs, fmt.Errorf("ADDRESS_MODE must be %q or %q", AddressFreetext, AddressGeocoded))
	}
	if cfg.CountryCode == "" {
		errs = append(errs, fmt.Errorf("COUNTRY_CODE must not be empty"))
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be > 0"))
	}

	return cfg, errors.Join(errs...)
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}
