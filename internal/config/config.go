package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the client configuration
type Config struct {
	APIBaseURL     string
	ImageUploadURL string
	UploadPreset   string
	TokenDSN       string
	HTTPTimeout    time.Duration
	LogLevel       string
	DevMode        bool
}

// StubConfig holds the configuration of the development stub API
type StubConfig struct {
	Port         string
	JWTSecret    string
	TokenTTL     time.Duration
	Fixtures     string
	UploadPreset string
	PublicURL    string
	LogLevel     string
	DevMode      bool
}

// Load reads the client configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ImageUploadURL: os.Getenv("IMAGE_UPLOAD_URL"),
		UploadPreset:   getenv("UPLOAD_PRESET", "coach_profiles"),
		TokenDSN:       getenv("TOKEN_DSN", "file:coachctl.db"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		DevMode:        os.Getenv("DEV_MODE") == "true",
	}

	// API_BASE_URL (required), e.g. http://localhost:8080/api
	baseURL := strings.TrimSpace(os.Getenv("API_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", baseURL)
	}
	cfg.APIBaseURL = strings.TrimSuffix(baseURL, "/")

	timeout, err := getenvDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

// LoadStub reads the stub API configuration from environment variables
func LoadStub() (*StubConfig, error) {
	cfg := &StubConfig{
		Port:         getenv("PORT", "8080"),
		Fixtures:     os.Getenv("STUB_FIXTURES"),
		UploadPreset: os.Getenv("UPLOAD_PRESET"),
		PublicURL:    os.Getenv("STUB_PUBLIC_URL"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		DevMode:      os.Getenv("DEV_MODE") == "true",
	}

	// Load JWT_SECRET (required)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTSecret = jwtSecret

	ttl, err := getenvDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getenvDuration accepts a Go duration ("45s") or KEY_SECONDS as an integer
func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	if val := os.Getenv(key); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return parsed, nil
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		seconds, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s_SECONDS: %w", key, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	return fallback, nil
}
