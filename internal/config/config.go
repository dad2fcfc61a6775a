package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Currency    string // ISO 4217 code used for receipt formatting
	Clinic      ClinicConfig
	POS         POSConfig
}

// ClinicConfig is used to call the clinic backend (product search, sale creation)
type ClinicConfig struct {
	BaseURL string // e.g. http://clinic-api:5000; CLINIC_API_URL
	APIKey  string // CLINIC_API_KEY, sent as Bearer token
	Timeout time.Duration
}

type POSConfig struct {
	SearchPageSize int           // default page size for variant search
	SessionTTL     time.Duration // idle sessions past this are swept
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CURRENCY", "USD")
	viper.SetDefault("SEARCH_PAGE_SIZE", "20")
	viper.SetDefault("SESSION_TTL_MINUTES", "120")
	viper.SetDefault("CLINIC_API_TIMEOUT_SECONDS", "30")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	pageSize, err := intEnv("SEARCH_PAGE_SIZE", 20)
	if err != nil {
		return nil, err
	}
	ttlMinutes, err := intEnv("SESSION_TTL_MINUTES", 120)
	if err != nil {
		return nil, err
	}
	timeoutSeconds, err := intEnv("CLINIC_API_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Currency:    strings.ToUpper(getEnvOrViper("CURRENCY", "USD")),
		Clinic: ClinicConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("CLINIC_API_URL", "")),
			APIKey:  strings.TrimSpace(getEnvOrViper("CLINIC_API_KEY", "")),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		POS: POSConfig{
			SearchPageSize: pageSize,
			SessionTTL:     time.Duration(ttlMinutes) * time.Minute,
		},
	}

	// Validate required fields
	if cfg.Clinic.BaseURL == "" {
		return nil, fmt.Errorf("CLINIC_API_URL is required")
	}
	if cfg.Clinic.APIKey == "" {
		return nil, fmt.Errorf("CLINIC_API_KEY is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := getEnvOrViper(key, strconv.Itoa(defaultValue))
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	if val <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, val)
	}
	return val, nil
}
