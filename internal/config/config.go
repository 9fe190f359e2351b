package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment selects which gateway endpoints the SDK talks to.
type Environment string

const (
	EnvironmentTest Environment = "test"
	EnvironmentLive Environment = "live"
)

// APIContext carries the endpoint and credentials every component needs. It
// is passed explicitly at construction; there is no ambient global in the
// core. One APIContext can be shared across concurrent checkout sessions
// because it is read-only after Validate.
type APIContext struct {
	Environment     Environment `validate:"required,oneof=test live"`
	BaseURL         string      `validate:"required,url"`
	ClientKey       string      `validate:"required"`
	MerchantAccount string      `validate:"required"`
	ReturnURL       string      `validate:"omitempty,url"`
	Timeout         time.Duration
}

// Config holds all SDK configuration
type Config struct {
	API     APIContext
	Logger  LoggerConfig
	Polling PollingConfig
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// PollingConfig holds await-action polling configuration
type PollingConfig struct {
	Interval    time.Duration
	MaxDuration time.Duration
}

var validate = validator.New()

// NewAPIContext builds an API context for the given environment with the
// default endpoint and timeout.
func NewAPIContext(environment Environment, clientKey, merchantAccount string) (*APIContext, error) {
	ctx := &APIContext{
		Environment:     environment,
		BaseURL:         defaultBaseURL(environment),
		ClientKey:       clientKey,
		MerchantAccount: merchantAccount,
		Timeout:         30 * time.Second,
	}
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Validate checks structural validity and that the client key matches the
// environment it is used in.
func (c *APIContext) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid API context: %w", err)
	}
	if !strings.HasPrefix(c.ClientKey, string(c.Environment)+"_") {
		return fmt.Errorf("client key does not match environment %q", c.Environment)
	}
	return nil
}

// QueryParameters returns the query parameters appended to every gateway call.
func (c *APIContext) QueryParameters() map[string]string {
	return map[string]string{"clientKey": c.ClientKey}
}

// Headers returns the headers set on every gateway call.
func (c *APIContext) Headers() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		API: APIContext{
			Environment:     Environment(getEnv("CHECKOUT_ENVIRONMENT", "test")),
			BaseURL:         getEnv("CHECKOUT_BASE_URL", ""),
			ClientKey:       getEnv("CHECKOUT_CLIENT_KEY", ""),
			MerchantAccount: getEnv("CHECKOUT_MERCHANT_ACCOUNT", ""),
			ReturnURL:       getEnv("CHECKOUT_RETURN_URL", ""),
			Timeout:         time.Duration(getEnvAsInt("CHECKOUT_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Polling: PollingConfig{
			Interval:    time.Duration(getEnvAsInt("POLLING_INTERVAL_SECONDS", 2)) * time.Second,
			MaxDuration: time.Duration(getEnvAsInt("POLLING_MAX_SECONDS", 900)) * time.Second,
		},
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultBaseURL(cfg.API.Environment)
	}
	if err := cfg.API.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultBaseURL(environment Environment) string {
	if environment == EnvironmentLive {
		return "https://checkout.example.com/v1"
	}
	return "https://checkout-test.example.com/v1"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
