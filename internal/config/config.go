package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"wachat/internal/constants"
	"wachat/internal/models"
	"wachat/internal/security"
)

var (
	ErrMissingProviderURL = models.ConfigError{Message: "missing provider base URL"}
	ErrMissingDBPath      = models.ConfigError{Message: "missing database path"}
	ErrMissingPassword    = models.ConfigError{Message: "missing dashboard password"}
	ErrMissingTokenSecret = models.ConfigError{Message: "missing token secret"}
)

func LoadConfig(path string) (*models.Config, error) {
	// Validate config file path to prevent directory traversal
	if err := security.ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	file, err := os.ReadFile(path) // #nosec G304 - Path validated by security.ValidateFilePath above
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.Provider.BaseURL == "" {
		return ErrMissingProviderURL
	}
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}
	if c.Auth.Password == "" {
		return ErrMissingPassword
	}
	if c.Auth.TokenSecret == "" {
		return ErrMissingTokenSecret
	}
	if len(c.Auth.TokenSecret) < 32 {
		return models.ConfigError{Message: "token secret must be at least 32 characters long"}
	}

	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeout
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeout
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeout
	}

	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = constants.DefaultTokenTTLHours
	}

	if c.Provider.SendTimeoutSec <= 0 {
		c.Provider.SendTimeoutSec = constants.DefaultProviderSendTimeoutSec
	}
	if c.Provider.DeleteTimeoutSec <= 0 {
		c.Provider.DeleteTimeoutSec = constants.DefaultProviderDeleteTimeoutSec
	}

	if c.Enrichment.RefreshTTLMinutes <= 0 {
		c.Enrichment.RefreshTTLMinutes = constants.DefaultEnrichmentTTLMinutes
	}
	if c.Enrichment.TimeoutSec <= 0 {
		c.Enrichment.TimeoutSec = constants.DefaultEnrichmentTimeoutSec
	}
	if c.Enrichment.DefaultCountryCode == "" {
		c.Enrichment.DefaultCountryCode = constants.DefaultEnrichmentCountryCode
	}

	if c.Retry.InitialBackoffMs <= 0 {
		c.Retry.InitialBackoffMs = constants.DefaultInitialBackoffMs
	}
	if c.Retry.MaxBackoffMs <= 0 {
		c.Retry.MaxBackoffMs = constants.DefaultMaxBackoffMs
	}

	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if port := os.Getenv("WACHAT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if path := os.Getenv("WACHAT_DB_PATH"); path != "" {
		c.Database.Path = path
	}

	// SECURITY: secrets should be set via environment variables
	if password := os.Getenv("WACHAT_PASSWORD"); password != "" {
		c.Auth.Password = password
	}
	if secret := os.Getenv("WACHAT_TOKEN_SECRET"); secret != "" {
		c.Auth.TokenSecret = secret
	}

	if url := os.Getenv("PROVIDER_BASE_URL"); url != "" {
		c.Provider.BaseURL = url
	}
	if url := os.Getenv("ENRICHMENT_URL"); url != "" {
		c.Enrichment.URL = url
	}
}
