package models

// ConfigError indicates an invalid or incomplete configuration value.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

type ServerConfig struct {
	Port            int `json:"port"`
	ReadTimeoutSec  int `json:"readTimeoutSec"`
	WriteTimeoutSec int `json:"writeTimeoutSec"`
	IdleTimeoutSec  int `json:"idleTimeoutSec"`
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

type AuthConfig struct {
	Password      string `json:"password"`
	TokenSecret   string `json:"tokenSecret"`
	TokenTTLHours int    `json:"tokenTTLHours"`
}

type ProviderConfig struct {
	BaseURL          string `json:"baseUrl"`
	SendTimeoutSec   int    `json:"sendTimeoutSec"`
	DeleteTimeoutSec int    `json:"deleteTimeoutSec"`
}

// MediaConfig drives the media URL-rewrite step: occurrences of any
// internal host in stored media URLs are replaced with the public
// origin before payloads reach the client.
type MediaConfig struct {
	InternalHosts []string `json:"internalHosts"`
	PublicOrigin  string   `json:"publicOrigin"`
}

type EnrichmentConfig struct {
	URL                string `json:"url"`
	RefreshTTLMinutes  int    `json:"refreshTtlMinutes"`
	DefaultCountryCode string `json:"defaultCountryCode"`
	TimeoutSec         int    `json:"timeoutSec"`
}

type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"serviceName"`
	ServiceVersion string  `json:"serviceVersion"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlpEndpoint"`
	SampleRate     float64 `json:"sampleRate"`
	UseStdout      bool    `json:"useStdout"`
}

type RetryConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs"`
	MaxBackoffMs     int `json:"maxBackoffMs"`
}

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Auth       AuthConfig       `json:"auth"`
	Provider   ProviderConfig   `json:"provider"`
	Media      MediaConfig      `json:"media"`
	Enrichment EnrichmentConfig `json:"enrichment"`
	Tracing    TracingConfig    `json:"tracing"`
	Retry      RetryConfig      `json:"retry"`
	LogLevel   string           `json:"logLevel"`

	// Verbose comes from the CLI flag, not the config file. When set,
	// identifiers are logged unmasked.
	Verbose bool `json:"-"`
}
