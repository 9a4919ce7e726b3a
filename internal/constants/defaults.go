package constants

// Default server configuration values
const (
	DefaultServerPort          = 3456
	DefaultServerReadTimeout   = 15
	DefaultServerWriteTimeout  = 15
	DefaultServerIdleTimeout   = 60
	DefaultGracefulShutdownSec = 30
)

// Default provider call timeouts. Sends tolerate slower gateways than
// the fire-and-forget delete path.
const (
	DefaultProviderSendTimeoutSec   = 15
	DefaultProviderDeleteTimeoutSec = 10
)

// Default auth values
const (
	DefaultTokenTTLHours = 720 // 30 days
)

// Default pagination and query limits
const (
	DefaultMessagePageSize = 100
	MaxMessagePageSize     = 500
)

// Default enrichment cache values
const (
	DefaultEnrichmentTTLMinutes  = 10
	DefaultEnrichmentTimeoutSec  = 30
	DefaultEnrichmentCountryCode = "968"
)

// Default database retry values
const (
	DefaultDatabaseRetryAttempts = 3
	DefaultInitialBackoffMs      = 500
	DefaultMaxBackoffMs          = 5000
)
