// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Export   ExportConfig
	UI       UIConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1, the form is single-user)
	Host string `env:"SERVER_HOST" envDefault:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"30s"`
}

// StoreConfig holds backing file settings.
type StoreConfig struct {
	// Path is the inventory workbook (default: inventory.xlsx)
	Path string `env:"STORE_PATH" envDefault:"inventory.xlsx"`

	// Sheet is the worksheet the table is written to (default: Inventory)
	Sheet string `env:"STORE_SHEET" envDefault:"Inventory"`

	// ActionWait is how long an action waits for a running one (default: 10s)
	ActionWait time.Duration `env:"STORE_ACTION_WAIT" envDefault:"10s"`
}

// ExportConfig holds download settings.
type ExportConfig struct {
	// FileName is the name offered to the browser (default: inventory_export.xlsx)
	FileName string `env:"EXPORT_FILE_NAME" envDefault:"inventory_export.xlsx"`

	// Sheet is the worksheet name inside the export (default: Inventory)
	Sheet string `env:"EXPORT_SHEET" envDefault:"Inventory"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Title is the page heading (default: Inventory Manager)
	Title string `env:"UI_TITLE" envDefault:"Inventory Manager"`

	// Currency is the label in front of money totals (default: R$)
	Currency string `env:"UI_CURRENCY" envDefault:"R$"`

	// Locale is the BCP 47 tag used for number grouping (default: en-US)
	Locale string `env:"UI_LOCALE" envDefault:"en-US"`

	// StockLow: quantities below are highlighted as low (default: 200)
	StockLow int `env:"UI_STOCK_LOW" envDefault:"200"`

	// StockHigh: quantities above are highlighted as high (default: 1000)
	StockHigh int `env:"UI_STOCK_HIGH" envDefault:"1000"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// RequestsPerMinute is the limit per client IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" envDefault:"true"`

	// CORSAllowedOrigins lists origins allowed to call the JSON API
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// Enabled mounts the metrics endpoint (default: true)
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
