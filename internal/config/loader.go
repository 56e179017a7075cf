package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if a value cannot be parsed or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// normalize trims list entries; env splits on the separator only.
func (c *Config) normalize() {
	c.Security.TrustedProxies = trimList(c.Security.TrustedProxies)
	c.Security.CORSAllowedOrigins = trimList(c.Security.CORSAllowedOrigins)
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, "SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Store validation
	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, "STORE_PATH is required")
	} else if !strings.EqualFold(filepath.Ext(c.Store.Path), ".xlsx") {
		errs = append(errs, fmt.Sprintf("STORE_PATH (%q) must be an .xlsx file", c.Store.Path))
	}
	if c.Store.ActionWait <= 0 {
		errs = append(errs, "STORE_ACTION_WAIT must be positive")
	}
	if len(c.Store.Sheet) > 31 {
		errs = append(errs, "STORE_SHEET must be at most 31 characters")
	}

	// Export validation
	if !strings.EqualFold(filepath.Ext(c.Export.FileName), ".xlsx") {
		errs = append(errs, fmt.Sprintf("EXPORT_FILE_NAME (%q) must end in .xlsx", c.Export.FileName))
	}
	if strings.ContainsAny(c.Export.FileName, `/\"`) {
		errs = append(errs, "EXPORT_FILE_NAME must be a plain file name")
	}
	if len(c.Export.Sheet) > 31 {
		errs = append(errs, "EXPORT_SHEET must be at most 31 characters")
	}

	// UI validation
	if c.UI.StockLow < 0 {
		errs = append(errs, "UI_STOCK_LOW must be non-negative")
	}
	if c.UI.StockHigh < c.UI.StockLow {
		errs = append(errs, fmt.Sprintf("UI_STOCK_HIGH (%d) must be >= UI_STOCK_LOW (%d)",
			c.UI.StockHigh, c.UI.StockLow))
	}
	if _, err := language.Parse(c.UI.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("UI_LOCALE (%q) is not a valid language tag", c.UI.Locale))
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Security validation
	for _, cidr := range c.Security.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES entry %q is not a valid CIDR", cidr))
		}
	}

	// Metrics validation
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Sprintf("METRICS_PATH (%q) must start with /", c.Metrics.Path))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Store: {Path: %q, Sheet: %q, ActionWait: %s}, ",
		c.Store.Path, c.Store.Sheet, c.Store.ActionWait))
	b.WriteString(fmt.Sprintf("Export: {FileName: %q}, ", c.Export.FileName))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {TrustedProxies: %d, CORSOrigins: %d, CSP: %v}, ",
		len(c.Security.TrustedProxies), len(c.Security.CORSAllowedOrigins), c.Security.EnableCSP))
	b.WriteString(fmt.Sprintf("Metrics: {Enabled: %v, Path: %q}, ", c.Metrics.Enabled, c.Metrics.Path))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
