package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: time.Second},
		Store:  StoreConfig{Path: "inventory.xlsx", Sheet: "Inventory", ActionWait: time.Second},
		Export: ExportConfig{FileName: "inventory_export.xlsx", Sheet: "Inventory"},
		UI:     UIConfig{Locale: "en-US", StockLow: 200, StockHigh: 1000},
		Rate:   RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "inventory.xlsx", cfg.Store.Path)
	assert.Equal(t, "Inventory", cfg.Store.Sheet)
	assert.Equal(t, 10*time.Second, cfg.Store.ActionWait)
	assert.Equal(t, "inventory_export.xlsx", cfg.Export.FileName)
	assert.Equal(t, 200, cfg.UI.StockLow)
	assert.Equal(t, 1000, cfg.UI.StockHigh)
	assert.Equal(t, "R$", cfg.UI.Currency)
	assert.True(t, cfg.Rate.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Empty(t, cfg.Security.TrustedProxies)
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_PATH", "/data/stock.xlsx")
	t.Setenv("UI_STOCK_LOW", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/stock.xlsx", cfg.Store.Path)
	assert.Equal(t, 5, cfg.UI.StockLow)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("STORE_ACTION_WAIT", "1m30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 90*time.Second, cfg.Store.ActionWait)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config load")
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}, cfg.Security.TrustedProxies)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Security.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "SERVER_PORT"},
		{name: "store path required", mutate: func(c *Config) { c.Store.Path = " " }, wantErr: "STORE_PATH is required"},
		{name: "store path not xlsx", mutate: func(c *Config) { c.Store.Path = "stock.csv" }, wantErr: "must be an .xlsx file"},
		{name: "export name with slash", mutate: func(c *Config) { c.Export.FileName = "../x.xlsx" }, wantErr: "plain file name"},
		{name: "stock thresholds inverted", mutate: func(c *Config) { c.UI.StockHigh = 10 }, wantErr: "UI_STOCK_HIGH"},
		{name: "bad locale", mutate: func(c *Config) { c.UI.Locale = "not a locale!" }, wantErr: "UI_LOCALE"},
		{name: "bad proxy", mutate: func(c *Config) { c.Security.TrustedProxies = []string{"10.0.0.1"} }, wantErr: "TRUSTED_PROXIES"},
		{name: "rate limit zero", mutate: func(c *Config) { c.Rate.RequestsPerMinute = 0 }, wantErr: "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{name: "rate limit zero but disabled", mutate: func(c *Config) { c.Rate.Enabled = false; c.Rate.RequestsPerMinute = 0 }},
		{name: "metrics path", mutate: func(c *Config) { c.Metrics.Path = "metrics" }, wantErr: "METRICS_PATH"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = -1
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "\n  - "))
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 8080, "127.0.0.1:8080"},
		{"", 3000, ":3000"},
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := ServerConfig{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.want, c.Addr())
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	cfg.Security.TrustedProxies = []string{"10.0.0.0/8"}

	s := cfg.String()
	assert.Contains(t, s, `Path: "inventory.xlsx"`)
	assert.Contains(t, s, "TrustedProxies: 1")
	assert.NotContains(t, s, "10.0.0.0/8")
}
