// Package config loads service configuration from TOML and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Media    MediaConfig
	Orders   OrdersConfig
	Capture  CaptureConfig
	PDF      PDFConfig
	Storage  StorageConfig
	Database DatabaseConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// MediaConfig holds media reference resolution settings.
// APIBaseURL may be proxy-relative; BackendOrigin must be absolute.
type MediaConfig struct {
	APIBaseURL        string
	BackendOrigin     string
	ObjectStorageHost string
	PlaceholderPath   string
}

// OrdersConfig holds the storefront orders API settings
type OrdersConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// CaptureConfig holds rasterization settings
type CaptureConfig struct {
	RemoteURL    string        // remote Chrome instance; empty launches a local one
	NoSandbox    bool          // required when running as root in a container
	Scale        float64       // device pixel ratio, kept >= 2 for legibility
	WaitStrategy string        // "fixed" or "images"
	WaitDelay    time.Duration // fixed delay, or poll bound for image tracking
	Timeout      time.Duration
}

// PDFConfig holds page geometry and assembly defaults
type PDFConfig struct {
	PaperSize         string // A4 or LETTER
	Orientation       string // PORTRAIT or LANDSCAPE
	Margin            string // with unit, e.g. "10mm"
	Strategy          string // "clip" or "crop"
	ShippingFeeAsFree bool
}

// StorageConfig holds artifact storage settings
type StorageConfig struct {
	Backend           string // "filesystem" or "s3"
	BasePath          string
	BaseURL           string
	Bucket            string
	Endpoint          string
	Region            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// DatabaseConfig holds export job database settings
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with EXPORTER_ prefix (e.g. EXPORTER_ORDERS_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("EXPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// True defaults must be set on viper itself: a zero-value check in
	// applyDefaults cannot tell an explicit false from an unset key.
	v.SetDefault("pdf.shipping_fee_as_free", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Media: MediaConfig{
			APIBaseURL:        v.GetString("media.api_base_url"),
			BackendOrigin:     v.GetString("media.backend_origin"),
			ObjectStorageHost: v.GetString("media.object_storage_host"),
			PlaceholderPath:   v.GetString("media.placeholder_path"),
		},
		Orders: OrdersConfig{
			BaseURL: v.GetString("orders.base_url"),
			Token:   v.GetString("orders.token"),
			Timeout: v.GetDuration("orders.timeout"),
		},
		Capture: CaptureConfig{
			RemoteURL:    v.GetString("capture.remote_url"),
			NoSandbox:    v.GetBool("capture.no_sandbox"),
			Scale:        v.GetFloat64("capture.scale"),
			WaitStrategy: v.GetString("capture.wait_strategy"),
			WaitDelay:    v.GetDuration("capture.wait_delay"),
			Timeout:      v.GetDuration("capture.timeout"),
		},
		PDF: PDFConfig{
			PaperSize:         v.GetString("pdf.paper_size"),
			Orientation:       v.GetString("pdf.orientation"),
			Margin:            v.GetString("pdf.margin"),
			Strategy:          v.GetString("pdf.strategy"),
			ShippingFeeAsFree: v.GetBool("pdf.shipping_fee_as_free"),
		},
		Storage: StorageConfig{
			Backend:           v.GetString("storage.backend"),
			BasePath:          v.GetString("storage.base_path"),
			BaseURL:           v.GetString("storage.base_url"),
			Bucket:            v.GetString("storage.bucket"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopfront-exporter"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Exports can take a while: capture plus assembly happens inside
		// the request.
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Orders.Timeout == 0 {
		cfg.Orders.Timeout = 10 * time.Second
	}
	if cfg.Capture.Scale == 0 {
		cfg.Capture.Scale = 2.0
	}
	if cfg.Capture.WaitStrategy == "" {
		cfg.Capture.WaitStrategy = "images"
	}
	if cfg.Capture.WaitDelay == 0 {
		cfg.Capture.WaitDelay = 10 * time.Second
	}
	if cfg.Capture.Timeout == 0 {
		cfg.Capture.Timeout = 30 * time.Second
	}
	if cfg.PDF.PaperSize == "" {
		cfg.PDF.PaperSize = "A4"
	}
	if cfg.PDF.Orientation == "" {
		cfg.PDF.Orientation = "PORTRAIT"
	}
	if cfg.PDF.Margin == "" {
		cfg.PDF.Margin = "10mm"
	}
	if cfg.PDF.Strategy == "" {
		cfg.PDF.Strategy = "clip"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "filesystem"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "/data/exports"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/api/v1/export/artifacts"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "exporter.db"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Capture.Scale < 1 {
		return fmt.Errorf("capture.scale must be at least 1, got %f", c.Capture.Scale)
	}
	if c.Storage.Backend != "filesystem" && c.Storage.Backend != "s3" {
		return fmt.Errorf("storage.backend must be \"filesystem\" or \"s3\", got %q", c.Storage.Backend)
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("database.driver must be \"sqlite\" or \"postgres\", got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres driver")
	}

	if c.App.Env == "production" {
		if c.Orders.BaseURL == "" {
			return fmt.Errorf("orders.base_url is required in production")
		}
		if c.Media.BackendOrigin == "" && !isAbsoluteURL(c.Media.APIBaseURL) {
			return fmt.Errorf("media.backend_origin is required when media.api_base_url is not absolute")
		}
		if c.Storage.Backend == "s3" && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
			return fmt.Errorf("storage credentials are required for the s3 backend in production")
		}
	}

	return nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
