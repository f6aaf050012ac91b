package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/UTarts/cardiff-healthcare/pkg/config"
	"github.com/UTarts/cardiff-healthcare/pkg/database"
	"github.com/UTarts/cardiff-healthcare/pkg/middleware"
	"github.com/UTarts/cardiff-healthcare/pkg/tracing"
)

// Gateway drivers.
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort            int           `env:"HTTP_PORT" envDefault:"8080"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Gateway
	GatewayDriver     string        `env:"GATEWAY_DRIVER" envDefault:"memory"`
	GatewayURL        string        `env:"GATEWAY_URL"`
	GatewayAnonKey    string        `env:"GATEWAY_ANON_KEY"`
	GatewayServiceKey string        `env:"GATEWAY_SERVICE_KEY"`
	GatewayJWTSecret  string        `env:"GATEWAY_JWT_SECRET"`
	GatewayTimeout    time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	StorageBucket     string        `env:"STORAGE_BUCKET" envDefault:"medicine-images"`
	// StoragePublicURL prefixes object keys in the memory driver.
	StoragePublicURL string `env:"STORAGE_PUBLIC_URL" envDefault:"http://localhost:8080/storage/medicine-images"`

	// Administrator account for the memory driver
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@cardiffhealthcare.in"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	AuthTokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"1h"`

	// PostgreSQL
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass    string `env:"POSTGRES_PASSWORD"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"postgres"`
	PostgresSSL     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PostgresMigrate bool   `env:"POSTGRES_MIGRATE" envDefault:"false"`

	// Database pool
	DBMaxConns           int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns           int32 `env:"DB_MIN_CONNS" envDefault:"1"`
	SlowQueryThresholdMs int   `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Redis
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka; events are dropped when no brokers are set.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Catalog
	CatalogLocale      string `env:"CATALOG_LOCALE" envDefault:"en"`
	CatalogPlaceholder string `env:"CATALOG_PLACEHOLDER_IMAGE" envDefault:"https://via.placeholder.com/400"`

	// Contact
	WhatsAppNumber      string  `env:"CONTACT_WHATSAPP_NUMBER" envDefault:"919876543210"`
	InquiryRateLimitRPS float64 `env:"INQUIRY_RATE_LIMIT_RPS" envDefault:"0.2"`
	InquiryRateBurst    int     `env:"INQUIRY_RATE_LIMIT_BURST" envDefault:"5"`

	// Asset cache
	AssetCacheTTL        time.Duration `env:"ASSET_CACHE_TTL" envDefault:"720h"`
	AssetCacheMaxEntries int           `env:"ASSET_CACHE_MAX_ENTRIES" envDefault:"100"`
	AssetAllowedHosts    []string      `env:"ASSET_ALLOWED_HOSTS" envDefault:"images.unsplash.com" envSeparator:","`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// Reverse proxies (IPs or CIDRs) allowed to set X-Forwarded-For. Empty
	// means the service is reached directly.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Inquiry notifications
	NotifyEnabled    bool          `env:"NOTIFY_ENABLED" envDefault:"false"`
	NotifyGroupID    string        `env:"NOTIFY_GROUP_ID" envDefault:"cardiff-notify"`
	NotifyToName     string        `env:"NOTIFY_TO_NAME" envDefault:"Cardiff Healthcare"`
	NotifyMaxRetries int           `env:"NOTIFY_MAX_RETRIES" envDefault:"3"`
	NotifyDedupTTL   time.Duration `env:"NOTIFY_DEDUP_TTL" envDefault:"24h"`
	NotifyEmailAPI   string        `env:"NOTIFY_EMAIL_API_URL" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	NotifyServiceID  string        `env:"NOTIFY_SERVICE_ID"`
	NotifyTemplateID string        `env:"NOTIFY_TEMPLATE_ID"`
	NotifyPublicKey  string        `env:"NOTIFY_PUBLIC_KEY"`
}

// Load reads configuration from the environment, overlaid on .env when
// present, and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.LoadWithDotenv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the settings each gateway driver needs.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	switch c.GatewayDriver {
	case DriverREST:
		if c.GatewayURL == "" {
			return fmt.Errorf("GATEWAY_URL is required for the %s driver", c.GatewayDriver)
		}
		if c.GatewayAnonKey == "" {
			return fmt.Errorf("GATEWAY_ANON_KEY is required for the %s driver", c.GatewayDriver)
		}
		if c.GatewayJWTSecret == "" {
			return fmt.Errorf("GATEWAY_JWT_SECRET is required for the %s driver", c.GatewayDriver)
		}
	case DriverPostgres:
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.GatewayJWTSecret == "" {
			return fmt.Errorf("GATEWAY_JWT_SECRET is required for the %s driver", c.GatewayDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("GATEWAY_DRIVER must be one of rest, postgres, memory; got %q", c.GatewayDriver)
	}

	if _, err := language.Parse(c.CatalogLocale); err != nil {
		return fmt.Errorf("invalid CATALOG_LOCALE %q: %w", c.CatalogLocale, err)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.InquiryRateLimitRPS <= 0 || c.InquiryRateBurst < 1 {
		return fmt.Errorf("INQUIRY_RATE_LIMIT_RPS must be positive and INQUIRY_RATE_LIMIT_BURST at least 1")
	}
	if _, err := middleware.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	if c.AssetCacheTTL <= 0 {
		return fmt.Errorf("ASSET_CACHE_TTL must be positive, got %s", c.AssetCacheTTL)
	}
	if c.NotifyEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when NOTIFY_ENABLED is set")
	}
	if c.NotifyMaxRetries < 1 {
		return fmt.Errorf("NOTIFY_MAX_RETRIES must be at least 1, got %d", c.NotifyMaxRetries)
	}
	return nil
}

// Locale returns the collation locale of the catalog.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.CatalogLocale)
	if err != nil {
		return language.English
	}
	return tag
}

// ProxyPrefixes returns the parsed TRUSTED_PROXIES. Validate has already
// rejected malformed entries.
func (c *Config) ProxyPrefixes() []netip.Prefix {
	prefixes, _ := middleware.ParseTrustedProxies(c.TrustedProxies)
	return prefixes
}

// KafkaEnabled reports whether events are published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaBrokers[0]) != ""
}

// Postgres returns the pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	pg.MaxConns = c.DBMaxConns
	pg.MinConns = c.DBMinConns
	return pg
}

// Redis returns the Redis client configuration.
func (c *Config) Redis() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.Host = c.RedisHost
	rc.Port = c.RedisPort
	rc.Password = c.RedisPassword
	rc.DB = c.RedisDB
	return rc
}

// Tracing returns the tracer configuration for component.
func (c *Config) Tracing(component string) tracing.Config {
	tc := tracing.DefaultConfig(component)
	tc.Environment = c.Environment
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.SampleRate = c.OTELSampleRate
	tc.Enabled = c.OTELEnabled
	return tc
}
