package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/notify"
	pkgconfig "github.com/Vinhhoang-1312/apiskylarbox/pkg/config"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/database"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/tracing"
)

// Storage backends selectable with STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// DotenvFile is read before the environment is parsed, when present.
const DotenvFile = ".env"

// Config holds all configuration for the catalog API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"skylarbox-api"`

	// HTTP server
	HTTPPort          int           `env:"PORT" envDefault:"3000"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	PprofAllowedCIDRs []string      `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`
	PublicCacheMaxAge int           `env:"PUBLIC_CACHE_MAX_AGE" envDefault:"60"`

	// Storage
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`

	// MongoDB
	MongoURI         string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase    string        `env:"MONGO_DATABASE" envDefault:"skylarbox"`
	MongoMaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"50"`
	MongoTimeout     time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`

	// PostgreSQL
	PostgresURL  string `env:"POSTGRES_URL"`
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"skylarbox"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"skylarbox"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"skylarbox"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	DBMaxConns           int32         `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns           int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetime    time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime    time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	SlowQueryThresholdMs int           `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Redis read-through cache
	CacheEnabled  bool          `env:"CACHE_ENABLED" envDefault:"false"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	RedisURL      string        `env:"REDIS_URL"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	// Kafka. Events are dropped when no broker is configured.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"1h"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	// Admin bootstrap
	AdminUserName string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Password reset delivery
	Notifier           string `env:"NOTIFIER" envDefault:"log"`
	NotifierWebhookURL string `env:"NOTIFIER_WEBHOOK_URL"`

	// Delete policies, empty means the entity default.
	DeletePolicyProduct     string `env:"DELETE_POLICY_PRODUCT"`
	DeletePolicyCategory    string `env:"DELETE_POLICY_CATEGORY"`
	DeletePolicyPartner     string `env:"DELETE_POLICY_PARTNER"`
	DeletePolicyBlog        string `env:"DELETE_POLICY_BLOG"`
	DeletePolicyTestimonial string `env:"DELETE_POLICY_TESTIMONIAL"`
	DeletePolicyFeaturedBox string `env:"DELETE_POLICY_FEATURED_BOX"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Rate limiting of /api/auth, 0 disables it.
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	deletePolicies map[string]domain.DeletePolicy
}

// Load reads configuration from the environment, seeded from a .env file
// in the working directory when one exists.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithDotenv(cfg, DotenvFile); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be mongo, postgres or memory", c.StoreDriver)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
		if c.StoreDriver == DriverMemory {
			return fmt.Errorf("STORE_DRIVER=memory is only allowed in development")
		}
	}
	if c.JWTAccessExpiry <= 0 || c.JWTRefreshExpiry <= 0 {
		return fmt.Errorf("JWT token expiries must be positive")
	}

	if (c.AdminUserName == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	c.Notifier = strings.ToLower(strings.TrimSpace(c.Notifier))
	if !notify.ValidKind(c.Notifier) {
		return fmt.Errorf("invalid NOTIFIER %q: must be log, kafka or webhook", c.Notifier)
	}
	if c.Notifier == notify.KindWebhook && c.NotifierWebhookURL == "" {
		return fmt.Errorf("NOTIFIER_WEBHOOK_URL is required when NOTIFIER=webhook")
	}
	if c.Notifier == notify.KindKafka && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when NOTIFIER=kafka")
	}

	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when the cache is enabled")
	}
	if c.AuthRateLimitRPS < 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_RPS must not be negative")
	}

	policies := domain.DefaultDeletePolicies()
	overrides := map[string]string{
		domain.EntityProduct:     c.DeletePolicyProduct,
		domain.EntityCategory:    c.DeletePolicyCategory,
		domain.EntityPartner:     c.DeletePolicyPartner,
		domain.EntityBlogPost:    c.DeletePolicyBlog,
		domain.EntityTestimonial: c.DeletePolicyTestimonial,
		domain.EntityFeaturedBox: c.DeletePolicyFeaturedBox,
	}
	for entity, raw := range overrides {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := domain.ParseDeletePolicy(raw)
		if err != nil {
			return fmt.Errorf("delete policy for %s: %w", entity, err)
		}
		policies[entity] = p
	}
	c.deletePolicies = policies

	return nil
}

// DeletePolicy returns the configured delete policy for entity.
func (c *Config) DeletePolicy(entity string) domain.DeletePolicy {
	if p, ok := c.deletePolicies[entity]; ok {
		return p
	}
	return domain.DefaultDeletePolicies()[entity]
}

// MongoConfig returns the MongoDB connection settings.
func (c *Config) MongoConfig() database.MongoConfig {
	return database.MongoConfig{
		URI:            c.MongoURI,
		Database:       c.MongoDatabase,
		MaxPoolSize:    c.MongoMaxPoolSize,
		ConnectTimeout: c.MongoTimeout,
		AppName:        c.ServiceName,
	}
}

// PostgresConfig returns the PostgreSQL pool settings.
func (c *Config) PostgresConfig() database.PostgresConfig {
	return database.PostgresConfig{
		URL:             c.PostgresURL,
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: c.DBMaxConnLifetime,
		MaxConnIdleTime: c.DBMaxConnIdleTime,
	}
}

// RedisConfig returns the Redis connection settings.
func (c *Config) RedisConfig() database.RedisConfig {
	return database.RedisConfig{
		URL:      c.RedisURL,
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// TracingConfig returns the OpenTelemetry settings.
func (c *Config) TracingConfig(version string) tracing.Config {
	return tracing.Config{
		ServiceName:    c.ServiceName,
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTELEndpoint,
		SampleRate:     c.OTELSampleRate,
		Enabled:        c.OTELEnabled,
	}
}
