// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Storage   StorageConfig   `koanf:"storage"`
	Search    SearchConfig    `koanf:"search"`
	Notify    NotifyConfig    `koanf:"notify"`
	Catalog   CatalogConfig   `koanf:"catalog"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	DrainDelay      time.Duration `koanf:"drain_delay"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath    string        `koanf:"private_key_path"`
	PublicKeyPath     string        `koanf:"public_key_path"`
	AccessTokenExpire time.Duration `koanf:"access_token_expire"`
	Issuer            string        `koanf:"issuer"`
	Audience          string        `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests     int           `koanf:"requests"`
	Window       time.Duration `koanf:"window"`
	Burst        int           `koanf:"burst"`
	AuthRequests int           `koanf:"auth_requests"`
	AuthWindow   time.Duration `koanf:"auth_window"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// StorageConfig selects where uploaded course and event images live.
// Driver is one of "s3", "gcs" or "none".
type StorageConfig struct {
	Driver          string `koanf:"driver"`
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	PublicBaseURL   string `koanf:"public_base_url"`
	CredentialsFile string `koanf:"credentials_file"`
	MaxUploadSize   int64  `koanf:"max_upload_size"`
}

type SearchConfig struct {
	Enabled      bool     `koanf:"enabled"`
	Addresses    []string `koanf:"addresses"`
	Username     string   `koanf:"username"`
	Password     string   `koanf:"password"`
	CoursesIndex string   `koanf:"courses_index"`
}

type NotifyConfig struct {
	Enabled        bool   `koanf:"enabled"`
	AMQPURL        string `koanf:"amqp_url"`
	Exchange       string `koanf:"exchange"`
	Queue          string `koanf:"queue"`
	MailgunDomain  string `koanf:"mailgun_domain"`
	MailgunAPIKey  string `koanf:"mailgun_api_key"`
	Sender         string `koanf:"sender"`
	AdminRecipient string `koanf:"admin_recipient"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

const (
	StorageS3   = "s3"
	StorageGCS  = "gcs"
	StorageNone = "none"
)

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "InstaIQ",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             5000,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",
		"server.drain_delay":      "5s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.access_token_expire": "1h",
		"jwt.issuer":              "instaiq",
		"jwt.audience":            "instaiq-api",
		"jwt.private_key_path":    "keys/private.pem",
		"jwt.public_key_path":     "keys/public.pem",

		"rate_limit.requests":      100,
		"rate_limit.window":        "1m",
		"rate_limit.burst":         20,
		"rate_limit.auth_requests": 10,
		"rate_limit.auth_window":   "1m",

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "instaiq-api",

		"storage.driver":          StorageNone,
		"storage.region":          "us-east-1",
		"storage.max_upload_size": 5 << 20,

		"search.enabled":       false,
		"search.addresses":     []string{"http://localhost:9200"},
		"search.courses_index": "courses",

		"notify.enabled":  false,
		"notify.exchange": "instaiq.events",
		"notify.queue":    "instaiq.notifications",
		"notify.sender":   "InstaIQ <no-reply@instaiq.local>",

		"catalog.cache_ttl": "5m",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_AUTH_REQUESTS":    "rate_limit.auth_requests",
	"RATE_LIMIT_AUTH_WINDOW":      "rate_limit.auth_window",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"STORAGE_DRIVER":              "storage.driver",
	"STORAGE_BUCKET":              "storage.bucket",
	"STORAGE_REGION":              "storage.region",
	"STORAGE_ENDPOINT":            "storage.endpoint",
	"STORAGE_PUBLIC_BASE_URL":     "storage.public_base_url",
	"STORAGE_CREDENTIALS_FILE":    "storage.credentials_file",
	"STORAGE_MAX_UPLOAD_SIZE":     "storage.max_upload_size",
	"SEARCH_ENABLED":              "search.enabled",
	"ELASTICSEARCH_URL":           "search.addresses",
	"ELASTICSEARCH_USERNAME":      "search.username",
	"ELASTICSEARCH_PASSWORD":      "search.password",
	"SEARCH_COURSES_INDEX":        "search.courses_index",
	"NOTIFY_ENABLED":              "notify.enabled",
	"AMQP_URL":                    "notify.amqp_url",
	"NOTIFY_EXCHANGE":             "notify.exchange",
	"NOTIFY_QUEUE":                "notify.queue",
	"MAILGUN_DOMAIN":              "notify.mailgun_domain",
	"MAILGUN_API_KEY":             "notify.mailgun_api_key",
	"NOTIFY_SENDER":               "notify.sender",
	"NOTIFY_ADMIN_RECIPIENT":      "notify.admin_recipient",
	"CATALOG_CACHE_TTL":           "catalog.cache_ttl",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.JWT.PrivateKeyPath == "" {
		return fmt.Errorf("JWT_PRIVATE_KEY_PATH is required")
	}

	if c.JWT.PublicKeyPath == "" {
		return fmt.Errorf("JWT_PUBLIC_KEY_PATH is required")
	}

	if c.JWT.AccessTokenExpire <= 0 {
		return fmt.Errorf("jwt.access_token_expire must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	switch c.Storage.Driver {
	case StorageNone:
	case StorageS3, StorageGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("storage.max_upload_size must be positive")
	}

	if c.Search.Enabled && len(c.Search.Addresses) == 0 {
		return fmt.Errorf("ELASTICSEARCH_URL is required when search is enabled")
	}

	if c.Notify.Enabled && c.Notify.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required when notifications are enabled")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
