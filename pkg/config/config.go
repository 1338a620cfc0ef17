package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Cache   CacheConfig
	Redis   RedisConfig
	POS     POSConfig
	Feature FeatureFlagsConfig
	HTTP    HTTPConfig
}

// Load parses the environment into a Config. A missing database URL is not an
// error: callers check DB.Configured() and surface the "not configured" state.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.DB.resolveDSN()
	if err := cfg.Cache.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOTCAMPX_APP_ENV" default:"dev"`
	Port         string `envconfig:"BOOTCAMPX_APP_PORT" default:"8080"`
	Title        string `envconfig:"BOOTCAMPX_APP_TITLE" default:"Bootcampx Cashier System"`
	LogoPath     string `envconfig:"BOOTCAMPX_APP_LOGO_PATH" default:"assets/logo.png"`
	LogLevel     string `envconfig:"BOOTCAMPX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOTCAMPX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN         string `envconfig:"BOOTCAMPX_DATABASE_URL"`
	LegacyDSN   string `envconfig:"DATABASE_URL"`
	SecretsFile string `envconfig:"BOOTCAMPX_SECRETS_FILE" default:".secrets.yaml"`

	MaxOpenConns    int           `envconfig:"BOOTCAMPX_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"BOOTCAMPX_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"BOOTCAMPX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOTCAMPX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Configured reports whether a connection string was resolved. It never dials.
func (db DBConfig) Configured() bool {
	return strings.TrimSpace(db.DSN) != ""
}

func (db *DBConfig) resolveDSN() {
	db.DSN = strings.TrimSpace(db.DSN)
	if db.DSN != "" {
		return
	}
	if legacy := strings.TrimSpace(db.LegacyDSN); legacy != "" {
		db.DSN = legacy
		return
	}
	db.DSN = dsnFromSecrets(db.SecretsFile)
}

type CacheConfig struct {
	Backend string        `envconfig:"BOOTCAMPX_CACHE_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"BOOTCAMPX_CACHE_TTL" default:"60s"`
}

func (c CacheConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(c.Backend), CacheBackendRedis)
}

func (c CacheConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvCacheBackend, CacheBackendMemory, CacheBackendRedis, c.Backend)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvCacheTTL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOTCAMPX_REDIS_URL"`
	Address      string        `envconfig:"BOOTCAMPX_REDIS_ADDR"`
	Password     string        `envconfig:"BOOTCAMPX_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOTCAMPX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOTCAMPX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOTCAMPX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOTCAMPX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOTCAMPX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOTCAMPX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type POSConfig struct {
	SessionTTL        time.Duration `envconfig:"BOOTCAMPX_POS_SESSION_TTL" default:"12h"`
	LowStockThreshold string        `envconfig:"BOOTCAMPX_LOW_STOCK_THRESHOLD" default:"5"`
	SalesDefaultDays  int           `envconfig:"BOOTCAMPX_SALES_DEFAULT_DAYS" default:"7"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BOOTCAMPX_AUTO_MIGRATE" default:"false"`
}

type HTTPConfig struct {
	CORSOrigins  []string      `envconfig:"BOOTCAMPX_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:8501"`
	ReadTimeout  time.Duration `envconfig:"BOOTCAMPX_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"BOOTCAMPX_HTTP_WRITE_TIMEOUT" default:"30s"`
}
