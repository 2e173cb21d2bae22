package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SERVICEDESK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "SERVICEDESK_APP_ENV"
	EnvPort   = "SERVICEDESK_APP_PORT"
	EnvDBDSN  = "SERVICEDESK_DB_DSN"
	EnvDBHost = "SERVICEDESK_DB_HOST"
	EnvDBUser = "SERVICEDESK_DB_USER"
	EnvDBName = "SERVICEDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Idempotency  IdempotencyConfig
	Inventory    InventoryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SERVICEDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"SERVICEDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SERVICEDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SERVICEDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SERVICEDESK_DB_DSN"`
	Driver string `envconfig:"SERVICEDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SERVICEDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"SERVICEDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SERVICEDESK_DB_USER"`
	LegacyPassword string `envconfig:"SERVICEDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SERVICEDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SERVICEDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SERVICEDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SERVICEDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SERVICEDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SERVICEDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SERVICEDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SERVICEDESK_REDIS_ADDR"`
	Password     string        `envconfig:"SERVICEDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SERVICEDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SERVICEDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SERVICEDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SERVICEDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SERVICEDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SERVICEDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SERVICEDESK_AUTO_MIGRATE" default:"false"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"SERVICEDESK_IDEMPOTENCY_TTL" default:"24h"`
}

type InventoryConfig struct {
	// LowStockFallback is used when the low_stock_threshold system setting is absent.
	LowStockFallback int `envconfig:"SERVICEDESK_LOW_STOCK_FALLBACK" default:"5"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
