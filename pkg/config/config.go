package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "SHOPMICRO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	OrderGateway OrderGatewayConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPMICRO_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPMICRO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPMICRO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPMICRO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPMICRO_DB_DSN"`
	Driver string `envconfig:"SHOPMICRO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHOPMICRO_DB_HOST"`
	Port     int    `envconfig:"SHOPMICRO_DB_PORT" default:"5432"`
	User     string `envconfig:"SHOPMICRO_DB_USER"`
	Password string `envconfig:"SHOPMICRO_DB_PASSWORD"`
	Name     string `envconfig:"SHOPMICRO_DB_NAME"`
	SSLMode  string `envconfig:"SHOPMICRO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPMICRO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPMICRO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPMICRO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPMICRO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the SQLite driver is selected.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, "sqlite")
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.IsSQLite() {
		d.DSN = "file:shopmicro.db?cache=shared"
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPMICRO_REDIS_URL"`
	Address      string        `envconfig:"SHOPMICRO_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPMICRO_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPMICRO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPMICRO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPMICRO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPMICRO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPMICRO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPMICRO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPMICRO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPMICRO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOPMICRO_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPMICRO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPMICRO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPMICRO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPMICRO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPMICRO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPMICRO_ARGON_KEY_LEN" default:"32"`
}

// OrderGatewayConfig points at the remote order/payment service.
type OrderGatewayConfig struct {
	BaseURL string        `envconfig:"SHOPMICRO_ORDER_GATEWAY_URL"`
	Timeout time.Duration `envconfig:"SHOPMICRO_ORDER_GATEWAY_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite        bool `envconfig:"SHOPMICRO_USE_SQLITE" default:"false"`
	AutoMigrate      bool `envconfig:"SHOPMICRO_AUTO_MIGRATE" default:"false"`
	SeedCatalog      bool `envconfig:"SHOPMICRO_SEED_CATALOG" default:"false"`
	StubOrderGateway bool `envconfig:"SHOPMICRO_STUB_ORDER_GATEWAY" default:"false"`
}
