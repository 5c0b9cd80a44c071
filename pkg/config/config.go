package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "VIETMARKET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Shipping     ShippingConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"VIETMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"VIETMARKET_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VIETMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VIETMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VIETMARKET_DB_DSN"`
	Driver string `envconfig:"VIETMARKET_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"VIETMARKET_DB_HOST"`
	Port     int    `envconfig:"VIETMARKET_DB_PORT" default:"5432"`
	User     string `envconfig:"VIETMARKET_DB_USER"`
	Password string `envconfig:"VIETMARKET_DB_PASSWORD"`
	Name     string `envconfig:"VIETMARKET_DB_NAME"`
	SSLMode  string `envconfig:"VIETMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VIETMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VIETMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VIETMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VIETMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VIETMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VIETMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"VIETMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"VIETMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VIETMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VIETMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VIETMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VIETMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VIETMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VIETMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VIETMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VIETMARKET_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VIETMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VIETMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VIETMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VIETMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VIETMARKET_ARGON_KEY_LEN" default:"32"`
}

// ShippingConfig tunes the fee policy without redeploying. Amounts are VND.
type ShippingConfig struct {
	FreeShippingThreshold int64 `envconfig:"VIETMARKET_SHIPPING_FREE_THRESHOLD" default:"100000"`
	MajorCityFee          int64 `envconfig:"VIETMARKET_SHIPPING_MAJOR_CITY_FEE" default:"30000"`
	RemoteProvinceFee     int64 `envconfig:"VIETMARKET_SHIPPING_REMOTE_FEE" default:"35000"`
	StandardFee           int64 `envconfig:"VIETMARKET_SHIPPING_STANDARD_FEE" default:"20000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VIETMARKET_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, pair := range []struct {
		envName string
		value   string
	}{
		{"VIETMARKET_DB_HOST", db.Host},
		{"VIETMARKET_DB_USER", db.User},
		{"VIETMARKET_DB_NAME", db.Name},
	} {
		if pair.value == "" {
			missing = append(missing, pair.envName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either VIETMARKET_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
