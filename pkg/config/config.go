package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	PIN           PINConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Terminal      TerminalConfig
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
	Env          string `envconfig:"PUNTOVENTA_APP_ENV" required:"true"`
	Port         string `envconfig:"PUNTOVENTA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PUNTOVENTA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PUNTOVENTA_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"PUNTOVENTA_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PUNTOVENTA_DB_DSN"`
	Driver string `envconfig:"PUNTOVENTA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PUNTOVENTA_DB_HOST"`
	LegacyPort     int    `envconfig:"PUNTOVENTA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PUNTOVENTA_DB_USER"`
	LegacyPassword string `envconfig:"PUNTOVENTA_DB_PASSWORD"`
	LegacyName     string `envconfig:"PUNTOVENTA_DB_NAME"`
	LegacySSLMode  string `envconfig:"PUNTOVENTA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PUNTOVENTA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PUNTOVENTA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PUNTOVENTA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PUNTOVENTA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PUNTOVENTA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PUNTOVENTA_REDIS_ADDR"`
	Password     string        `envconfig:"PUNTOVENTA_REDIS_PASSWORD"`
	DB           int           `envconfig:"PUNTOVENTA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PUNTOVENTA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PUNTOVENTA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PUNTOVENTA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PUNTOVENTA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PUNTOVENTA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PUNTOVENTA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PUNTOVENTA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PUNTOVENTA_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the configured access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PINConfig struct {
	ArgonMemoryKB    int `envconfig:"PUNTOVENTA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PUNTOVENTA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PUNTOVENTA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PUNTOVENTA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PUNTOVENTA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"PUNTOVENTA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginProfileLimit int           `envconfig:"PUNTOVENTA_AUTH_RATE_LIMIT_LOGIN_PROFILE_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"PUNTOVENTA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PUNTOVENTA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PUNTOVENTA_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PUNTOVENTA_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"PUNTOVENTA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PUNTOVENTA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	StockTopic        string `envconfig:"PUNTOVENTA_PUBSUB_STOCK_TOPIC" required:"true"`
	StockSubscription string `envconfig:"PUNTOVENTA_PUBSUB_STOCK_SUBSCRIPTION" required:"true"`
}

// TerminalConfig tunes the POS terminal daemon.
type TerminalConfig struct {
	Port           string `envconfig:"PUNTOVENTA_TERMINAL_PORT" default:"8090"`
	Name           string `envconfig:"PUNTOVENTA_TERMINAL_NAME" default:"pos-1"`
	OrganizationID string `envconfig:"PUNTOVENTA_TERMINAL_ORGANIZATION_ID"`
	// StorageBackend selects cart persistence: "memory" keeps carts in
	// process, "redis" shares them across terminal processes on one host.
	StorageBackend string `envconfig:"PUNTOVENTA_TERMINAL_STORAGE" default:"memory"`
	POSCartKey     string `envconfig:"PUNTOVENTA_TERMINAL_POS_CART_KEY" default:"pos-cart"`
	StoreCartKey   string `envconfig:"PUNTOVENTA_TERMINAL_STORE_CART_KEY" default:"store-cart"`
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
