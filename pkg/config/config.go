package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Media        MediaConfig
	Dashboard    DashboardConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREBILLING_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREBILLING_APP_PORT" default:"4000"`
	LogLevel     string `envconfig:"STOREBILLING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREBILLING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"STOREBILLING_CORS_ORIGINS" default:"*"`
	ReadTimeout     time.Duration `envconfig:"STOREBILLING_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"STOREBILLING_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"STOREBILLING_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	DSN        string `envconfig:"STOREBILLING_DB_DSN"`
	Driver     string `envconfig:"STOREBILLING_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"STOREBILLING_SQLITE_PATH" default:"storebilling.db"`

	LegacyHost     string `envconfig:"STOREBILLING_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREBILLING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREBILLING_DB_USER"`
	LegacyPassword string `envconfig:"STOREBILLING_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREBILLING_DB_NAME" default:"storebilling"`
	LegacySSLMode  string `envconfig:"STOREBILLING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREBILLING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREBILLING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREBILLING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREBILLING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREBILLING_REDIS_URL"`
	Address      string        `envconfig:"STOREBILLING_REDIS_ADDR"`
	Password     string        `envconfig:"STOREBILLING_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREBILLING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREBILLING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREBILLING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREBILLING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREBILLING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREBILLING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOREBILLING_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOREBILLING_AUTO_MIGRATE" default:"false"`
}

type MediaConfig struct {
	ImageMaxBytes int `envconfig:"STOREBILLING_MEDIA_IMAGE_MAX_BYTES" default:"1048576"`
	ImageMaxEdge  int `envconfig:"STOREBILLING_MEDIA_IMAGE_MAX_EDGE" default:"1024"`
}

type DashboardConfig struct {
	MaxDays int `envconfig:"STOREBILLING_DASHBOARD_MAX_DAYS" default:"60"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = sqliteDSN(db.SQLitePath)
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

func sqliteDSN(path string) string {
	if strings.TrimSpace(path) == "" {
		path = "storebilling.db"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}
