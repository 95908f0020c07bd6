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
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
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
	Env             string        `envconfig:"MOONPOS_APP_ENV" required:"true"`
	Port            string        `envconfig:"MOONPOS_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"MOONPOS_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"MOONPOS_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"MOONPOS_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MOONPOS_DB_URL"`
	Driver string `envconfig:"MOONPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOONPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"MOONPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOONPOS_DB_USER"`
	LegacyPassword string `envconfig:"MOONPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOONPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOONPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOONPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOONPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOONPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOONPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

// RedisConfig is optional; with neither URL nor Address set the API runs
// without idempotent replay.
type RedisConfig struct {
	URL          string        `envconfig:"MOONPOS_REDIS_URL"`
	Address      string        `envconfig:"MOONPOS_REDIS_ADDR"`
	Password     string        `envconfig:"MOONPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOONPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOONPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOONPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOONPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOONPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOONPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CORSConfig struct {
	Origins string `envconfig:"MOONPOS_CORS_ORIGINS" default:"*"`
}

// AllowedOrigins splits the comma separated origin list. "*" stays a single
// wildcard entry.
func (c CORSConfig) AllowedOrigins() []string {
	raw := strings.TrimSpace(c.Origins)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// AllowCredentials is disabled for the wildcard origin.
func (c CORSConfig) AllowCredentials() bool {
	origins := c.AllowedOrigins()
	return !(len(origins) == 1 && origins[0] == "*")
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"MOONPOS_AUTO_MIGRATE" default:"false"`
	SeedCatalog    bool `envconfig:"MOONPOS_SEED_CATALOG" default:"false"`
	MetricsEnabled bool `envconfig:"MOONPOS_METRICS_ENABLED" default:"true"`
}

// CronConfig drives cmd/cron-worker.
type CronConfig struct {
	Interval      time.Duration `envconfig:"MOONPOS_CRON_INTERVAL" default:"1h"`
	LockTTL       time.Duration `envconfig:"MOONPOS_CRON_LOCK_TTL" default:"55m"`
	AuditLookback time.Duration `envconfig:"MOONPOS_CRON_AUDIT_LOOKBACK" default:"48h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBURL)
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
		return fmt.Errorf("either %s or %s are required", EnvDBURL, strings.Join(missing, ", "))
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
