package config

// EnvPrefix is passed to envconfig; every field carries its full variable name.
const EnvPrefix = "MOONPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv      = "MOONPOS_APP_ENV"
	EnvPort        = "MOONPOS_APP_PORT"
	EnvDBURL       = "MOONPOS_DB_URL"
	EnvDBDriver    = "MOONPOS_DB_DRIVER"
	EnvDBHost      = "MOONPOS_DB_HOST"
	EnvDBUser      = "MOONPOS_DB_USER"
	EnvDBPassword  = "MOONPOS_DB_PASSWORD"
	EnvDBName      = "MOONPOS_DB_NAME"
	EnvRedisURL    = "MOONPOS_REDIS_URL"
	EnvCORSOrigins = "MOONPOS_CORS_ORIGINS"
	EnvAutoMigrate = "MOONPOS_AUTO_MIGRATE"
	EnvSeedCatalog = "MOONPOS_SEED_CATALOG"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
