package config

const EnvPrefix = "STOREBILLING"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "STOREBILLING_APP_ENV"
	EnvPort         = "STOREBILLING_APP_PORT"
	EnvLogLevel     = "STOREBILLING_LOG_LEVEL"
	EnvLogWarnStack = "STOREBILLING_LOG_WARN_STACK"

	EnvDBDSN      = "STOREBILLING_DB_DSN"
	EnvDBDriver   = "STOREBILLING_DB_DRIVER"
	EnvDBHost     = "STOREBILLING_DB_HOST"
	EnvDBPort     = "STOREBILLING_DB_PORT"
	EnvDBUser     = "STOREBILLING_DB_USER"
	EnvDBPassword = "STOREBILLING_DB_PASSWORD"
	EnvDBName     = "STOREBILLING_DB_NAME"
	EnvSQLitePath = "STOREBILLING_SQLITE_PATH"

	EnvRedisURL = "STOREBILLING_REDIS_URL"

	EnvUseSQLite   = "STOREBILLING_USE_SQLITE"
	EnvAutoMigrate = "STOREBILLING_AUTO_MIGRATE"

	EnvImageMaxBytes = "STOREBILLING_MEDIA_IMAGE_MAX_BYTES"
	EnvImageMaxEdge  = "STOREBILLING_MEDIA_IMAGE_MAX_EDGE"

	EnvCORSOrigins      = "STOREBILLING_CORS_ORIGINS"
	EnvDashboardMaxDays = "STOREBILLING_DASHBOARD_MAX_DAYS"
)

// legacyDBEnvVars must all be set when no DSN is provided.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
