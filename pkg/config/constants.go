package config

// EnvPrefix is passed to envconfig; individual tags carry the full name.
const EnvPrefix = "puntoventa"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, errors).
const (
	EnvAppEnv   = "PUNTOVENTA_APP_ENV"
	EnvPort     = "PUNTOVENTA_APP_PORT"
	EnvDBDSN    = "PUNTOVENTA_DB_DSN"
	EnvDBHost   = "PUNTOVENTA_DB_HOST"
	EnvDBUser   = "PUNTOVENTA_DB_USER"
	EnvDBName   = "PUNTOVENTA_DB_NAME"
	EnvRedisURL = "PUNTOVENTA_REDIS_URL"

	EnvJWTSecret  = "PUNTOVENTA_JWT_SECRET"
	EnvJWTIssuer  = "PUNTOVENTA_JWT_ISSUER"
	EnvJWTExpMins = "PUNTOVENTA_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID    = "PUNTOVENTA_GCP_PROJECT_ID"
	EnvPubSubStockTopic = "PUNTOVENTA_PUBSUB_STOCK_TOPIC"
	EnvPubSubStockSub   = "PUNTOVENTA_PUBSUB_STOCK_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
