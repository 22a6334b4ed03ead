package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "STOREFRONT_APP_ENV"
	EnvPort      = "STOREFRONT_APP_PORT"
	EnvLogLevel  = "STOREFRONT_LOG_LEVEL"
	EnvPublicURL = "STOREFRONT_PUBLIC_URL"

	EnvCatalogSource  = "STOREFRONT_CATALOG_SOURCE"
	EnvCatalogBaseURL = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogDir     = "STOREFRONT_CATALOG_DIR"

	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageKey    = "STOREFRONT_STORAGE_KEY"
	EnvStorageDir    = "STOREFRONT_STORAGE_DIR"

	EnvCodecSecret = "STOREFRONT_CODEC_SECRET"

	EnvDBDSN = "STOREFRONT_DB_DSN"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvGCPProjectID = "STOREFRONT_GCP_PROJECT_ID"
	EnvGCSBucket    = "STOREFRONT_GCS_BUCKET_NAME"

	EnvAnalyticsTopic = "STOREFRONT_ANALYTICS_PUBSUB_TOPIC"
	EnvCORSOrigins    = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)

// Catalog sources.
const (
	CatalogSourceFile = "file"
	CatalogSourceHTTP = "http"
	CatalogSourceGCS  = "gcs"
)

// Storage drivers.
const (
	StorageDriverMemory   = "memory"
	StorageDriverFile     = "file"
	StorageDriverRedis    = "redis"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverDisabled = "disabled"
)

const defaultSQLiteDSN = "file:storefront.db?_busy_timeout=5000"
