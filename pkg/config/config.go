package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Storage   StorageConfig
	Codec     CodecConfig
	DB        DBConfig
	Redis     RedisConfig
	GCP       GCPConfig
	GCS       GCSConfig
	Analytics AnalyticsConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.validate(cfg.GCS); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(cfg); err != nil {
		return nil, err
	}
	if err := cfg.DB.ensureDSN(cfg.Storage.Driver); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`

	// PublicURL is the site origin used for canonical and structured-data urls.
	PublicURL string `envconfig:"STOREFRONT_PUBLIC_URL"`

	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points the loader at the two catalog resources.
type CatalogConfig struct {
	Source       string        `envconfig:"STOREFRONT_CATALOG_SOURCE" default:"file"`
	BaseURL      string        `envconfig:"STOREFRONT_CATALOG_BASE_URL"`
	Dir          string        `envconfig:"STOREFRONT_CATALOG_DIR" default:"public"`
	ConfigPath   string        `envconfig:"STOREFRONT_CATALOG_CONFIG_PATH" default:"data/config_general.json"`
	ProductsPath string        `envconfig:"STOREFRONT_CATALOG_PRODUCTS_PATH" default:"data/productos_global.json"`
	Timeout      time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
}

// StorageConfig selects the durable slot that stands in for browser local storage.
type StorageConfig struct {
	Driver  string        `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"file"`
	Key     string        `envconfig:"STOREFRONT_STORAGE_KEY" default:"luxe_cart"`
	Dir     string        `envconfig:"STOREFRONT_STORAGE_DIR" default:".storefront"`
	Timeout time.Duration `envconfig:"STOREFRONT_STORAGE_TIMEOUT" default:"2s"`
}

type CodecConfig struct {
	Secret string `envconfig:"STOREFRONT_CODEC_SECRET" default:"luxe-storefront-cart"`
}

type DBConfig struct {
	DSN         string `envconfig:"STOREFRONT_DB_DSN"`
	AutoMigrate bool   `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// Driver is copied from StorageConfig during Load.
	Driver string `ignored:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"STOREFRONT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"STOREFRONT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"STOREFRONT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"STOREFRONT_GCS_BUCKET_NAME"`
	Prefix     string `envconfig:"STOREFRONT_GCS_PREFIX"`
}

type AnalyticsConfig struct {
	Currency    string `envconfig:"STOREFRONT_ANALYTICS_CURRENCY" default:"USD"`
	PubSubTopic string `envconfig:"STOREFRONT_ANALYTICS_PUBSUB_TOPIC"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (c CatalogConfig) validate(gcs GCSConfig) error {
	switch strings.ToLower(strings.TrimSpace(c.Source)) {
	case CatalogSourceFile:
		if strings.TrimSpace(c.Dir) == "" {
			return fmt.Errorf("%s is required for the file catalog source", EnvCatalogDir)
		}
	case CatalogSourceHTTP:
		if strings.TrimSpace(c.BaseURL) == "" {
			return fmt.Errorf("%s is required for the http catalog source", EnvCatalogBaseURL)
		}
	case CatalogSourceGCS:
		if strings.TrimSpace(gcs.BucketName) == "" {
			return fmt.Errorf("%s is required for the gcs catalog source", EnvGCSBucket)
		}
	default:
		return fmt.Errorf("unsupported catalog source %q", c.Source)
	}
	return nil
}

func (s StorageConfig) validate(cfg Config) error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("%s must not be empty", EnvStorageKey)
	}
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverMemory, StorageDriverDisabled, StorageDriverSQLite, StorageDriverPostgres:
		return nil
	case StorageDriverFile:
		if strings.TrimSpace(s.Dir) == "" {
			return fmt.Errorf("%s is required for the file storage driver", EnvStorageDir)
		}
		return nil
	case StorageDriverRedis:
		if cfg.Redis.URL == "" && cfg.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
}

func (db *DBConfig) ensureDSN(driver string) error {
	db.Driver = strings.ToLower(strings.TrimSpace(driver))
	if db.DSN != "" {
		return nil
	}
	switch db.Driver {
	case StorageDriverSQLite:
		db.DSN = defaultSQLiteDSN
	case StorageDriverPostgres:
		return fmt.Errorf("%s is required for the postgres storage driver", EnvDBDSN)
	}
	return nil
}
