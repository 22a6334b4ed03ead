package persistence

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/luxe-storefront/pkg/config"
	"gorm.io/gorm"
)

// BackendDeps carries the clients a driver may need.
type BackendDeps struct {
	Dir   string
	Redis redisSlots
	DB    *gorm.DB
}

// NewBackend selects the backend for a storage driver.
func NewBackend(driver string, deps BackendDeps) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case config.StorageDriverMemory:
		return NewMemoryBackend(), nil
	case config.StorageDriverFile:
		return NewFileBackend(deps.Dir)
	case config.StorageDriverRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("redis client required for the redis storage driver")
		}
		return NewRedisBackend(deps.Redis), nil
	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("database required for the %s storage driver", driver)
		}
		return NewSQLBackend(deps.DB), nil
	case config.StorageDriverDisabled:
		return DisabledBackend{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
