package instance

import "github.com/angelmondragon/luxe-storefront/pkg/env"

// GetID returns the process instance identifier used in startup logs.
// STOREFRONT_INSTANCE_ID wins over the platform-provided DYNO.
func GetID() string {
	return env.First("local", "STOREFRONT_INSTANCE_ID", "DYNO", "HOSTNAME")
}
