package enums

import "fmt"

// CartLifecycle tracks hydration of the cart from persistent storage.
type CartLifecycle string

const (
	CartLifecycleUninitialized CartLifecycle = "uninitialized"
	CartLifecycleHydrating     CartLifecycle = "hydrating"
	CartLifecycleReady         CartLifecycle = "ready"
)

var validCartLifecycles = []CartLifecycle{
	CartLifecycleUninitialized,
	CartLifecycleHydrating,
	CartLifecycleReady,
}

// String implements fmt.Stringer.
func (c CartLifecycle) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartLifecycle.
func (c CartLifecycle) IsValid() bool {
	for _, candidate := range validCartLifecycles {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartLifecycle converts raw input into a CartLifecycle.
func ParseCartLifecycle(value string) (CartLifecycle, error) {
	for _, candidate := range validCartLifecycles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart lifecycle %q", value)
}
