package enums

import "fmt"

// CatalogLifecycle tracks the one-shot catalog load.
type CatalogLifecycle string

const (
	CatalogLifecycleIdle    CatalogLifecycle = "idle"
	CatalogLifecycleLoading CatalogLifecycle = "loading"
	CatalogLifecycleLoaded  CatalogLifecycle = "loaded"
	CatalogLifecycleErrored CatalogLifecycle = "errored"
)

var validCatalogLifecycles = []CatalogLifecycle{
	CatalogLifecycleIdle,
	CatalogLifecycleLoading,
	CatalogLifecycleLoaded,
	CatalogLifecycleErrored,
}

// String implements fmt.Stringer.
func (c CatalogLifecycle) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CatalogLifecycle.
func (c CatalogLifecycle) IsValid() bool {
	for _, candidate := range validCatalogLifecycles {
		if candidate == c {
			return true
		}
	}
	return false
}

// Settled reports whether the load has finished, successfully or not.
func (c CatalogLifecycle) Settled() bool {
	return c == CatalogLifecycleLoaded || c == CatalogLifecycleErrored
}

// ParseCatalogLifecycle converts raw input into a CatalogLifecycle.
func ParseCatalogLifecycle(value string) (CatalogLifecycle, error) {
	for _, candidate := range validCatalogLifecycles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog lifecycle %q", value)
}
