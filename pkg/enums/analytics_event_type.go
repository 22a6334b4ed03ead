package enums

import "fmt"

// AnalyticsEventType names the tracked storefront events.
type AnalyticsEventType string

const (
	AnalyticsEventAddToCart AnalyticsEventType = "add_to_cart"
	AnalyticsEventPurchase  AnalyticsEventType = "purchase"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventAddToCart,
	AnalyticsEventPurchase,
}

// String implements fmt.Stringer.
func (a AnalyticsEventType) String() string {
	return string(a)
}

// IsValid reports whether the value is one of the standard event names.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts the raw string to AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
