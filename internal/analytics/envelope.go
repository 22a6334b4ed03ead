package analytics

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/luxe-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Envelope is the message handed to a sink.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventName     string          `json:"event_name"`
	MeasurementID string          `json:"measurement_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Params        json.RawMessage `json:"params"`
}

// Item is one product entry inside an ecommerce event.
type Item struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type addToCartParams struct {
	Currency enums.Currency  `json:"currency"`
	Value    decimal.Decimal `json:"value"`
	Items    []Item          `json:"items"`
}

type purchaseParams struct {
	TransactionID string          `json:"transaction_id"`
	Value         decimal.Decimal `json:"value"`
	Currency      enums.Currency  `json:"currency"`
	Items         []Item          `json:"items"`
}
