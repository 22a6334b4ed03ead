package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/angelmondragon/luxe-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceholderMeasurementID ships in the sample config and never tracks.
const PlaceholderMeasurementID = "G-XXXXXXXXXX"

// Sink delivers envelopes.
type Sink interface {
	Send(ctx context.Context, env Envelope) error
}

// Enabled reports whether cfg carries a real measurement id.
func Enabled(cfg *catalog.StoreConfig) bool {
	if cfg == nil {
		return false
	}
	id := cfg.GoogleAnalyticsID
	return id != "" && id != PlaceholderMeasurementID
}

// Tracker turns storefront actions into analytics events. Failures are
// logged and never returned.
type Tracker struct {
	sink     Sink
	currency enums.Currency
	logg     *logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewTracker(sink Sink, currency string, logg *logger.Logger) (*Tracker, error) {
	if sink == nil {
		return nil, fmt.Errorf("analytics sink required")
	}
	if currency == "" {
		currency = string(enums.CurrencyUSD)
	}
	cur, err := enums.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		sink:     sink,
		currency: cur,
		logg:     logg,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}, nil
}

// TrackEvent sends a custom event. It does nothing when tracking is disabled.
func (t *Tracker) TrackEvent(ctx context.Context, cfg *catalog.StoreConfig, name string, params any) {
	if t == nil || !Enabled(cfg) {
		return
	}
	if name == "" {
		t.warn(ctx, name, pkgerrors.New(pkgerrors.CodeValidation, "event name required"))
		return
	}
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		t.warn(ctx, name, err)
		return
	}
	env := Envelope{
		EventID:       t.newID(),
		EventName:     name,
		MeasurementID: cfg.GoogleAnalyticsID,
		OccurredAt:    t.now().UTC(),
		Params:        raw,
	}
	if err := t.sink.Send(ctx, env); err != nil {
		t.warn(ctx, name, err)
	}
}

// TrackAddToCart reports an accepted add.
func (t *Tracker) TrackAddToCart(ctx context.Context, cfg *catalog.StoreConfig, item Item) {
	if t == nil {
		return
	}
	t.TrackEvent(ctx, cfg, enums.AnalyticsEventAddToCart.String(), addToCartParams{
		Currency: t.currency,
		Value:    item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		Items:    []Item{item},
	})
}

// TrackPurchase reports a confirmed order.
func (t *Tracker) TrackPurchase(ctx context.Context, cfg *catalog.StoreConfig, transactionID string, value decimal.Decimal, items []Item) {
	if t == nil {
		return
	}
	if items == nil {
		items = []Item{}
	}
	t.TrackEvent(ctx, cfg, enums.AnalyticsEventPurchase.String(), purchaseParams{
		TransactionID: transactionID,
		Value:         value,
		Currency:      t.currency,
		Items:         items,
	})
}

func (t *Tracker) warn(ctx context.Context, name string, err error) {
	if t.logg == nil {
		return
	}
	fields := pkgerrors.Dump(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "analytics tracking failed")).Fields()
	fields["event_name"] = name
	t.logg.Warn(t.logg.WithFields(ctx, fields), "analytics.track_failed")
}
