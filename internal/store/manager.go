// Package store owns the storefront session: the catalog snapshot, the cart
// and the durable slot the cart is mirrored to.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/luxe-storefront/internal/analytics"
	"github.com/angelmondragon/luxe-storefront/internal/cart"
	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/angelmondragon/luxe-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
	"github.com/angelmondragon/luxe-storefront/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Metric operation labels.
const (
	opAdd     = "add"
	opRemove  = "remove"
	opUpdate  = "update"
	opClear   = "clear"
	opConfirm = "confirm"
)

// CatalogLoader fetches config and products.
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Slot is the durable cart slot. It never returns errors.
type Slot interface {
	Load(ctx context.Context) (string, bool)
	Save(ctx context.Context, blob string)
	Clear(ctx context.Context)
}

// Codec turns cart lines into the stored blob and back.
type Codec interface {
	Encode(lines cart.Cart) (string, error)
	Decode(blob string) (cart.Cart, error)
}

// Tracker receives commerce events.
type Tracker interface {
	TrackAddToCart(ctx context.Context, cfg *catalog.StoreConfig, item analytics.Item)
	TrackPurchase(ctx context.Context, cfg *catalog.StoreConfig, transactionID string, value decimal.Decimal, items []analytics.Item)
}

type Params struct {
	Loader   CatalogLoader
	Slot     Slot
	Codec    Codec
	Notifier Notifier
	Tracker  Tracker
	Metrics  *metrics.StoreMetrics
	Logger   *logger.Logger
}

// Receipt describes a confirmed purchase.
type Receipt struct {
	TransactionID string          `json:"transaction_id"`
	Total         decimal.Decimal `json:"total"`
	ItemsCount    int             `json:"items_count"`
	Lines         cart.Cart       `json:"items"`
}

type Manager struct {
	loader   CatalogLoader
	slot     Slot
	codec    Codec
	notifier Notifier
	tracker  Tracker
	metrics  *metrics.StoreMetrics
	logg     *logger.Logger

	sessionID string
	baseCtx   context.Context
	engine    *cart.Engine
	persister *persister
	bg        sync.WaitGroup

	mu           sync.RWMutex
	config       *catalog.StoreConfig
	products     []catalog.Product
	bySKU        map[string]int
	loadErr      *string
	isLoading    bool
	cartState    enums.CartLifecycle
	catalogState enums.CatalogLifecycle

	startOnce sync.Once
	settled   chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func NewManager(p Params) (*Manager, error) {
	if p.Loader == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if p.Slot == nil {
		return nil, fmt.Errorf("storage slot required")
	}
	if p.Codec == nil {
		return nil, fmt.Errorf("cart codec required")
	}
	if p.Notifier == nil {
		p.Notifier = NewLogNotifier(p.Logger)
	}

	m := &Manager{
		loader:       p.Loader,
		slot:         p.Slot,
		codec:        p.Codec,
		notifier:     p.Notifier,
		tracker:      p.Tracker,
		metrics:      p.Metrics,
		logg:         p.Logger,
		sessionID:    uuid.NewString(),
		bySKU:        map[string]int{},
		cartState:    enums.CartLifecycleUninitialized,
		catalogState: enums.CatalogLifecycleIdle,
		settled:      make(chan struct{}),
	}
	m.baseCtx = m.withLog(context.Background(), "cart.persister")
	m.persister = newPersister(m.baseCtx, m.slot, m.codec, m.logg)
	m.engine = cart.NewEngine(m.persister.submit)
	return m, nil
}

// SessionID identifies this process's shopping session in logs.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Start hydrates the cart from the slot and begins loading the catalog in
// the background. Only the first call has any effect.
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.hydrate(m.withLog(ctx, "cart.hydrate"))

		m.mu.Lock()
		m.isLoading = true
		m.catalogState = enums.CatalogLifecycleLoading
		m.mu.Unlock()

		go m.loadCatalog(m.withLog(ctx, "catalog.load"))
	})
}

func (m *Manager) hydrate(ctx context.Context) {
	m.setCartState(enums.CartLifecycleHydrating)
	defer m.setCartState(enums.CartLifecycleReady)

	blob, ok := m.slot.Load(ctx)
	if !ok {
		return
	}
	lines, err := m.codec.Decode(blob)
	if err != nil {
		if m.logg != nil {
			m.logg.Warn(m.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "cart.hydrate_discarded")
		}
		m.slot.Clear(ctx)
		return
	}
	m.engine.Hydrate(lines)
	m.metrics.SetCartItems(lines.ItemsCount())
	if m.logg != nil {
		m.logg.Info(m.logg.WithField(ctx, "lines", len(lines)), "cart.hydrated")
	}
}

func (m *Manager) loadCatalog(ctx context.Context) {
	defer close(m.settled)

	cat, err := m.loader.Load(ctx)

	m.mu.Lock()
	m.isLoading = false
	if err != nil {
		msg := err.Error()
		if te := pkgerrors.As(err); te != nil {
			msg = te.Message()
		}
		m.loadErr = &msg
		m.catalogState = enums.CatalogLifecycleErrored
	} else {
		m.config = cat.Config
		m.products = cat.Products
		m.bySKU = make(map[string]int, len(cat.Products))
		for i, p := range cat.Products {
			m.bySKU[p.SKU] = i
		}
		m.loadErr = nil
		m.catalogState = enums.CatalogLifecycleLoaded
	}
	m.mu.Unlock()

	if err != nil {
		if m.logg != nil {
			m.logg.Error(m.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "catalog.load_failed", err)
		}
		m.notifier.Notify(ctx, Notification{Level: enums.NotificationLevelError, Message: MsgCatalogFailed})
		return
	}
	if m.logg != nil {
		m.logg.Info(m.logg.WithField(ctx, "products", len(cat.Products)), "catalog.loaded")
	}
}

// WaitCatalog blocks until the catalog load settles or ctx ends.
func (m *Manager) WaitCatalog(ctx context.Context) error {
	select {
	case <-m.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a consistent copy of the session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	snap := Snapshot{
		Config:       m.config.Clone(),
		Products:     catalog.CloneProducts(m.products),
		IsLoading:    m.isLoading,
		CartState:    m.cartState,
		CatalogState: m.catalogState,
	}
	if m.loadErr != nil {
		msg := *m.loadErr
		snap.Error = &msg
	}
	m.mu.RUnlock()

	if snap.Products == nil {
		snap.Products = []catalog.Product{}
	}
	snap.Cart = m.engine.Lines()
	return snap
}

// Cart returns a copy of the cart lines without touching catalog state.
func (m *Manager) Cart() cart.Cart {
	return m.engine.Lines()
}

// Product looks up a loaded product by SKU.
func (m *Manager) Product(sku string) (catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalogState != enums.CatalogLifecycleLoaded {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeCatalogUnavailable, "catalog not loaded")
	}
	idx, ok := m.bySKU[sku]
	if !ok {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", sku))
	}
	return m.products[idx].Clone(), nil
}

// AddToCart adds qty of product in the given variant. Stock and quantity
// rejections are returned and reported to the notifier.
func (m *Manager) AddToCart(ctx context.Context, product catalog.Product, size, color string, qty int) error {
	ctx = m.withLog(ctx, "cart.add")

	if err := m.engine.Add(product, size, color, qty); err != nil {
		m.metrics.IncCartMutation(opAdd, metrics.OutcomeRejected)
		msg := err.Error()
		if te := pkgerrors.As(err); te != nil {
			msg = te.Message()
		}
		m.notifier.Notify(ctx, Notification{Level: enums.NotificationLevelError, Message: msg, SKU: product.SKU})
		return err
	}

	m.metrics.IncCartMutation(opAdd, metrics.OutcomeAccepted)
	m.metrics.SetCartItems(m.engine.ItemsCount())
	m.notifier.Notify(ctx, Notification{Level: enums.NotificationLevelSuccess, Message: MsgAddedToCart, SKU: product.SKU})

	if m.tracker != nil {
		cfg := m.currentConfig()
		item := analytics.Item{
			ItemID:   product.SKU,
			ItemName: product.Nombre,
			Price:    product.UnitPrice(),
			Quantity: qty,
		}
		m.background(ctx, func(ctx context.Context) {
			m.tracker.TrackAddToCart(ctx, cfg, item)
		})
	}
	return nil
}

// AddToCartBySKU resolves sku against the loaded catalog before adding.
func (m *Manager) AddToCartBySKU(ctx context.Context, sku, size, color string, qty int) error {
	product, err := m.Product(sku)
	if err != nil {
		m.metrics.IncCartMutation(opAdd, metrics.OutcomeRejected)
		return err
	}
	return m.AddToCart(ctx, product, size, color, qty)
}

// RemoveFromCart removes the line for the variant. It reports whether a
// line was removed.
func (m *Manager) RemoveFromCart(ctx context.Context, sku, size, color string) bool {
	if !m.engine.Remove(sku, size, color) {
		m.metrics.IncCartMutation(opRemove, metrics.OutcomeNoop)
		return false
	}
	m.metrics.IncCartMutation(opRemove, metrics.OutcomeAccepted)
	m.metrics.SetCartItems(m.engine.ItemsCount())
	m.notifier.Notify(m.withLog(ctx, "cart.remove"), Notification{Level: enums.NotificationLevelSuccess, Message: MsgRemovedFromCart, SKU: sku})
	return true
}

// UpdateCartItemQuantity sets the line quantity. A quantity of zero or less
// removes the line. Stock is not re-checked.
func (m *Manager) UpdateCartItemQuantity(ctx context.Context, sku, size, color string, qty int) bool {
	if !m.engine.UpdateQuantity(sku, size, color, qty) {
		m.metrics.IncCartMutation(opUpdate, metrics.OutcomeNoop)
		return false
	}
	m.metrics.IncCartMutation(opUpdate, metrics.OutcomeAccepted)
	m.metrics.SetCartItems(m.engine.ItemsCount())
	if qty <= 0 {
		m.notifier.Notify(m.withLog(ctx, "cart.update"), Notification{Level: enums.NotificationLevelSuccess, Message: MsgRemovedFromCart, SKU: sku})
	}
	return true
}

// ClearCart empties the cart and removes the stored blob.
func (m *Manager) ClearCart(ctx context.Context) {
	m.engine.Clear()
	m.metrics.IncCartMutation(opClear, metrics.OutcomeAccepted)
	m.metrics.SetCartItems(0)
	if m.logg != nil {
		m.logg.Debug(m.withLog(ctx, "cart.clear"), "cart.cleared")
	}
}

func (m *Manager) CartTotal() decimal.Decimal {
	return m.engine.Total()
}

func (m *Manager) CartItemsCount() int {
	return m.engine.ItemsCount()
}

// CompletePurchase records the current cart as a purchase and clears it.
// No payment is taken.
func (m *Manager) CompletePurchase(ctx context.Context) (Receipt, error) {
	ctx = m.withLog(ctx, "cart.confirm")

	lines := m.engine.Lines()
	if len(lines) == 0 {
		m.metrics.IncCartMutation(opConfirm, metrics.OutcomeRejected)
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	receipt := Receipt{
		TransactionID: uuid.NewString(),
		Total:         lines.Total(),
		ItemsCount:    lines.ItemsCount(),
		Lines:         lines,
	}

	if m.tracker != nil {
		cfg := m.currentConfig()
		items := make([]analytics.Item, 0, len(lines))
		for _, l := range lines {
			items = append(items, analytics.Item{
				ItemID:   l.SKU,
				ItemName: l.Nombre,
				Price:    l.PrecioUnitario,
				Quantity: l.Cantidad,
			})
		}
		m.background(ctx, func(ctx context.Context) {
			m.tracker.TrackPurchase(ctx, cfg, receipt.TransactionID, receipt.Total, items)
		})
	}

	m.engine.Clear()
	m.metrics.IncCartMutation(opConfirm, metrics.OutcomeAccepted)
	m.metrics.SetCartItems(0)
	if m.logg != nil {
		m.logg.Info(m.logg.WithFields(ctx, map[string]any{
			"transaction_id": receipt.TransactionID,
			"total":          receipt.Total.String(),
			"items_count":    receipt.ItemsCount,
		}), "cart.purchase_completed")
	}
	return receipt, nil
}

// Flush waits until every cart change made so far has reached the slot.
func (m *Manager) Flush(ctx context.Context) error {
	return m.persister.flush(ctx)
}

// Close waits for in-flight analytics, flushes the cart and stops the
// persister. Later cart mutations are not persisted.
func (m *Manager) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		var err error

		waited := make(chan struct{})
		go func() {
			m.bg.Wait()
			close(waited)
		}()
		select {
		case <-waited:
		case <-ctx.Done():
			err = multierr.Append(err, fmt.Errorf("waiting for analytics: %w", ctx.Err()))
		}

		if ferr := m.persister.flush(ctx); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("flushing cart: %w", ferr))
		}
		m.persister.close()
		m.closeErr = err
	})
	return m.closeErr
}

func (m *Manager) currentConfig() *catalog.StoreConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Clone()
}

func (m *Manager) setCartState(state enums.CartLifecycle) {
	m.mu.Lock()
	m.cartState = state
	m.mu.Unlock()
}

// background runs fn detached from the caller's cancellation.
func (m *Manager) background(ctx context.Context, fn func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		fn(tctx)
	}()
}

func (m *Manager) withLog(ctx context.Context, component string) context.Context {
	if m.logg == nil {
		return ctx
	}
	ctx = m.logg.WithSessionID(ctx, m.sessionID)
	return m.logg.WithComponent(ctx, component)
}
