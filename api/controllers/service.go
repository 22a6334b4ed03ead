package controllers

import (
	"context"

	"github.com/angelmondragon/luxe-storefront/internal/cart"
	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/angelmondragon/luxe-storefront/internal/store"
)

// StoreService is the session surface the HTTP layer drives.
type StoreService interface {
	Snapshot() store.Snapshot
	Cart() cart.Cart
	Product(sku string) (catalog.Product, error)
	AddToCartBySKU(ctx context.Context, sku, size, color string, qty int) error
	RemoveFromCart(ctx context.Context, sku, size, color string) bool
	UpdateCartItemQuantity(ctx context.Context, sku, size, color string, qty int) bool
	ClearCart(ctx context.Context)
	CompletePurchase(ctx context.Context) (store.Receipt, error)
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
