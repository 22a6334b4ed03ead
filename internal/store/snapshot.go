package store

import (
	"github.com/angelmondragon/luxe-storefront/internal/cart"
	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/angelmondragon/luxe-storefront/pkg/enums"
)

// Snapshot is the read-only view handed to consumers. It shares nothing with
// the manager.
type Snapshot struct {
	Config       *catalog.StoreConfig   `json:"config"`
	Products     []catalog.Product      `json:"products"`
	Cart         cart.Cart              `json:"cart"`
	IsLoading    bool                   `json:"is_loading"`
	Error        *string                `json:"error"`
	CartState    enums.CartLifecycle    `json:"cart_state"`
	CatalogState enums.CatalogLifecycle `json:"catalog_state"`
}

// Ready reports whether config and products may be rendered.
func (s Snapshot) Ready() bool {
	return !s.IsLoading && s.CatalogState == enums.CatalogLifecycleLoaded
}
