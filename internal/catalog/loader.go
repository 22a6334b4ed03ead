package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/luxe-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// Messages surfaced in the store snapshot when a resource fails.
const (
	MsgConfigUnavailable   = "failed to load configuration"
	MsgProductsUnavailable = "failed to load products"
)

type loadObserver interface {
	ObserveCatalogLoad(outcome string, duration time.Duration)
}

// Loader fetches the store configuration and product list.
type Loader struct {
	source       Source
	configPath   string
	productsPath string
	timeout      time.Duration
	validate     *validator.Validate
	observer     loadObserver
}

// NewLoader builds a loader for the configured resource paths.
func NewLoader(source Source, cfg config.CatalogConfig, observer loadObserver) (*Loader, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	if cfg.ConfigPath == "" || cfg.ProductsPath == "" {
		return nil, fmt.Errorf("catalog resource paths required")
	}
	return &Loader{
		source:       source,
		configPath:   cfg.ConfigPath,
		productsPath: cfg.ProductsPath,
		timeout:      cfg.Timeout,
		validate:     validator.New(),
		observer:     observer,
	}, nil
}

// Load fetches both resources concurrently. Either failing fails the whole load.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	started := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var (
		cfg      *StoreConfig
		products []Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := l.source.Fetch(gctx, l.configPath)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, MsgConfigUnavailable)
		}
		parsed, err := ParseConfig(raw)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, MsgConfigUnavailable)
		}
		cfg = parsed
		return nil
	})
	g.Go(func() error {
		raw, err := l.source.Fetch(gctx, l.productsPath)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, MsgProductsUnavailable)
		}
		parsed, err := l.ParseProducts(raw)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, MsgProductsUnavailable)
		}
		products = parsed
		return nil
	})

	err := g.Wait()
	if l.observer != nil {
		outcome := "loaded"
		if err != nil {
			outcome = "errored"
		}
		l.observer.ObserveCatalogLoad(outcome, time.Since(started))
	}
	if err != nil {
		return nil, err
	}
	return &Catalog{Config: cfg, Products: products}, nil
}

// ParseConfig decodes config_general.json. A JSON null is rejected.
func ParseConfig(raw []byte) (*StoreConfig, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("configuration document is empty")
	}
	var cfg StoreConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return &cfg, nil
}

// ParseProducts decodes productos_global.json and validates every entry.
func (l *Loader) ParseProducts(raw []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	if products == nil {
		return nil, fmt.Errorf("products document is not a list")
	}

	seen := make(map[string]struct{}, len(products))
	for i := range products {
		p := &products[i]
		if err := l.validate.Struct(p); err != nil {
			return nil, fmt.Errorf("product %d (%q): %w", i, p.SKU, err)
		}
		if p.PrecioOriginal.IsNegative() {
			return nil, fmt.Errorf("product %q: precio_original must be non-negative", p.SKU)
		}
		if p.PrecioOferta != nil && p.PrecioOferta.IsNegative() {
			return nil, fmt.Errorf("product %q: precio_oferta must be non-negative", p.SKU)
		}
		if _, dup := seen[p.SKU]; dup {
			return nil, fmt.Errorf("duplicate sku %q", p.SKU)
		}
		seen[p.SKU] = struct{}{}
	}
	return products, nil
}
