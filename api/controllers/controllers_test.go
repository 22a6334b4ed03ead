package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/luxe-storefront/internal/cart"
	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/angelmondragon/luxe-storefront/internal/store"
	"github.com/angelmondragon/luxe-storefront/pkg/config"
	"github.com/angelmondragon/luxe-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
)

type addCall struct {
	sku, size, color string
	qty              int
}

type stubStore struct {
	snap     store.Snapshot
	products map[string]catalog.Product
	addErr   error
	adds     []addCall
	updated  bool
	removed  bool
	cleared  bool
	receipt  store.Receipt
	confirm  error
	snaps    int
}

func (s *stubStore) Snapshot() store.Snapshot {
	s.snaps++
	return s.snap
}

func (s *stubStore) Cart() cart.Cart { return s.snap.Cart.Clone() }

func (s *stubStore) Product(sku string) (catalog.Product, error) {
	p, ok := s.products[sku]
	if !ok {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

func (s *stubStore) AddToCartBySKU(_ context.Context, sku, size, color string, qty int) error {
	s.adds = append(s.adds, addCall{sku, size, color, qty})
	return s.addErr
}

func (s *stubStore) RemoveFromCart(context.Context, string, string, string) bool { return s.removed }

func (s *stubStore) UpdateCartItemQuantity(context.Context, string, string, string, int) bool {
	return s.updated
}

func (s *stubStore) ClearCart(context.Context) { s.cleared = true }

func (s *stubStore) CompletePurchase(context.Context) (store.Receipt, error) {
	return s.receipt, s.confirm
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func readyStore() *stubStore {
	offer := decimal.NewFromInt(90)
	products := []catalog.Product{
		{SKU: "VES-001", Nombre: "Vestido Seda", CategoriaSlug: "vestidos", Genero: "mujer", Marca: "Luxe", PrecioOriginal: decimal.NewFromInt(120), PrecioOferta: &offer, EnOferta: true, Disponible: true, CantidadStock: 5, Etiquetas: []string{"nuevo"}},
		{SKU: "CAM-002", Nombre: "Camisa Lino", CategoriaSlug: "camisas", Genero: "hombre", Marca: "Luxe", PrecioOriginal: decimal.NewFromInt(60), Disponible: true},
	}
	return &stubStore{
		snap: store.Snapshot{
			Config:       &catalog.StoreConfig{NombreTienda: "Luxe Boutique", MetaTituloPrincipal: "Luxe"},
			Products:     products,
			Cart:         cart.Cart{{SKU: "VES-001", PrecioUnitario: decimal.NewFromInt(90), Cantidad: 2, TallaSeleccionada: "M"}},
			CartState:    enums.CartLifecycleReady,
			CatalogState: enums.CatalogLifecycleLoaded,
		},
		products: map[string]catalog.Product{"VES-001": products[0]},
	}
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(cfg, testLogger(), readyStore(), map[string]Pinger{"storage": stubPinger{}}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Header().Get(envHeader) != "dev" {
			t.Fatalf("expected env header")
		}
	})

	t.Run("catalog loading", func(t *testing.T) {
		svc := readyStore()
		svc.snap.IsLoading = true
		svc.snap.CatalogState = enums.CatalogLifecycleLoading
		rec := httptest.NewRecorder()
		HealthReady(cfg, testLogger(), svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 while loading, got %d", rec.Code)
		}
	})

	t.Run("dependency down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(cfg, testLogger(), readyStore(), map[string]Pinger{"redis": stubPinger{err: errors.New("dial tcp")}}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"redis":"error"`) {
			t.Fatalf("expected failing dependency in details, got %s", rec.Body.String())
		}
	})
}

func TestStoreConfigUnavailableWhileLoading(t *testing.T) {
	svc := readyStore()
	msg := "failed to load configuration"
	svc.snap = store.Snapshot{CatalogState: enums.CatalogLifecycleErrored, Error: &msg}

	rec := httptest.NewRecorder()
	StoreConfig(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msg) {
		t.Fatalf("expected load error in body, got %s", rec.Body.String())
	}
}

func TestProductsListFilters(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"VES-001", "CAM-002"}},
		{query: "?categoria=camisas", want: []string{"CAM-002"}},
		{query: "?en_oferta=true", want: []string{"VES-001"}},
		{query: "?genero=MUJER", want: []string{"VES-001"}},
		{query: "?q=nuevo", want: []string{"VES-001"}},
		{query: "?limit=1&offset=1", want: []string{"CAM-002"}},
		{query: "?offset=10", want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ProductsList(readyStore(), testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products"+tc.query, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var page productsPage
			decodeData(t, rec, &page)
			got := make([]string, 0, len(page.Items))
			for _, p := range page.Items {
				got = append(got, p.SKU)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	rec := httptest.NewRecorder()
	ProductsList(readyStore(), testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of range limit, got %d", rec.Code)
	}
}

func TestProductGet(t *testing.T) {
	get := func(sku string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+sku, nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("sku", sku)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		ProductGet(readyStore(), testLogger()).ServeHTTP(rec, req)
		return rec
	}

	if rec := get("VES-001"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := get("NOPE"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSEOHead(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/seo?path=/productos&title=Vestidos", nil)
	SEOHead(readyStore(), "https://luxe.example.com/", testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var head struct {
		Title     string `json:"title"`
		Canonical string `json:"canonical"`
	}
	decodeData(t, rec, &head)
	if head.Title != "Vestidos" {
		t.Fatalf("expected page title override, got %q", head.Title)
	}
	if head.Canonical != "https://luxe.example.com/productos" {
		t.Fatalf("unexpected canonical %q", head.Canonical)
	}
}

func TestCartAddItem(t *testing.T) {
	t.Run("defaults quantity", func(t *testing.T) {
		svc := readyStore()
		rec := httptest.NewRecorder()
		body := `{"sku":" VES-001 ","talla":"M","color":"Negro"}`
		CartAddItem(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(svc.adds) != 1 || svc.adds[0] != (addCall{"VES-001", "M", "Negro", 1}) {
			t.Fatalf("unexpected add calls %+v", svc.adds)
		}
		var resp cartResponse
		decodeData(t, rec, &resp)
		if resp.ItemsCount != 2 || !resp.Total.Equal(decimal.NewFromInt(180)) {
			t.Fatalf("unexpected cart response %+v", resp)
		}
		if svc.snaps != 0 {
			t.Fatalf("cart handler must not build a full snapshot")
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		svc := readyStore()
		rec := httptest.NewRecorder()
		CartAddItem(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"sku":"VES-001","cantidad":0}`)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if len(svc.adds) != 0 {
			t.Fatalf("expected no add call")
		}
	})

	t.Run("stock error", func(t *testing.T) {
		svc := readyStore()
		svc.addErr = pkgerrors.New(pkgerrors.CodeInsufficientStock, cart.MsgInsufficientStock)
		rec := httptest.NewRecorder()
		CartAddItem(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"sku":"VES-001","cantidad":9}`)))
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), cart.MsgInsufficientStock) {
			t.Fatalf("expected stock message, got %s", rec.Body.String())
		}
	})
}

func TestCartUpdateAndRemoveReportChange(t *testing.T) {
	svc := readyStore()
	svc.updated = true

	rec := httptest.NewRecorder()
	CartUpdateItem(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items", strings.NewReader(`{"sku":"VES-001","talla":"M","cantidad":3}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp cartResponse
	decodeData(t, rec, &resp)
	if resp.Changed == nil || !*resp.Changed {
		t.Fatalf("expected changed=true")
	}

	rec = httptest.NewRecorder()
	CartRemoveItem(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items?sku=VES-001&talla=M", nil))
	decodeData(t, rec, &resp)
	if resp.Changed == nil || *resp.Changed {
		t.Fatalf("expected changed=false for stub remove")
	}

	rec = httptest.NewRecorder()
	CartRemoveItem(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without sku, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	CartGet(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	decodeData(t, rec, &resp)
	if len(resp.Items) != 1 || resp.ItemsCount != 2 {
		t.Fatalf("unexpected cart %+v", resp)
	}
	if svc.snaps != 0 {
		t.Fatalf("cart handlers must read lines without a snapshot, got %d snapshots", svc.snaps)
	}
}

func TestCartClearAndConfirm(t *testing.T) {
	svc := readyStore()
	rec := httptest.NewRecorder()
	CartClear(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	if rec.Code != http.StatusNoContent || !svc.cleared {
		t.Fatalf("expected 204 and cleared cart, got %d", rec.Code)
	}

	svc.confirm = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	rec = httptest.NewRecorder()
	CartConfirm(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/confirm", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}

	svc.confirm = nil
	svc.receipt = store.Receipt{TransactionID: "tx-1", Total: decimal.NewFromInt(180), ItemsCount: 2}
	rec = httptest.NewRecorder()
	CartConfirm(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/confirm", nil))
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"transaction_id":"tx-1"`) {
		t.Fatalf("unexpected confirm response %d %s", rec.Code, rec.Body.String())
	}
}
