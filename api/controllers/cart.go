package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/luxe-storefront/api/responses"
	"github.com/angelmondragon/luxe-storefront/api/validators"
	"github.com/angelmondragon/luxe-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
)

const maxVariantLen = 64

type addItemRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Talla    string `json:"talla"`
	Color    string `json:"color"`
	Cantidad *int   `json:"cantidad" validate:"omitempty,min=1"`
}

type updateItemRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Talla    string `json:"talla"`
	Color    string `json:"color"`
	Cantidad int    `json:"cantidad"`
}

type cartResponse struct {
	Items      cart.Cart       `json:"items"`
	Total      decimal.Decimal `json:"total"`
	ItemsCount int             `json:"items_count"`
	Changed    *bool           `json:"changed,omitempty"`
}

func newCartResponse(lines cart.Cart) cartResponse {
	if lines == nil {
		lines = cart.Cart{}
	}
	return cartResponse{Items: lines, Total: lines.Total(), ItemsCount: lines.ItemsCount()}
}

func CartGet(svc StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCartResponse(svc.Cart()))
	}
}

// CartAddItem adds a product variant by SKU. Cantidad defaults to 1.
func CartAddItem(svc StoreService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty := 1
		if payload.Cantidad != nil {
			qty = *payload.Cantidad
		}

		err := svc.AddToCartBySKU(r.Context(),
			validators.SanitizeString(payload.SKU, maxQueryLen),
			validators.SanitizeString(payload.Talla, maxVariantLen),
			validators.SanitizeString(payload.Color, maxVariantLen),
			qty,
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(svc.Cart()))
	}
}

// CartUpdateItem sets a line's quantity; zero or less removes the line.
func CartUpdateItem(svc StoreService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changed := svc.UpdateCartItemQuantity(r.Context(),
			validators.SanitizeString(payload.SKU, maxQueryLen),
			validators.SanitizeString(payload.Talla, maxVariantLen),
			validators.SanitizeString(payload.Color, maxVariantLen),
			payload.Cantidad,
		)
		resp := newCartResponse(svc.Cart())
		resp.Changed = &changed
		responses.WriteSuccess(w, resp)
	}
}

// CartRemoveItem takes the variant from the sku, talla and color query params.
func CartRemoveItem(svc StoreService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := validators.QueryString(r, "sku", maxQueryLen)
		if sku == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku is required"))
			return
		}

		changed := svc.RemoveFromCart(r.Context(),
			sku,
			validators.QueryString(r, "talla", maxVariantLen),
			validators.QueryString(r, "color", maxVariantLen),
		)
		resp := newCartResponse(svc.Cart())
		resp.Changed = &changed
		responses.WriteSuccess(w, resp)
	}
}

func CartClear(svc StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearCart(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// CartConfirm records the cart as a purchase and empties it.
func CartConfirm(svc StoreService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receipt, err := svc.CompletePurchase(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
