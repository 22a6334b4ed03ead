package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/luxe-storefront/api/responses"
	"github.com/angelmondragon/luxe-storefront/api/validators"
	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/angelmondragon/luxe-storefront/internal/seo"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
	"github.com/angelmondragon/luxe-storefront/pkg/pagination"
)

const maxQueryLen = 128

type productsPage struct {
	Items  []catalog.Product `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// StoreSnapshot returns the whole session view, including loading state.
func StoreSnapshot(svc StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Snapshot())
	}
}

func StoreConfig(svc StoreService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Snapshot()
		if !snap.Ready() {
			responses.WriteError(r.Context(), logg, w, catalogUnavailable(snap.Error))
			return
		}
		responses.WriteSuccess(w, snap.Config)
	}
}

// ProductsList filters by categoria, genero, marca, en_oferta and a free text
// q over name and tags.
func ProductsList(svc StoreService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Snapshot()
		if !snap.Ready() {
			responses.WriteError(r.Context(), logg, w, catalogUnavailable(snap.Error))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, pagination.MaxOffset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		onSale, err := validators.ParseQueryBool(r, "en_oferta")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := productFilter{
			category: validators.QueryString(r, "categoria", maxQueryLen),
			gender:   validators.QueryString(r, "genero", maxQueryLen),
			brand:    validators.QueryString(r, "marca", maxQueryLen),
			text:     strings.ToLower(validators.QueryString(r, "q", maxQueryLen)),
			onSale:   onSale,
		}

		matched := make([]catalog.Product, 0, len(snap.Products))
		for _, p := range snap.Products {
			if filter.match(p) {
				matched = append(matched, p)
			}
		}

		params := pagination.Params{Limit: limit, Offset: offset}
		responses.WriteSuccess(w, productsPage{
			Items:  pagination.Page(matched, params),
			Total:  len(matched),
			Limit:  limit,
			Offset: offset,
		})
	}
}

func ProductGet(svc StoreService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := validators.SanitizeString(chi.URLParam(r, "sku"), maxQueryLen)
		if sku == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku is required"))
			return
		}
		product, err := svc.Product(sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// SEOHead builds the document head for the page described by the query:
// path, title, description, keywords, image, canonical and noindex.
func SEOHead(svc StoreService, origin string, logg *logger.Logger) http.HandlerFunc {
	origin = strings.TrimRight(origin, "/")
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Snapshot()
		if !snap.Ready() {
			responses.WriteError(r.Context(), logg, w, catalogUnavailable(snap.Error))
			return
		}
		noIndex, err := validators.ParseQueryBool(r, "noindex")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := seo.Page{
			Title:       validators.QueryString(r, "title", 256),
			Description: validators.QueryString(r, "description", 512),
			Keywords:    validators.QueryString(r, "keywords", 512),
			OGImage:     validators.QueryString(r, "image", 512),
			Canonical:   validators.QueryString(r, "canonical", 512),
			NoIndex:     noIndex != nil && *noIndex,
		}
		if path := validators.QueryString(r, "path", 512); path != "" && origin != "" {
			page.URL = origin + "/" + strings.TrimLeft(path, "/")
		}

		head, err := seo.Build(snap.Config, page, origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, "store configuration not loaded"))
			return
		}
		responses.WriteSuccess(w, head)
	}
}

type productFilter struct {
	category string
	gender   string
	brand    string
	text     string
	onSale   *bool
}

func (f productFilter) match(p catalog.Product) bool {
	if f.category != "" && !strings.EqualFold(p.CategoriaSlug, f.category) {
		return false
	}
	if f.gender != "" && !strings.EqualFold(p.Genero, f.gender) {
		return false
	}
	if f.brand != "" && !strings.EqualFold(p.Marca, f.brand) {
		return false
	}
	if f.onSale != nil && p.EnOferta != *f.onSale {
		return false
	}
	if f.text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Nombre), f.text) {
		return true
	}
	for _, tag := range p.Etiquetas {
		if strings.Contains(strings.ToLower(tag), f.text) {
			return true
		}
	}
	return false
}

func catalogUnavailable(loadErr *string) error {
	msg := "catalog still loading"
	if loadErr != nil {
		msg = *loadErr
	}
	return pkgerrors.New(pkgerrors.CodeCatalogUnavailable, msg)
}
