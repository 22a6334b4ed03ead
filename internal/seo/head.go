package seo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/luxe-storefront/internal/catalog"
)

const defaultTwitterCard = "summary_large_image"

// Page carries per-page overrides. Empty fields fall back to the store config.
type Page struct {
	Title       string
	Description string
	Keywords    string
	OGImage     string
	Canonical   string
	URL         string
	NoIndex     bool
}

// Meta is one <meta> tag. Property tags use the property attribute, others name.
type Meta struct {
	Name     string `json:"name,omitempty"`
	Property string `json:"property,omitempty"`
	Content  string `json:"content"`
}

// Head is everything a page needs in its document head.
type Head struct {
	Title     string          `json:"title"`
	Meta      []Meta          `json:"meta"`
	Canonical string          `json:"canonical"`
	JSONLD    json.RawMessage `json:"json_ld"`
}

// Organization is the schema.org markup for the store.
type Organization struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Logo        string   `json:"logo"`
	Description string   `json:"description"`
	Telephone   string   `json:"telephone"`
	Email       string   `json:"email"`
	Address     string   `json:"address"`
	SameAs      []string `json:"sameAs"`
}

// Build composes the head for page. origin is the site root used for the
// organization url; page.URL is the current page and the canonical fallback.
func Build(cfg *catalog.StoreConfig, page Page, origin string) (Head, error) {
	if cfg == nil {
		return Head{}, fmt.Errorf("store configuration not loaded")
	}

	title := firstNonEmpty(page.Title, cfg.MetaTituloPrincipal)
	description := firstNonEmpty(page.Description, cfg.MetaDescripcionPrincipal)
	keywords := firstNonEmpty(page.Keywords, cfg.MetaKeywords)
	canonical := firstNonEmpty(page.Canonical, page.URL)

	var seoCfg catalog.SEOConfig
	if cfg.SEOConfiguracion != nil {
		seoCfg = *cfg.SEOConfiguracion
	}
	image := firstNonEmpty(page.OGImage, seoCfg.OGImage)

	robots := "index, follow"
	if page.NoIndex {
		robots = "noindex, nofollow"
	}

	meta := []Meta{
		{Name: "description", Content: description},
		{Name: "keywords", Content: keywords},
		{Name: "author", Content: cfg.NombreTienda},
		{Property: "og:title", Content: title},
		{Property: "og:description", Content: description},
		{Property: "og:type", Content: "website"},
		{Property: "og:image", Content: image},
		{Property: "og:url", Content: canonical},
		{Property: "og:site_name", Content: cfg.NombreTienda},
		{Name: "twitter:card", Content: firstNonEmpty(seoCfg.TwitterCard, defaultTwitterCard)},
		{Name: "twitter:site", Content: seoCfg.TwitterSite},
		{Name: "twitter:title", Content: title},
		{Name: "twitter:description", Content: description},
		{Name: "twitter:image", Content: image},
		{Name: "robots", Content: robots},
	}

	org := Organization{
		Context:     "https://schema.org",
		Type:        "Organization",
		Name:        cfg.NombreTienda,
		URL:         strings.TrimRight(origin, "/"),
		Logo:        cfg.LogoURL,
		Description: cfg.MetaDescripcionPrincipal,
		Telephone:   cfg.TelefonoContactoVisible,
		Email:       cfg.EmailContactoPrincipal,
		Address:     cfg.DireccionFisicaOpcional,
		SameAs:      cfg.LinksRedesSociales.Present(),
	}
	ld, err := json.Marshal(org)
	if err != nil {
		return Head{}, fmt.Errorf("marshal organization schema: %w", err)
	}

	return Head{
		Title:     title,
		Meta:      meta,
		Canonical: canonical,
		JSONLD:    ld,
	}, nil
}

// Lookup returns the content of the named or property meta tag.
func (h Head) Lookup(key string) (string, bool) {
	for _, m := range h.Meta {
		if m.Name == key || m.Property == key {
			return m.Content, true
		}
	}
	return "", false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
