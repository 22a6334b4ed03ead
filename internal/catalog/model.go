package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StoreConfig mirrors config_general.json.
type StoreConfig struct {
	NombreTienda             string            `json:"nombre_tienda"`
	MetaTituloPrincipal      string            `json:"meta_titulo_principal"`
	MetaDescripcionPrincipal string            `json:"meta_descripcion_principal"`
	MetaKeywords             string            `json:"meta_keywords,omitempty"`
	LogoURL                  string            `json:"logo_url"`
	FaviconURL               string            `json:"favicon_url"`
	TelefonoContactoVisible  string            `json:"telefono_contacto_visible"`
	EmailContactoPrincipal   string            `json:"email_contacto_principal"`
	DireccionFisicaOpcional  string            `json:"direccion_fisica_opcional"`
	GoogleAnalyticsID        string            `json:"google_analytics_id,omitempty"`
	SEOConfiguracion         *SEOConfig        `json:"seo_configuracion,omitempty"`
	BannerPrincipalHome      Banner            `json:"banner_principal_home"`
	SeccionesHomeDestacadas  []FeaturedSection `json:"secciones_home_destacadas"`
	TextoFooterCopyright     string            `json:"texto_footer_copyright"`
	LinksRedesSociales       SocialLinks       `json:"links_redes_sociales"`
	MenuNavegacionPrincipal  []MenuItem        `json:"menu_navegacion_principal"`
	FooterLinksAyuda         []Link            `json:"footer_links_ayuda"`
	MonedaSimbolo            string            `json:"moneda_simbolo"`
	WhatsappNumeroConsultas  string            `json:"whatsapp_numero_consultas"`
}

type SEOConfig struct {
	FaviconURL             string `json:"favicon_url"`
	OGImage                string `json:"og_image"`
	TwitterCard            string `json:"twitter_card"`
	TwitterSite            string `json:"twitter_site,omitempty"`
	SitemapActivo          bool   `json:"sitemap_activo"`
	RobotsTxtPersonalizado string `json:"robots_txt_personalizado"`
}

type Banner struct {
	Activo               bool   `json:"activo"`
	ImagenURLDesktop     string `json:"imagen_url_desktop"`
	ImagenURLMobile      string `json:"imagen_url_mobile"`
	AltText              string `json:"alt_text"`
	TituloSuperpuesto    string `json:"titulo_superpuesto"`
	SubtituloSuperpuesto string `json:"subtitulo_superpuesto"`
	TextoBoton           string `json:"texto_boton"`
	LinkBoton            string `json:"link_boton"`
}

type FeaturedSection struct {
	TituloSeccion     string `json:"titulo_seccion"`
	CriterioProductos string `json:"criterio_productos"`
	Limite            int    `json:"limite"`
}

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// Present returns the non-empty links in instagram, facebook, tiktok order.
func (s SocialLinks) Present() []string {
	out := make([]string, 0, 3)
	for _, link := range []string{s.Instagram, s.Facebook, s.TikTok} {
		if link != "" {
			out = append(out, link)
		}
	}
	return out
}

type Link struct {
	Texto string `json:"texto"`
	URL   string `json:"url"`
}

type MenuItem struct {
	Texto         string `json:"texto"`
	URL           string `json:"url"`
	Subcategorias []Link `json:"subcategorias,omitempty"`
}

// Clone returns a deep copy so callers never share slices with the manager.
func (c *StoreConfig) Clone() *StoreConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.SEOConfiguracion != nil {
		seo := *c.SEOConfiguracion
		out.SEOConfiguracion = &seo
	}
	out.SeccionesHomeDestacadas = append([]FeaturedSection(nil), c.SeccionesHomeDestacadas...)
	out.FooterLinksAyuda = append([]Link(nil), c.FooterLinksAyuda...)
	if c.MenuNavegacionPrincipal != nil {
		out.MenuNavegacionPrincipal = make([]MenuItem, len(c.MenuNavegacionPrincipal))
		for i, item := range c.MenuNavegacionPrincipal {
			item.Subcategorias = append([]Link(nil), item.Subcategorias...)
			out.MenuNavegacionPrincipal[i] = item
		}
	}
	return &out
}

// Product is one catalog entry from productos_global.json.
type Product struct {
	SKU                 string           `json:"sku" validate:"required"`
	Nombre              string           `json:"nombre"`
	CategoriaSlug       string           `json:"categoria_slug"`
	Genero              string           `json:"genero,omitempty"`
	Marca               string           `json:"marca"`
	PrecioOriginal      decimal.Decimal  `json:"precio_original"`
	PrecioOferta        *decimal.Decimal `json:"precio_oferta,omitempty"`
	EnOferta            bool             `json:"en_oferta"`
	PorcentajeDescuento decimal.Decimal  `json:"porcentaje_descuento"`
	DescripcionCorta    string           `json:"descripcion_corta"`
	DescripcionLarga    string           `json:"descripcion_larga"`
	Fotos               []string         `json:"fotos"`
	Disponible          bool             `json:"disponible"`
	CantidadStock       int              `json:"cantidad_stock" validate:"gte=0"`
	Detalles            ProductDetails   `json:"detalles"`
	FechaAgregado       string           `json:"fecha_agregado"`
	SlugURLProducto     string           `json:"slug_url_producto"`
	Etiquetas           []string         `json:"etiquetas"`
}

type ProductDetails struct {
	TallasDisponibles  []string `json:"tallas_disponibles"`
	ColoresDisponibles []Color  `json:"colores_disponibles"`
	Material           string   `json:"material"`
	Cuidados           string   `json:"cuidados"`
}

type Color struct {
	Nombre string `json:"nombre"`
	Hex    string `json:"hex"`
}

// UnmarshalJSON maps an explicit null precio_oferta to an absent offer price.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		PrecioOferta json.RawMessage `json:"precio_oferta"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.PrecioOferta = nil
	if len(aux.PrecioOferta) == 0 || string(aux.PrecioOferta) == "null" {
		return nil
	}
	var offer decimal.Decimal
	if err := json.Unmarshal(aux.PrecioOferta, &offer); err != nil {
		return err
	}
	p.PrecioOferta = &offer
	return nil
}

// UnitPrice is the price a cart line freezes at add time.
func (p Product) UnitPrice() decimal.Decimal {
	if p.EnOferta && p.PrecioOferta != nil {
		return *p.PrecioOferta
	}
	return p.PrecioOriginal
}

// Thumbnail returns the first photo or an empty string.
func (p Product) Thumbnail() string {
	if len(p.Fotos) == 0 {
		return ""
	}
	return p.Fotos[0]
}

// Clone returns a deep copy.
func (p Product) Clone() Product {
	out := p
	if p.PrecioOferta != nil {
		offer := *p.PrecioOferta
		out.PrecioOferta = &offer
	}
	out.Fotos = append([]string(nil), p.Fotos...)
	out.Etiquetas = append([]string(nil), p.Etiquetas...)
	out.Detalles.TallasDisponibles = append([]string(nil), p.Detalles.TallasDisponibles...)
	out.Detalles.ColoresDisponibles = append([]Color(nil), p.Detalles.ColoresDisponibles...)
	return out
}

// CloneProducts copies a product list; nil stays nil-safe as an empty list.
func CloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// Catalog is the config plus products published together.
type Catalog struct {
	Config   *StoreConfig
	Products []Product
}
