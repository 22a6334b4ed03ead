package cart

import "github.com/shopspring/decimal"

// Key identifies a cart line: the same product in another size or color is a distinct line.
type Key struct {
	SKU   string
	Size  string
	Color string
}

// Line is one cart entry. Price and display fields are captured at add time.
type Line struct {
	SKU               string          `json:"sku" validate:"required"`
	Nombre            string          `json:"nombre"`
	PrecioUnitario    decimal.Decimal `json:"precio_unitario"`
	Cantidad          int             `json:"cantidad" validate:"gte=1"`
	TallaSeleccionada string          `json:"talla_seleccionada"`
	ColorSeleccionado string          `json:"color_seleccionado"`
	Foto              string          `json:"foto"`
}

func (l Line) Key() Key {
	return Key{SKU: l.SKU, Size: l.TallaSeleccionada, Color: l.ColorSeleccionado}
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

// Cart is the ordered list of lines.
type Cart []Line

// Clone copies the cart; the result is never nil.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) indexOf(key Key) int {
	for i, line := range c {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

// Total sums unit price times quantity without rounding.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemsCount sums quantities across lines.
func (c Cart) ItemsCount() int {
	count := 0
	for _, line := range c {
		count += line.Cantidad
	}
	return count
}
