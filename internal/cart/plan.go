package cart

import (
	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
)

// Rejection messages shown to the shopper.
const (
	MsgUnavailable       = "Producto no disponible o stock insuficiente"
	MsgInsufficientStock = "No hay suficiente stock disponible"
	MsgInvalidQuantity   = "La cantidad debe ser al menos 1"
)

// planAdd decides the cart that results from adding qty of product. It never
// mutates current.
func planAdd(current Cart, product catalog.Product, size, color string, qty int) (Cart, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidQuantity).
			WithDetails(map[string]any{"sku": product.SKU, "quantity": qty})
	}
	if !product.Disponible {
		return nil, pkgerrors.New(pkgerrors.CodeProductUnavailable, MsgUnavailable).
			WithDetails(map[string]any{"sku": product.SKU})
	}
	if qty > product.CantidadStock {
		return nil, stockError(product, qty, MsgUnavailable)
	}

	key := Key{SKU: product.SKU, Size: size, Color: color}
	next := current.Clone()
	if i := next.indexOf(key); i >= 0 {
		merged := next[i].Cantidad + qty
		if merged > product.CantidadStock {
			return nil, stockError(product, merged, MsgInsufficientStock)
		}
		next[i].Cantidad = merged
		return next, nil
	}

	return append(next, Line{
		SKU:               product.SKU,
		Nombre:            product.Nombre,
		PrecioUnitario:    product.UnitPrice(),
		Cantidad:          qty,
		TallaSeleccionada: size,
		ColorSeleccionado: color,
		Foto:              product.Thumbnail(),
	}), nil
}

// stockError reports a request above stock. A fresh request and a merge
// overflow carry different shopper messages.
func stockError(product catalog.Product, requested int, msg string) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, msg).
		WithDetails(map[string]any{
			"sku":       product.SKU,
			"requested": requested,
			"available": product.CantidadStock,
		})
}

// planRemove drops the line for key; ok is false when no such line exists.
func planRemove(current Cart, key Key) (Cart, bool) {
	i := current.indexOf(key)
	if i < 0 {
		return current, false
	}
	next := make(Cart, 0, len(current)-1)
	next = append(next, current[:i]...)
	return append(next, current[i+1:]...), true
}

// planUpdate replaces the quantity for key without consulting stock. A
// quantity of zero or less removes the line.
func planUpdate(current Cart, key Key, qty int) (Cart, bool) {
	if qty <= 0 {
		return planRemove(current, key)
	}
	i := current.indexOf(key)
	if i < 0 {
		return current, false
	}
	if current[i].Cantidad == qty {
		return current, false
	}
	next := current.Clone()
	next[i].Cantidad = qty
	return next, true
}

// IsStockError reports add rejections caused by stock or availability.
func IsStockError(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock, pkgerrors.CodeProductUnavailable)
}
