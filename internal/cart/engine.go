package cart

import (
	"sync"

	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// ChangeOp tells the persistence hook whether to rewrite or remove the blob.
type ChangeOp int

const (
	ChangeSave ChangeOp = iota
	ChangeClear
)

func (o ChangeOp) String() string {
	if o == ChangeClear {
		return "clear"
	}
	return "save"
}

// Change is emitted after every accepted mutation.
type Change struct {
	Op    ChangeOp
	Lines Cart
}

// Hook receives changes. It must not block.
type Hook func(Change)

// Engine holds the authoritative cart. Each mutation decides, applies and
// emits its change under one lock so the hook sees changes in order.
type Engine struct {
	mu    sync.Mutex
	lines Cart
	hook  Hook
}

func NewEngine(hook Hook) *Engine {
	return &Engine{lines: Cart{}, hook: hook}
}

// Hydrate replaces the cart without emitting a change.
func (e *Engine) Hydrate(lines Cart) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = lines.Clone()
}

// Add adds qty of product in the given variant, merging into an existing line.
// A rejected add leaves the cart untouched.
func (e *Engine) Add(product catalog.Product, size, color string, qty int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := planAdd(e.lines, product, size, color, qty)
	if err != nil {
		return err
	}
	e.lines = next
	e.emit(Change{Op: ChangeSave, Lines: next.Clone()})
	return nil
}

// Remove deletes the matching line. It reports whether anything changed.
func (e *Engine) Remove(sku, size, color string) bool {
	return e.apply(func(current Cart) (Cart, bool) {
		return planRemove(current, Key{SKU: sku, Size: size, Color: color})
	})
}

// UpdateQuantity sets the quantity of an existing line; qty <= 0 removes it.
func (e *Engine) UpdateQuantity(sku, size, color string, qty int) bool {
	return e.apply(func(current Cart) (Cart, bool) {
		return planUpdate(current, Key{SKU: sku, Size: size, Color: color}, qty)
	})
}

// Clear empties the cart and asks for the stored blob to be removed.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = Cart{}
	e.emit(Change{Op: ChangeClear, Lines: Cart{}})
}

func (e *Engine) apply(plan func(Cart) (Cart, bool)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, changed := plan(e.lines)
	if !changed {
		return false
	}
	e.lines = next
	e.emit(Change{Op: ChangeSave, Lines: next.Clone()})
	return true
}

func (e *Engine) emit(change Change) {
	if e.hook != nil {
		e.hook(change)
	}
}

// Lines returns a copy in insertion order.
func (e *Engine) Lines() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.Clone()
}

func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.Total()
}

func (e *Engine) ItemsCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.ItemsCount()
}
