package store

import (
	"context"

	"github.com/angelmondragon/luxe-storefront/pkg/enums"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
)

// Shopper-facing messages.
const (
	MsgAddedToCart     = "Producto agregado al carrito"
	MsgRemovedFromCart = "Producto eliminado del carrito"
	MsgCatalogFailed   = "Error al cargar los datos de la tienda"
)

// Notification is a transient message for the shopper.
type Notification struct {
	Level   enums.NotificationLevel `json:"level"`
	Message string                  `json:"message"`
	SKU     string                  `json:"sku,omitempty"`
}

// Notifier delivers notifications. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Notify(ctx context.Context, note Notification) {
	if n == nil || n.logg == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"level_hint": note.Level.String(),
		"sku":        note.SKU,
	})
	if note.Level == enums.NotificationLevelError {
		n.logg.Warn(ctx, note.Message)
		return
	}
	n.logg.Info(ctx, note.Message)
}
