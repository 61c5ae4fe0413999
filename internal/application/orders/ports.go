package orders

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que el cambio de estado del pedido y los eventos de
// recepción que emite se confirmen o descarten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.PurchaseOrderRepository,
		receiptRepo repository.ReceiptEventRepository,
	) error) error
}

// Notifier puerto de notificaciones de pedidos. Best-effort: se invoca después de
// confirmar la transición y sus fallos nunca revierten el cambio de estado.
type Notifier interface {
	NotifyOrderShipped(ctx context.Context, order *entity.PurchaseOrder, location *entity.Location) error
	NotifyOrderReceived(ctx context.Context, order *entity.PurchaseOrder, location *entity.Location) error
}
