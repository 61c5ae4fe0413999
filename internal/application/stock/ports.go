package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con repositorios de
// eventos atados a esa tx. Cada creación de evento (con sus filas de reparto) es una
// única escritura multi-fila atómica; eso acota la ventana de lecturas a medio aplicar.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		receiptRepo repository.ReceiptEventRepository,
		writeoffRepo repository.WriteOffEventRepository,
	) error) error
}

// Notifier puerto de notificación de stock bajo mínimo. Best-effort tras la mutación.
type Notifier interface {
	NotifyStockBelowMinimum(ctx context.Context, article *entity.Article, location *entity.Location, current int64) error
}
