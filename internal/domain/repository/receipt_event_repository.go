package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ReceiptEventRepository define el puerto de persistencia para ReceiptEvent (DIP).
// Create persiste el evento con sus repartos como una escritura multi-fila atómica.
type ReceiptEventRepository interface {
	Create(ctx context.Context, event *entity.ReceiptEvent) error
	// ListByLocation devuelve los eventos de una sede; articleID opcional para restringir.
	ListByLocation(ctx context.Context, locationID, articleID string) ([]*entity.ReceiptEvent, error)
}
