package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// WriteOffEventRepository define el puerto de persistencia para WriteOffEvent (DIP).
type WriteOffEventRepository interface {
	// CreateBatch persiste un lote de bajas como una escritura multi-fila atómica.
	CreateBatch(ctx context.Context, events []*entity.WriteOffEvent) error
	GetByID(ctx context.Context, id string) (*entity.WriteOffEvent, error)
	// MarkCancelled marca la baja como cancelada (soft-cancel). Idempotente: cancelar una
	// baja ya cancelada no es un error.
	MarkCancelled(ctx context.Context, id string) error
	// ListByLocation devuelve las bajas de una sede; articleID opcional. Incluye las
	// canceladas: el cálculo de stock las excluye, el histórico las muestra.
	ListByLocation(ctx context.Context, locationID, articleID string) ([]*entity.WriteOffEvent, error)
}
