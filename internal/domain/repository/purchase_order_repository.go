package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder (DIP).
// Las mutaciones de estado son updates condicionales sobre la versión conocida
// (concurrencia optimista): si la versión ya cambió devuelven domain.ErrConcurrencyConflict.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	// GetByID carga el pedido con sus líneas; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	ListByLocation(ctx context.Context, locationID string, status entity.OrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error)
	// UpdateStatus cambia el estado si la versión coincide e incrementa la versión.
	UpdateStatus(ctx context.Context, orderID string, fromVersion int64, status entity.OrderStatus) error
	// UpdateShipment fija las cantidades enviadas de las líneas y el nuevo estado en una
	// sola operación condicional sobre la versión.
	UpdateShipment(ctx context.Context, orderID string, fromVersion int64, status entity.OrderStatus, lines []entity.OrderLine) error
}
