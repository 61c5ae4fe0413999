package entity

import "time"

// OrderStatus estado de un pedido. Enumeración cerrada: los estados ilegales no son representables
// y las transiciones se validan contra la tabla de CanTransitionTo.
type OrderStatus string

const (
	OrderStatusOpen             OrderStatus = "OPEN"
	OrderStatusPartiallyShipped OrderStatus = "PARTIALLY_SHIPPED"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusReceived         OrderStatus = "RECEIVED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// IsValid indica si el estado es uno de los conocidos.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusPartiallyShipped, OrderStatusShipped,
		OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// String devuelve la representación textual del estado.
func (s OrderStatus) String() string { return string(s) }

// IsTerminal indica si el estado es final (no admite más transiciones).
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// CanTransitionTo tabla de transiciones legales del ciclo de vida del pedido.
// Un envío parcial repetido mantiene PARTIALLY_SHIPPED (no hay promoción automática a SHIPPED
// aunque las cantidades enviadas alcancen las pedidas; el estado lo declara el emisor del envío).
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusOpen:
		return target == OrderStatusPartiallyShipped || target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusPartiallyShipped:
		return target == OrderStatusPartiallyShipped || target == OrderStatusShipped ||
			target == OrderStatusReceived || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusReceived
	case OrderStatusReceived, OrderStatusCancelled:
		return false // estados terminales
	}
	return false
}

// CanShip indica si se puede registrar un envío (total o parcial) en este estado.
func (s OrderStatus) CanShip() bool {
	return s == OrderStatusOpen || s == OrderStatusPartiallyShipped
}

// CanReceive indica si se puede confirmar la recepción. Desde OPEN no: nada se ha enviado.
func (s OrderStatus) CanReceive() bool {
	return s == OrderStatusPartiallyShipped || s == OrderStatusShipped
}

// CanCancel indica si el pedido admite cancelación. Un pedido enviado por completo
// ya está en tránsito y no se puede cancelar; uno parcial todavía sí.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusOpen || s == OrderStatusPartiallyShipped
}

// OrderLine línea de pedido: un artículo con cantidad pedida y acumulado enviado.
// Invariante: 0 <= Shipped <= Ordered, y Shipped nunca decrece.
type OrderLine struct {
	ID        string
	OrderID   string
	ArticleID string
	Ordered   int64
	Shipped   int64
}

// PurchaseOrder pedido de una sede al almacén central. Nunca se borra: la cancelación
// es un estado terminal, no un delete. Version es el contador de concurrencia optimista:
// toda mutación de estado es un update condicional sobre la versión conocida.
type PurchaseOrder struct {
	ID         string
	LocationID string
	Status     OrderStatus
	Version    int64
	Lines      []OrderLine
	CreatedAt  time.Time
	CreatedBy  string // UserID
}

// LineByID busca una línea por su ID; nil si no existe.
func (o *PurchaseOrder) LineByID(id string) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i]
		}
	}
	return nil
}

// FullyShipped indica si todas las líneas tienen Shipped == Ordered.
func (o *PurchaseOrder) FullyShipped() bool {
	for i := range o.Lines {
		if o.Lines[i].Shipped < o.Lines[i].Ordered {
			return false
		}
	}
	return len(o.Lines) > 0
}
