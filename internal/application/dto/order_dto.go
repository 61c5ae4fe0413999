package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de un pedido nuevo.
type OrderLineRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	LocationID string             `json:"location_id" validate:"required"`
	Lines      []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ShipmentLineRequest cantidad enviada declarada para una línea en un envío parcial.
type ShipmentLineRequest struct {
	LineID  string `json:"line_id" validate:"required"`
	Shipped int64  `json:"shipped" validate:"min=0"`
}

// ShipOrderRequest body para POST /api/orders/:id/ship.
// Full=true envía todas las líneas completas; si no, Shipments declara los parciales.
type ShipOrderRequest struct {
	Full      bool                  `json:"full"`
	Shipments []ShipmentLineRequest `json:"shipments" validate:"omitempty,dive"`
}

// BinSplitRequest reparto por estantería al recibir o registrar una entrada directa.
type BinSplitRequest struct {
	Bin      string `json:"bin" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// ReceiveOrderRequest body para POST /api/orders/:id/receive.
// Splits es opcional, indexado por line_id; las líneas sin reparto van a la estantería por defecto.
type ReceiveOrderRequest struct {
	Splits map[string][]BinSplitRequest `json:"splits,omitempty" validate:"omitempty,dive,dive"`
}

// OrderLineResponse línea de pedido con acumulado enviado.
type OrderLineResponse struct {
	ID        string `json:"id"`
	ArticleID string `json:"article_id"`
	Ordered   int64  `json:"ordered"`
	Shipped   int64  `json:"shipped"`
}

// OrderResponse representación de un pedido.
type OrderResponse struct {
	ID            string              `json:"id"`
	LocationID    string              `json:"location_id"`
	Status        string              `json:"status"`
	Lines         []OrderLineResponse `json:"lines"`
	EstimatedCost decimal.Decimal     `json:"estimated_cost"`
	CreatedAt     time.Time           `json:"created_at"`
	CreatedBy     string              `json:"created_by,omitempty"`
}
