package dto

import "time"

// BinQuantityDTO cantidad por estantería dentro de una posición de stock.
type BinQuantityDTO struct {
	Bin      string `json:"bin"`
	Quantity int64  `json:"quantity"`
}

// StockPositionResponse posición derivada de un artículo en una sede.
type StockPositionResponse struct {
	ArticleID    string           `json:"article_id"`
	SKU          string           `json:"sku,omitempty"`
	Name         string           `json:"name,omitempty"`
	Category     string           `json:"category,omitempty"`
	Total        int64            `json:"total"`
	Bins         []BinQuantityDTO `json:"bins"`
	Inconsistent []string         `json:"inconsistent_bins,omitempty"`
	BelowMin     bool             `json:"below_min,omitempty"`
}

// RegisterReceiptRequest body para POST /api/locations/:id/receipts (entrada directa).
type RegisterReceiptRequest struct {
	ArticleID string            `json:"article_id" validate:"required"`
	Quantity  int64             `json:"quantity" validate:"required,min=1"`
	Splits    []BinSplitRequest `json:"splits" validate:"omitempty,dive"`
}

// WriteOffEntryRequest una baja dentro de un lote.
type WriteOffEntryRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
	Bin       string `json:"bin" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

// WriteOffRequest body para POST /api/locations/:id/writeoffs. La referencia es del lote.
type WriteOffRequest struct {
	Reference string                 `json:"reference" validate:"required"`
	Entries   []WriteOffEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// WriteOffResponse representación de una baja registrada.
type WriteOffResponse struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	ArticleID  string    `json:"article_id"`
	Bin        string    `json:"bin"`
	Quantity   int64     `json:"quantity"`
	Reference  string    `json:"reference"`
	Cancelled  bool      `json:"cancelled"`
	CreatedAt  time.Time `json:"created_at"`
}

// MaintenanceDueResponse artículo de hardware con mantenimiento o reemplazo vencido.
type MaintenanceDueResponse struct {
	ArticleID          string     `json:"article_id"`
	SKU                string     `json:"sku"`
	Name               string     `json:"name"`
	ServiceDue         bool       `json:"service_due"`
	ReplacementDue     bool       `json:"replacement_due"`
	ResponsibleContact string     `json:"responsible_contact,omitempty"`
	LastServiceAt      *time.Time `json:"last_service_at,omitempty"`
}
