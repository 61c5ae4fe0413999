package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// HardwareInfoDTO campos de hardware de un artículo.
type HardwareInfoDTO struct {
	ServiceIntervalMonths    int        `json:"service_interval_months" validate:"omitempty,min=0"`
	ReplacementIntervalYears int        `json:"replacement_interval_years" validate:"omitempty,min=0"`
	ResponsibleContact       string     `json:"responsible_contact" validate:"omitempty,email"`
	LastServiceAt            *time.Time `json:"last_service_at,omitempty"`
}

// CreateArticleRequest body para POST /api/articles (solo admin).
type CreateArticleRequest struct {
	SKU         string           `json:"sku" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category" validate:"required,oneof=HARDWARE SOFTWARE CONSUMABLE OFFICE_SUPPLY OTHER"`
	UnitMeasure string           `json:"unit_measure" validate:"required"`
	Price       decimal.Decimal  `json:"price"`
	MinStock    *int64           `json:"min_stock" validate:"omitempty,min=0"`
	Hardware    *HardwareInfoDTO `json:"hardware,omitempty"`
}

// UpdateArticleRequest body para PUT /api/articles/:id. El ID y el histórico no se tocan.
type UpdateArticleRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	UnitMeasure string           `json:"unit_measure" validate:"required"`
	Price       decimal.Decimal  `json:"price"`
	MinStock    *int64           `json:"min_stock" validate:"omitempty,min=0"`
	Hardware    *HardwareInfoDTO `json:"hardware,omitempty"`
	Status      string           `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ArticleResponse representación de un artículo.
type ArticleResponse struct {
	ID          string           `json:"id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category"`
	UnitMeasure string           `json:"unit_measure"`
	Price       decimal.Decimal  `json:"price"`
	MinStock    *int64           `json:"min_stock,omitempty"`
	Hardware    *HardwareInfoDTO `json:"hardware,omitempty"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
