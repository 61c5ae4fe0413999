package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías válidas para Article.
const (
	CategoryHardware     = "HARDWARE"
	CategorySoftware     = "SOFTWARE"
	CategoryConsumable   = "CONSUMABLE"
	CategoryOfficeSupply = "OFFICE_SUPPLY"
	CategoryOther        = "OTHER"
)

// ValidCategory indica si la categoría es una de las conocidas.
func ValidCategory(c string) bool {
	switch c {
	case CategoryHardware, CategorySoftware, CategoryConsumable, CategoryOfficeSupply, CategoryOther:
		return true
	}
	return false
}

// HardwareInfo campos específicos de artículos de hardware: intervalos de mantenimiento
// y reemplazo, contacto responsable y fecha del último mantenimiento registrado.
type HardwareInfo struct {
	ServiceIntervalMonths    int
	ReplacementIntervalYears int
	ResponsibleContact       string // email del técnico responsable
	LastServiceAt            *time.Time
}

// Article representa un artículo del catálogo (consumible, material de oficina o hardware).
// ID es inmutable; los campos descriptivos son editables por un admin. Nunca se borra
// físicamente una vez referenciado por eventos del libro de stock (integridad con histórico).
type Article struct {
	ID          string
	SKU         string // "Artikelnummer", único
	Name        string
	Description string
	Category    string // HARDWARE, SOFTWARE, CONSUMABLE, OFFICE_SUPPLY, OTHER
	UnitMeasure string // unidad, caja, paquete...
	Price       decimal.Decimal // precio unitario de referencia para estimar costo de pedidos
	MinStock    *int64          // umbral de stock mínimo; nil = sin umbral
	Hardware    *HardwareInfo   // nil si no es hardware
	Status      string          // active, inactive (baja lógica)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceDue indica si el artículo de hardware tiene mantenimiento vencido a la fecha dada.
// Se cuenta desde el último mantenimiento o, si no hay, desde la creación.
func (a *Article) ServiceDue(now time.Time) bool {
	if a.Hardware == nil || a.Hardware.ServiceIntervalMonths <= 0 {
		return false
	}
	since := a.CreatedAt
	if a.Hardware.LastServiceAt != nil {
		since = *a.Hardware.LastServiceAt
	}
	return !now.Before(since.AddDate(0, a.Hardware.ServiceIntervalMonths, 0))
}

// ReplacementDue indica si el artículo de hardware superó su vida útil a la fecha dada.
func (a *Article) ReplacementDue(now time.Time) bool {
	if a.Hardware == nil || a.Hardware.ReplacementIntervalYears <= 0 {
		return false
	}
	return !now.Before(a.CreatedAt.AddDate(a.Hardware.ReplacementIntervalYears, 0, 0))
}
