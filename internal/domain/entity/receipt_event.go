package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// DefaultBin ubicación por defecto cuando la recepción no indica reparto por estantería.
const DefaultBin = "GENERAL"

// BinSplit reparto de una recepción en una estantería concreta.
type BinSplit struct {
	Bin      string
	Quantity int64
}

// ReceiptEvent entrada de mercancía: stock que llegó físicamente a una sede y se colocó
// en una o más estanterías. Inmutable una vez creado; la suma de los repartos debe ser
// exactamente la cantidad total del evento.
type ReceiptEvent struct {
	ID         string
	LocationID string
	ArticleID  string
	Quantity   int64
	OrderID    string // pedido de origen; vacío si es entrada directa
	Splits     []BinSplit
	CreatedAt  time.Time
	CreatedBy  string // UserID
}

// Validate comprueba los invariantes del evento: cantidad positiva, repartos presentes
// con estantería y cantidad positiva, y suma de repartos igual a la cantidad total.
// Nunca se trunca en silencio: un reparto que no cuadra es un error de validación.
func (e *ReceiptEvent) Validate() error {
	if e.LocationID == "" || e.ArticleID == "" {
		return fmt.Errorf("%w: sede y artículo son obligatorios", domain.ErrValidation)
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrValidation)
	}
	if len(e.Splits) == 0 {
		return fmt.Errorf("%w: la recepción requiere al menos un reparto por estantería", domain.ErrValidation)
	}
	var sum int64
	for _, s := range e.Splits {
		if s.Bin == "" {
			return fmt.Errorf("%w: reparto sin estantería", domain.ErrValidation)
		}
		if s.Quantity <= 0 {
			return fmt.Errorf("%w: reparto con cantidad no positiva en %q", domain.ErrValidation, s.Bin)
		}
		sum += s.Quantity
	}
	if sum != e.Quantity {
		return fmt.Errorf("%w: los repartos suman %d pero la cantidad del evento es %d",
			domain.ErrValidation, sum, e.Quantity)
	}
	return nil
}
