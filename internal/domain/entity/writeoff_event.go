package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// WriteOffEvent baja de stock: consumo o retirada desde una estantería concreta.
// Cancelable de forma lógica (Cancelled=true): un evento cancelado se excluye del cálculo
// de stock pero nunca se borra físicamente (pista de auditoría).
type WriteOffEvent struct {
	ID         string
	LocationID string
	ArticleID  string
	Quantity   int64
	Bin        string
	Reference  string // texto libre: motivo, vale, incidencia
	Cancelled  bool
	CreatedAt  time.Time
	CreatedBy  string // UserID
}

// Validate comprueba los invariantes de la baja. La referencia se valida a nivel de lote
// en el caso de uso; aquí solo los campos del evento.
func (e *WriteOffEvent) Validate() error {
	if e.LocationID == "" || e.ArticleID == "" {
		return fmt.Errorf("%w: sede y artículo son obligatorios", domain.ErrValidation)
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrValidation)
	}
	if e.Bin == "" {
		return fmt.Errorf("%w: la baja requiere estantería", domain.ErrValidation)
	}
	return nil
}
