package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrValidation          = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, recargue e intente de nuevo")
	ErrStorage             = errors.New("error de almacenamiento")
)

// TransitionError detalla una transición ilegal: la operación solicitada y el estado
// actual del pedido. Envuelve ErrInvalidTransition para que errors.Is funcione.
type TransitionError struct {
	Op   string // "ship", "receive", "cancel"
	From string // estado actual del pedido
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("operación %q no permitida desde el estado %s", e.Op, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewTransitionError construye el error de transición ilegal.
func NewTransitionError(op, from string) error {
	return &TransitionError{Op: op, From: from}
}
