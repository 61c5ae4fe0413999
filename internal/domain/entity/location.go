package entity

import (
	"strings"
	"time"
)

// ResponsibleContact contacto responsable de una sede. El orden de la lista se conserva.
type ResponsibleContact struct {
	Name  string
	Email string
	Phone string
}

// Location representa una sede física que almacena stock y genera pedidos al almacén central.
type Location struct {
	ID           string
	Name         string
	Address      string
	Responsables []ResponsibleContact // lista ordenada; autoriza mutaciones sobre la sede
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsResponsible indica si el email pertenece a la lista de responsables de la sede
// (comparación case-insensitive). Los admin están autorizados siempre, eso se decide arriba.
func (l *Location) IsResponsible(email string) bool {
	for _, r := range l.Responsables {
		if strings.EqualFold(r.Email, email) {
			return true
		}
	}
	return false
}

// ResponsibleEmails devuelve los emails de los responsables en orden, para notificaciones.
func (l *Location) ResponsibleEmails() []string {
	emails := make([]string, 0, len(l.Responsables))
	for _, r := range l.Responsables {
		if r.Email != "" {
			emails = append(emails, r.Email)
		}
	}
	return emails
}
