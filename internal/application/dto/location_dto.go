package dto

import "time"

// ResponsibleContactDTO contacto responsable de una sede.
type ResponsibleContactDTO struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// CreateLocationRequest body para POST /api/locations (solo admin).
type CreateLocationRequest struct {
	Name         string                  `json:"name" validate:"required"`
	Address      string                  `json:"address"`
	Responsables []ResponsibleContactDTO `json:"responsables" validate:"dive"`
}

// UpdateLocationRequest body para PUT /api/locations/:id. Reemplaza la lista de responsables.
type UpdateLocationRequest struct {
	Name         string                  `json:"name" validate:"required"`
	Address      string                  `json:"address"`
	Responsables []ResponsibleContactDTO `json:"responsables" validate:"dive"`
}

// LocationResponse representación de una sede.
type LocationResponse struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Address      string                  `json:"address,omitempty"`
	Responsables []ResponsibleContactDTO `json:"responsables"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}
