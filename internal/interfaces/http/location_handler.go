package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LocationHandler maneja las sedes y su lista de responsables (mutaciones solo-admin).
type LocationHandler struct {
	repo repository.LocationRepository
}

// NewLocationHandler construye el handler.
func NewLocationHandler(repo repository.LocationRepository) *LocationHandler {
	return &LocationHandler{repo: repo}
}

// Create godoc
// @Summary      Crear sede (solo admin)
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "name, address, responsables"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	now := time.Now()
	location := &entity.Location{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Address:      in.Address,
		Responsables: contactsFromDTO(in.Responsables),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.repo.Create(c.Context(), location); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLocationResponse(location))
}

// GetByID godoc
// @Summary      Obtener sede
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sede"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	location, err := h.repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if location == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(toLocationResponse(location))
}

// List godoc
// @Summary      Listar sedes
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	locations, err := h.repo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, *toLocationResponse(l))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar sede (solo admin). Reemplaza la lista de responsables completa.
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sede"
// @Param        body  body  dto.UpdateLocationRequest  true  "name, address, responsables"
// @Success      200   {object}  dto.LocationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	location, err := h.repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if location == nil {
		return writeError(c, domain.ErrNotFound)
	}
	location.Name = in.Name
	location.Address = in.Address
	location.Responsables = contactsFromDTO(in.Responsables)
	location.UpdatedAt = time.Now()
	if err := h.repo.Update(c.Context(), location); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLocationResponse(location))
}

func contactsFromDTO(in []dto.ResponsibleContactDTO) []entity.ResponsibleContact {
	out := make([]entity.ResponsibleContact, 0, len(in))
	for _, c := range in {
		out = append(out, entity.ResponsibleContact{Name: c.Name, Email: c.Email, Phone: c.Phone})
	}
	return out
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	contacts := make([]dto.ResponsibleContactDTO, 0, len(l.Responsables))
	for _, c := range l.Responsables {
		contacts = append(contacts, dto.ResponsibleContactDTO{Name: c.Name, Email: c.Email, Phone: c.Phone})
	}
	return &dto.LocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		Address:      l.Address,
		Responsables: contacts,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
