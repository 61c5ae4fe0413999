package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/maintenance"
)

// MaintenanceHandler expone la lista de hardware con mantenimiento o reemplazo vencido.
type MaintenanceHandler struct {
	uc *maintenance.UseCase
}

// NewMaintenanceHandler construye el handler.
func NewMaintenanceHandler(uc *maintenance.UseCase) *MaintenanceHandler {
	return &MaintenanceHandler{uc: uc}
}

// DueList godoc
// @Summary      Hardware con mantenimiento o reemplazo vencido
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MaintenanceDueResponse
// @Router       /api/maintenance/due [get]
func (h *MaintenanceHandler) DueList(c *fiber.Ctx) error {
	due, err := h.uc.DueList(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(due)
}
