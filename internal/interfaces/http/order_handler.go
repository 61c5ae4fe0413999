package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/orders"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// OrderHandler maneja el ciclo de vida de los pedidos de sede.
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido para una sede
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "location_id y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	lines := make([]orders.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, orders.LineInput{ArticleID: l.ArticleID, Quantity: l.Quantity})
	}
	order, err := h.uc.Create(c.Context(), CallerContext(c), in.LocationID, lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(c, order))
}

// GetByID godoc
// @Summary      Obtener pedido con sus líneas y costo estimado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.toResponse(c, order))
}

// ListByLocation godoc
// @Summary      Listar pedidos de una sede
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la sede"
// @Param        status  query  string  false  "Filtrar por estado (OPEN, PARTIALLY_SHIPPED...)"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/locations/{id}/orders [get]
func (h *OrderHandler) ListByLocation(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	status := entity.OrderStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
	}
	list, err := h.uc.ListByLocation(c.Context(), c.Params("id"), status, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *h.toResponse(c, o))
	}
	return c.JSON(out)
}

// Ship godoc
// @Summary      Registrar envío (total o parcial) de un pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.ShipOrderRequest  true  "full o shipments por línea"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipOrderRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	shipments := make([]orders.ShipmentInput, 0, len(in.Shipments))
	for _, s := range in.Shipments {
		shipments = append(shipments, orders.ShipmentInput{LineID: s.LineID, Shipped: s.Shipped})
	}
	order, err := h.uc.Ship(c.Context(), CallerContext(c), c.Params("id"), in.Full, shipments)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.toResponse(c, order))
}

// Receive godoc
// @Summary      Confirmar recepción del pedido en la sede
// @Description  Emite un evento de entrada por cada línea enviada (misma transacción que el
//               cambio de estado). splits es opcional por línea; sin reparto va a GENERAL.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.ReceiveOrderRequest  false  "repartos por línea"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if len(c.Body()) > 0 {
		if !parseAndValidate(c, &in) {
			return nil
		}
	}
	splits := make(map[string][]entity.BinSplit, len(in.Splits))
	for lineID, ss := range in.Splits {
		for _, s := range ss {
			splits[lineID] = append(splits[lineID], entity.BinSplit{Bin: s.Bin, Quantity: s.Quantity})
		}
	}
	order, err := h.uc.Receive(c.Context(), CallerContext(c), c.Params("id"), splits)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.toResponse(c, order))
}

// Cancel godoc
// @Summary      Cancelar pedido (solo desde OPEN o PARTIALLY_SHIPPED)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), CallerContext(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.toResponse(c, order))
}

func (h *OrderHandler) toResponse(c *fiber.Ctx, o *entity.PurchaseOrder) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:        l.ID,
			ArticleID: l.ArticleID,
			Ordered:   l.Ordered,
			Shipped:   l.Shipped,
		})
	}
	out := &dto.OrderResponse{
		ID:         o.ID,
		LocationID: o.LocationID,
		Status:     o.Status.String(),
		Lines:      lines,
		CreatedAt:  o.CreatedAt,
		CreatedBy:  o.CreatedBy,
	}
	// El costo estimado es informativo; si el cálculo falla se omite sin romper la respuesta.
	if cost, err := h.uc.EstimateCost(c.Context(), o); err == nil {
		out.EstimatedCost = cost
	}
	return out
}
