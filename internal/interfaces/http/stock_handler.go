package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	appstock "github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	domstock "github.com/jhoicas/almacen-api/internal/domain/stock"
)

// StockHandler maneja las lecturas del libro de stock, las entradas directas y las bajas.
type StockHandler struct {
	uc          *appstock.UseCase
	articleRepo repository.ArticleRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *appstock.UseCase, articleRepo repository.ArticleRepository) *StockHandler {
	return &StockHandler{uc: uc, articleRepo: articleRepo}
}

// GetStock godoc
// @Summary      Posiciones de stock de una sede
// @Description  Calcula las posiciones plegando los eventos del libro. Las estanterías en
//               negativo viajan marcadas en inconsistent_bins; la lectura nunca falla por eso.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID de la sede"
// @Param        article_id  query  string  false  "Restringir a un artículo"
// @Param        category    query  string  false  "Filtrar por categoría"
// @Success      200  {array}  dto.StockPositionResponse
// @Router       /api/locations/{id}/stock [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	locationID := c.Params("id")
	category := c.Query("category")

	var positions map[string]*domstock.Position
	var err error
	if category != "" {
		positions, err = h.uc.ComputeStockByCategory(c.Context(), locationID, category)
	} else {
		positions, err = h.uc.ComputeStock(c.Context(), locationID, c.Query("article_id"))
	}
	if err != nil {
		return writeError(c, err)
	}

	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	articles, err := h.articleRepo.ListByIDs(c.Context(), ids)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]dto.StockPositionResponse, 0, len(positions))
	for id, p := range positions {
		item := dto.StockPositionResponse{
			ArticleID:    id,
			Total:        p.Total,
			Inconsistent: p.Inconsistent,
		}
		for _, b := range p.Bins {
			item.Bins = append(item.Bins, dto.BinQuantityDTO{Bin: b.Bin, Quantity: b.Quantity})
		}
		if a := articles[id]; a != nil {
			item.SKU = a.SKU
			item.Name = a.Name
			item.Category = a.Category
			item.BelowMin = a.MinStock != nil && p.Total < *a.MinStock
		}
		out = append(out, item)
	}
	return c.JSON(out)
}

// RegisterReceipt godoc
// @Summary      Registrar entrada directa de mercancía (sin pedido)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sede"
// @Param        body  body  dto.RegisterReceiptRequest  true  "article_id, quantity, splits"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/receipts [post]
func (h *StockHandler) RegisterReceipt(c *fiber.Ctx) error {
	var in dto.RegisterReceiptRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	splits := make([]entity.BinSplit, 0, len(in.Splits))
	for _, s := range in.Splits {
		splits = append(splits, entity.BinSplit{Bin: s.Bin, Quantity: s.Quantity})
	}
	event, err := h.uc.RegisterReceipt(c.Context(), CallerContext(c), c.Params("id"), in.ArticleID, in.Quantity, splits)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": event.ID})
}

// WriteOff godoc
// @Summary      Registrar lote de bajas de stock
// @Description  No valida contra el disponible: una baja mayor que lo recibido se permite y
//               aflora como inconsistencia en la lectura.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sede"
// @Param        body  body  dto.WriteOffRequest  true  "reference y entries"
// @Success      201   {array}  dto.WriteOffResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/writeoffs [post]
func (h *StockHandler) WriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	entries := make([]appstock.WriteOffEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		entries = append(entries, appstock.WriteOffEntry{ArticleID: e.ArticleID, Bin: e.Bin, Quantity: e.Quantity})
	}
	events, err := h.uc.WriteOff(c.Context(), CallerContext(c), c.Params("id"), entries, in.Reference)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.WriteOffResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.WriteOffResponse{
			ID:         e.ID,
			LocationID: e.LocationID,
			ArticleID:  e.ArticleID,
			Bin:        e.Bin,
			Quantity:   e.Quantity,
			Reference:  e.Reference,
			Cancelled:  e.Cancelled,
			CreatedAt:  e.CreatedAt,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CancelWriteOff godoc
// @Summary      Cancelar una baja (lógica, idempotente)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la baja"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/writeoffs/{id}/cancel [post]
func (h *StockHandler) CancelWriteOff(c *fiber.Ctx) error {
	if err := h.uc.CancelWriteOff(c.Context(), CallerContext(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "baja cancelada"})
}
