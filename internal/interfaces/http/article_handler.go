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

// ArticleHandler maneja el catálogo de artículos. Las mutaciones son solo-admin
// (lo impone RequireAdmin en el router).
type ArticleHandler struct {
	repo repository.ArticleRepository
}

// NewArticleHandler construye el handler.
func NewArticleHandler(repo repository.ArticleRepository) *ArticleHandler {
	return &ArticleHandler{repo: repo}
}

// Create godoc
// @Summary      Crear artículo (solo admin)
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "sku, name, category, unit_measure..."
// @Success      201   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	now := time.Now()
	article := &entity.Article{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		UnitMeasure: in.UnitMeasure,
		Price:       in.Price,
		MinStock:    in.MinStock,
		Hardware:    hardwareFromDTO(in.Hardware),
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.repo.Create(c.Context(), article); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toArticleResponse(article))
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(c *fiber.Ctx) error {
	article, err := h.repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if article == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(toArticleResponse(article))
}

// List godoc
// @Summary      Listar artículos
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {array}  dto.ArticleResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	category := c.Query("category")
	if category != "" && !entity.ValidCategory(category) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "categoría desconocida"})
	}
	articles, err := h.repo.List(c.Context(), category, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, *toArticleResponse(a))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar artículo (solo admin). El ID y el histórico del libro no se tocan.
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateArticleRequest  true  "campos editables"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateArticleRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	article, err := h.repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if article == nil {
		return writeError(c, domain.ErrNotFound)
	}
	article.Name = in.Name
	article.Description = in.Description
	article.UnitMeasure = in.UnitMeasure
	article.Price = in.Price
	article.MinStock = in.MinStock
	article.Hardware = hardwareFromDTO(in.Hardware)
	if in.Status != "" {
		article.Status = in.Status
	}
	article.UpdatedAt = time.Now()
	if err := h.repo.Update(c.Context(), article); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toArticleResponse(article))
}

func hardwareFromDTO(in *dto.HardwareInfoDTO) *entity.HardwareInfo {
	if in == nil {
		return nil
	}
	return &entity.HardwareInfo{
		ServiceIntervalMonths:    in.ServiceIntervalMonths,
		ReplacementIntervalYears: in.ReplacementIntervalYears,
		ResponsibleContact:       in.ResponsibleContact,
		LastServiceAt:            in.LastServiceAt,
	}
}

func toArticleResponse(a *entity.Article) *dto.ArticleResponse {
	out := &dto.ArticleResponse{
		ID:          a.ID,
		SKU:         a.SKU,
		Name:        a.Name,
		Description: a.Description,
		Category:    a.Category,
		UnitMeasure: a.UnitMeasure,
		Price:       a.Price,
		MinStock:    a.MinStock,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Hardware != nil {
		out.Hardware = &dto.HardwareInfoDTO{
			ServiceIntervalMonths:    a.Hardware.ServiceIntervalMonths,
			ReplacementIntervalYears: a.Hardware.ReplacementIntervalYears,
			ResponsibleContact:       a.Hardware.ResponsibleContact,
			LastServiceAt:            a.Hardware.LastServiceAt,
		}
	}
	return out
}
