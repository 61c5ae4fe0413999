package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ArticleRepository define el puerto de persistencia para Article (DIP).
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	// List filtra por categoría si category no está vacío.
	List(ctx context.Context, category string, limit, offset int) ([]*entity.Article, error)
	// ListByIDs carga varios artículos de una vez (para decorar posiciones de stock).
	ListByIDs(ctx context.Context, ids []string) (map[string]*entity.Article, error)
	// ListHardware devuelve los artículos de hardware activos (para la lista de mantenimiento).
	ListHardware(ctx context.Context) ([]*entity.Article, error)
}
