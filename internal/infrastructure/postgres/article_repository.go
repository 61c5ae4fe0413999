package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo implementación de ArticleRepository sobre PostgreSQL (usable con pool o tx).
// Los campos de hardware viven como columnas anulables en la misma tabla.
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

const articleColumns = `id, sku, name, description, category, unit_measure, price, min_stock,
	hw_service_interval_months, hw_replacement_interval_years, hw_responsible_contact, hw_last_service_at,
	status, created_at, updated_at`

// Create persiste un artículo nuevo. SKU duplicado es un error de validación.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.SKU, a.Name, a.Description, a.Category, a.UnitMeasure, a.Price, a.MinStock,
		hwMonths(a), hwYears(a), hwContact(a), hwLastService(a),
		a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un artículo con SKU %s", domain.ErrValidation, a.SKU)
		}
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	a, err := scanArticle(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// GetBySKU obtiene un artículo por su SKU; nil si no existe.
func (r *ArticleRepo) GetBySKU(ctx context.Context, sku string) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE sku = $1`
	a, err := scanArticle(r.q.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article by sku: %w", err)
	}
	return a, nil
}

// Update actualiza los campos editables del artículo (el ID es inmutable).
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	query := `
		UPDATE articles SET sku = $2, name = $3, description = $4, category = $5,
			unit_measure = $6, price = $7, min_stock = $8,
			hw_service_interval_months = $9, hw_replacement_interval_years = $10,
			hw_responsible_contact = $11, hw_last_service_at = $12,
			status = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.SKU, a.Name, a.Description, a.Category, a.UnitMeasure, a.Price, a.MinStock,
		hwMonths(a), hwYears(a), hwContact(a), hwLastService(a),
		a.Status, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un artículo con SKU %s", domain.ErrValidation, a.SKU)
		}
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista artículos, opcionalmente filtrados por categoría.
func (r *ArticleRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	args := []any{}
	pos := 1
	if category != "" {
		query += fmt.Sprintf(" WHERE category = $%d", pos)
		args = append(args, category)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

// ListByIDs carga varios artículos de una vez (para decorar posiciones de stock).
func (r *ArticleRepo) ListByIDs(ctx context.Context, ids []string) (map[string]*entity.Article, error) {
	out := make(map[string]*entity.Article, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list articles by ids: %w", err)
	}
	defer rows.Close()
	list, err := collectArticles(rows)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		out[a.ID] = a
	}
	return out, nil
}

// ListHardware devuelve los artículos de hardware activos (para la lista de mantenimiento).
func (r *ArticleRepo) ListHardware(ctx context.Context) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE category = $1 AND status = 'active' ORDER BY name`
	rows, err := r.q.Query(ctx, query, entity.CategoryHardware)
	if err != nil {
		return nil, fmt.Errorf("list hardware articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	var hw hardwareColumns
	err := row.Scan(
		&a.ID, &a.SKU, &a.Name, &a.Description, &a.Category, &a.UnitMeasure, &a.Price, &a.MinStock,
		&hw.months, &hw.years, &hw.contact, &hw.lastServiceAt,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Hardware = hw.toInfo()
	return &a, nil
}

func collectArticles(rows pgx.Rows) ([]*entity.Article, error) {
	var list []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// hardwareColumns agrupa las columnas anulables de hardware para scan.
type hardwareColumns struct {
	months        *int
	years         *int
	contact       *string
	lastServiceAt *time.Time
}

func (h hardwareColumns) toInfo() *entity.HardwareInfo {
	if h.months == nil && h.years == nil && h.contact == nil {
		return nil
	}
	info := &entity.HardwareInfo{LastServiceAt: h.lastServiceAt}
	if h.months != nil {
		info.ServiceIntervalMonths = *h.months
	}
	if h.years != nil {
		info.ReplacementIntervalYears = *h.years
	}
	if h.contact != nil {
		info.ResponsibleContact = *h.contact
	}
	return info
}

func hwMonths(a *entity.Article) *int {
	if a.Hardware == nil {
		return nil
	}
	return &a.Hardware.ServiceIntervalMonths
}

func hwYears(a *entity.Article) *int {
	if a.Hardware == nil {
		return nil
	}
	return &a.Hardware.ReplacementIntervalYears
}

func hwContact(a *entity.Article) *string {
	if a.Hardware == nil {
		return nil
	}
	return &a.Hardware.ResponsibleContact
}

func hwLastService(a *entity.Article) *time.Time {
	if a.Hardware == nil {
		return nil
	}
	return a.Hardware.LastServiceAt
}
