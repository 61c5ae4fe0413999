package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.WriteOffEventRepository = (*WriteOffEventRepo)(nil)

// WriteOffEventRepo implementación de WriteOffEventRepository sobre PostgreSQL (usable con
// pool o tx).
type WriteOffEventRepo struct {
	q Querier
}

// NewWriteOffEventRepository construye el adaptador de bajas. Pasar pool o tx (Querier).
func NewWriteOffEventRepository(q Querier) *WriteOffEventRepo {
	return &WriteOffEventRepo{q: q}
}

// CreateBatch persiste un lote de bajas. El caller pasa una tx (vía TxRunner) para que el
// lote entre completo o no entre.
func (r *WriteOffEventRepo) CreateBatch(ctx context.Context, events []*entity.WriteOffEvent) error {
	query := `
		INSERT INTO writeoff_events (id, location_id, article_id, quantity, bin, reference, cancelled, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, e := range events {
		_, err := r.q.Exec(ctx, query,
			e.ID, e.LocationID, e.ArticleID, e.Quantity, e.Bin, e.Reference, e.Cancelled, e.CreatedAt, e.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("create writeoff event: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una baja por ID; nil si no existe.
func (r *WriteOffEventRepo) GetByID(ctx context.Context, id string) (*entity.WriteOffEvent, error) {
	query := `SELECT id, location_id, article_id, quantity, bin, reference, cancelled, created_at, created_by
		FROM writeoff_events WHERE id = $1`
	var e entity.WriteOffEvent
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.LocationID, &e.ArticleID, &e.Quantity, &e.Bin, &e.Reference, &e.Cancelled, &e.CreatedAt, &e.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get writeoff event: %w", err)
	}
	return &e, nil
}

// MarkCancelled marca la baja como cancelada. Idempotente: una baja ya cancelada no cambia.
func (r *WriteOffEventRepo) MarkCancelled(ctx context.Context, id string) error {
	query := `UPDATE writeoff_events SET cancelled = true WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("cancel writeoff event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByLocation devuelve las bajas de una sede en orden de creación, canceladas incluidas;
// articleID opcional.
func (r *WriteOffEventRepo) ListByLocation(ctx context.Context, locationID, articleID string) ([]*entity.WriteOffEvent, error) {
	query := `SELECT id, location_id, article_id, quantity, bin, reference, cancelled, created_at, created_by
		FROM writeoff_events WHERE location_id = $1`
	args := []any{locationID}
	if articleID != "" {
		query += " AND article_id = $2"
		args = append(args, articleID)
	}
	query += " ORDER BY created_at, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list writeoff events: %w", err)
	}
	defer rows.Close()
	var list []*entity.WriteOffEvent
	for rows.Next() {
		var e entity.WriteOffEvent
		if err := rows.Scan(&e.ID, &e.LocationID, &e.ArticleID, &e.Quantity, &e.Bin, &e.Reference, &e.Cancelled, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan writeoff event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
