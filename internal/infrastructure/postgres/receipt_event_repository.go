package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ReceiptEventRepository = (*ReceiptEventRepo)(nil)

// ReceiptEventRepo implementación de ReceiptEventRepository sobre PostgreSQL (usable con
// pool o tx). Los repartos por estantería viven en receipt_event_bins, ordenados por posición.
type ReceiptEventRepo struct {
	q Querier
}

// NewReceiptEventRepository construye el adaptador de entradas. Pasar pool o tx (Querier).
func NewReceiptEventRepository(q Querier) *ReceiptEventRepo {
	return &ReceiptEventRepo{q: q}
}

// Create persiste el evento con sus repartos. Para que la escritura multi-fila sea atómica
// el caller debe pasar una tx (vía TxRunner); con el pool cada Exec es su propia transacción.
func (r *ReceiptEventRepo) Create(ctx context.Context, e *entity.ReceiptEvent) error {
	query := `
		INSERT INTO receipt_events (id, location_id, article_id, quantity, order_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	orderID := (*string)(nil)
	if e.OrderID != "" {
		orderID = &e.OrderID
	}
	_, err := r.q.Exec(ctx, query,
		e.ID, e.LocationID, e.ArticleID, e.Quantity, orderID, e.CreatedAt, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create receipt event: %w", err)
	}
	binQuery := `
		INSERT INTO receipt_event_bins (event_id, position, bin, quantity)
		VALUES ($1, $2, $3, $4)`
	for i, s := range e.Splits {
		if _, err := r.q.Exec(ctx, binQuery, e.ID, i, s.Bin, s.Quantity); err != nil {
			return fmt.Errorf("create receipt event bin: %w", err)
		}
	}
	return nil
}

// ListByLocation devuelve los eventos de una sede en orden de creación; articleID opcional.
func (r *ReceiptEventRepo) ListByLocation(ctx context.Context, locationID, articleID string) ([]*entity.ReceiptEvent, error) {
	query := `SELECT id, location_id, article_id, quantity, order_id, created_at, created_by
		FROM receipt_events WHERE location_id = $1`
	args := []any{locationID}
	if articleID != "" {
		query += " AND article_id = $2"
		args = append(args, articleID)
	}
	query += " ORDER BY created_at, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipt events: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceiptEvent
	for rows.Next() {
		var e entity.ReceiptEvent
		var orderID *string
		if err := rows.Scan(&e.ID, &e.LocationID, &e.ArticleID, &e.Quantity, &orderID, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan receipt event: %w", err)
		}
		if orderID != nil {
			e.OrderID = *orderID
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range list {
		if err := r.loadSplits(ctx, e); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ReceiptEventRepo) loadSplits(ctx context.Context, e *entity.ReceiptEvent) error {
	query := `SELECT bin, quantity FROM receipt_event_bins
		WHERE event_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, e.ID)
	if err != nil {
		return fmt.Errorf("load receipt event bins: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.BinSplit
		if err := rows.Scan(&s.Bin, &s.Quantity); err != nil {
			return fmt.Errorf("scan receipt event bin: %w", err)
		}
		e.Splits = append(e.Splits, s)
	}
	return rows.Err()
}
