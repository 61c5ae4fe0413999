package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL (usable con
// pool o tx). Las mutaciones de estado son updates condicionales sobre la columna version:
// cero filas afectadas significa que otro proceso ganó la carrera (ErrConcurrencyConflict).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste el pedido con sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, location_id, status, version, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.LocationID, o.Status.String(), o.Version, o.CreatedAt, o.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	lineQuery := `
		INSERT INTO order_lines (id, order_id, article_id, ordered, shipped)
		VALUES ($1, $2, $3, $4, $5)`
	for _, l := range o.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, l.OrderID, l.ArticleID, l.Ordered, l.Shipped); err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
	}
	return nil
}

// GetByID carga un pedido con sus líneas; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT id, location_id, status, version, created_at, created_by
		FROM purchase_orders WHERE id = $1`
	var o entity.PurchaseOrder
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.LocationID, &status, &o.Version, &o.CreatedAt, &o.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatus(status)
	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByLocation lista los pedidos de una sede, opcionalmente filtrados por estado.
func (r *PurchaseOrderRepo) ListByLocation(ctx context.Context, locationID string, status entity.OrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT id, location_id, status, version, created_at, created_by
		FROM purchase_orders WHERE location_id = $1`
	args := []any{locationID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status.String())
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		var st string
		if err := rows.Scan(&o.ID, &o.LocationID, &st, &o.Version, &o.CreatedAt, &o.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(st)
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadLines(ctx, o); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateStatus cambia el estado si la versión coincide e incrementa la versión.
// Cero filas afectadas: la versión conocida ya no es la actual (conflicto optimista).
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, orderID string, fromVersion int64, status entity.OrderStatus) error {
	query := `
		UPDATE purchase_orders SET status = $3, version = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query, orderID, fromVersion, status.String())
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// UpdateShipment fija las cantidades enviadas y el nuevo estado en una sola sentencia
// condicional sobre la versión: las líneas solo se tocan si el update del pedido aplicó.
func (r *PurchaseOrderRepo) UpdateShipment(ctx context.Context, orderID string, fromVersion int64, status entity.OrderStatus, lines []entity.OrderLine) error {
	args := []any{orderID, fromVersion, status.String()}
	values := make([]string, 0, len(lines))
	pos := 4
	for _, l := range lines {
		values = append(values, fmt.Sprintf("($%d::text, $%d::bigint)", pos, pos+1))
		args = append(args, l.ID, l.Shipped)
		pos += 2
	}
	query := `
		WITH bumped AS (
			UPDATE purchase_orders SET status = $3, version = version + 1
			WHERE id = $1 AND version = $2
			RETURNING id
		)
		UPDATE order_lines AS l SET shipped = v.shipped
		FROM (VALUES ` + strings.Join(values, ", ") + `) AS v(id, shipped), bumped
		WHERE l.id = v.id AND l.order_id = bumped.id`
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `SELECT id, order_id, article_id, ordered, shipped
		FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, o.ID)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ArticleID, &l.Ordered, &l.Shipped); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}
