package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-api/internal/application/orders"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ orders.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de pedidos y recepciones atados a la tx
// (para la recepción: cambio de estado + eventos de entrada en una sola transacción).
func (r *TxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	receiptRepo repository.ReceiptEventRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderRepo := NewPurchaseOrderRepository(tx)
	receiptRepo := NewReceiptEventRepository(tx)

	if err := fn(orderRepo, receiptRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunStock inicia una transacción con repos del libro de stock (entradas y bajas en lote).
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	receiptRepo repository.ReceiptEventRepository,
	writeoffRepo repository.WriteOffEventRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	receiptRepo := NewReceiptEventRepository(tx)
	writeoffRepo := NewWriteOffEventRepository(tx)

	if err := fn(receiptRepo, writeoffRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
