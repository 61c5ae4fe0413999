// Package stock expone las operaciones de aplicación sobre el libro de stock: lectura de
// posiciones, entradas directas de mercancía y bajas (con cancelación lógica).
package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	domstock "github.com/jhoicas/almacen-api/internal/domain/stock"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// UseCase casos de uso del libro de stock.
type UseCase struct {
	txRunner     TxRunner
	receiptRepo  repository.ReceiptEventRepository
	writeoffRepo repository.WriteOffEventRepository
	articleRepo  repository.ArticleRepository
	locationRepo repository.LocationRepository
	authorizer   *authz.Authorizer
	notifier     Notifier
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de stock.
func NewUseCase(
	txRunner TxRunner,
	receiptRepo repository.ReceiptEventRepository,
	writeoffRepo repository.WriteOffEventRepository,
	articleRepo repository.ArticleRepository,
	locationRepo repository.LocationRepository,
	authorizer *authz.Authorizer,
	notifier Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		receiptRepo:  receiptRepo,
		writeoffRepo: writeoffRepo,
		articleRepo:  articleRepo,
		locationRepo: locationRepo,
		authorizer:   authorizer,
		notifier:     notifier,
		log:          log,
	}
}

// ComputeStock devuelve las posiciones actuales de una sede, opcionalmente restringidas a
// un artículo. Lectura pura sin bloqueo: pliega los eventos con el libro de stock del
// dominio. Las estanterías negativas se registran como warning y viajan marcadas en la
// posición; la lectura nunca falla por una inconsistencia de datos.
func (uc *UseCase) ComputeStock(ctx context.Context, locationID, articleID string) (map[string]*domstock.Position, error) {
	receipts, err := uc.receiptRepo.ListByLocation(ctx, locationID, articleID)
	if err != nil {
		return nil, err
	}
	writeoffs, err := uc.writeoffRepo.ListByLocation(ctx, locationID, articleID)
	if err != nil {
		return nil, err
	}
	positions := domstock.Compute(receipts, writeoffs)
	for id, p := range positions {
		if len(p.Inconsistent) > 0 {
			uc.log.Warn().
				Str("location_id", locationID).
				Str("article_id", id).
				Strs("bins", p.Inconsistent).
				Msg("posición de stock con estanterías en negativo")
		}
	}
	return positions, nil
}

// ComputeStockByCategory filtra las posiciones de una sede por categoría de artículo.
// Mismo cálculo que ComputeStock; el filtro es solo agrupación de presentación.
func (uc *UseCase) ComputeStockByCategory(ctx context.Context, locationID, category string) (map[string]*domstock.Position, error) {
	if !entity.ValidCategory(category) {
		return nil, fmt.Errorf("%w: categoría %q desconocida", domain.ErrValidation, category)
	}
	positions, err := uc.ComputeStock(ctx, locationID, "")
	if err != nil {
		return nil, err
	}
	articles, err := uc.articlesFor(ctx, positions)
	if err != nil {
		return nil, err
	}
	return domstock.FilterByCategory(positions, articles, category), nil
}

// RegisterReceipt registra una entrada directa de mercancía sin pedido de origen.
// Sin reparto explícito toda la cantidad va a la estantería por defecto.
func (uc *UseCase) RegisterReceipt(ctx context.Context, auth authz.AuthContext, locationID, articleID string, quantity int64, splits []entity.BinSplit) (*entity.ReceiptEvent, error) {
	if err := uc.authorizer.ForLocation(ctx, auth, locationID); err != nil {
		return nil, err
	}
	article, err := uc.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, articleID)
	}
	if len(splits) == 0 {
		splits = []entity.BinSplit{{Bin: entity.DefaultBin, Quantity: quantity}}
	}
	event := &entity.ReceiptEvent{
		ID:         uuid.New().String(),
		LocationID: locationID,
		ArticleID:  articleID,
		Quantity:   quantity,
		Splits:     splits,
		CreatedAt:  time.Now(),
		CreatedBy:  auth.UserID,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	err = uc.txRunner.RunStock(ctx, func(receiptRepo repository.ReceiptEventRepository, _ repository.WriteOffEventRepository) error {
		return receiptRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// WriteOffEntry una baja dentro de un lote.
type WriteOffEntry struct {
	ArticleID string
	Bin       string
	Quantity  int64
}

// WriteOff registra un lote de bajas para una sede con una referencia común obligatoria.
// No valida contra el disponible de la estantería: una baja mayor que lo recibido se
// permite y aflorará como inconsistencia en la lectura (comportamiento observado en el
// sistema de origen, preservado a propósito). El lote se inserta en una transacción.
func (uc *UseCase) WriteOff(ctx context.Context, auth authz.AuthContext, locationID string, entries []WriteOffEntry, reference string) ([]*entity.WriteOffEvent, error) {
	if err := uc.authorizer.ForLocation(ctx, auth, locationID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: el lote de bajas requiere una referencia", domain.ErrValidation)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: el lote de bajas está vacío", domain.ErrValidation)
	}
	now := time.Now()
	events := make([]*entity.WriteOffEvent, 0, len(entries))
	for _, e := range entries {
		article, err := uc.articleRepo.GetByID(ctx, e.ArticleID)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, e.ArticleID)
		}
		event := &entity.WriteOffEvent{
			ID:         uuid.New().String(),
			LocationID: locationID,
			ArticleID:  e.ArticleID,
			Quantity:   e.Quantity,
			Bin:        e.Bin,
			Reference:  reference,
			CreatedAt:  now,
			CreatedBy:  auth.UserID,
		}
		if err := event.Validate(); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	err := uc.txRunner.RunStock(ctx, func(_ repository.ReceiptEventRepository, writeoffRepo repository.WriteOffEventRepository) error {
		return writeoffRepo.CreateBatch(ctx, events)
	})
	if err != nil {
		return nil, err
	}
	uc.checkMinimums(ctx, locationID, events)
	return events, nil
}

// CancelWriteOff marca una baja como cancelada sin borrarla (pista de auditoría).
// Idempotente: cancelar una baja ya cancelada es un no-op, no un error.
func (uc *UseCase) CancelWriteOff(ctx context.Context, auth authz.AuthContext, writeOffID string) error {
	event, err := uc.writeoffRepo.GetByID(ctx, writeOffID)
	if err != nil {
		return err
	}
	if event == nil {
		return domain.ErrNotFound
	}
	if err := uc.authorizer.ForLocation(ctx, auth, event.LocationID); err != nil {
		return err
	}
	if event.Cancelled {
		return nil
	}
	return uc.writeoffRepo.MarkCancelled(ctx, writeOffID)
}

// articlesFor carga los artículos de las posiciones calculadas.
func (uc *UseCase) articlesFor(ctx context.Context, positions map[string]*domstock.Position) (map[string]*entity.Article, error) {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	return uc.articleRepo.ListByIDs(ctx, ids)
}

// checkMinimums recalcula las posiciones de los artículos afectados por un lote de bajas
// y dispara la notificación de stock bajo mínimo cuando corresponde. Best-effort.
func (uc *UseCase) checkMinimums(ctx context.Context, locationID string, events []*entity.WriteOffEvent) {
	if uc.notifier == nil {
		return
	}
	seen := make(map[string]bool)
	var loc *entity.Location
	for _, e := range events {
		if seen[e.ArticleID] {
			continue
		}
		seen[e.ArticleID] = true
		article, err := uc.articleRepo.GetByID(ctx, e.ArticleID)
		if err != nil || article == nil || article.MinStock == nil {
			continue
		}
		positions, err := uc.ComputeStock(ctx, locationID, e.ArticleID)
		if err != nil {
			continue
		}
		p := positions[e.ArticleID]
		if p == nil || p.Total >= *article.MinStock {
			continue
		}
		if loc == nil {
			loc, err = uc.locationRepo.GetByID(ctx, locationID)
			if err != nil || loc == nil {
				return
			}
		}
		if err := uc.notifier.NotifyStockBelowMinimum(ctx, article, loc, p.Total); err != nil {
			uc.log.Warn().Err(err).
				Str("article_id", article.ID).
				Str("location_id", locationID).
				Msg("notificación de stock mínimo fallida")
		}
	}
}
