// Package orders implementa la máquina de estados del ciclo de vida de un pedido:
// Open -> PartiallyShipped/Shipped -> Received, o cancelación desde Open/PartiallyShipped.
// Toda mutación es un check-and-set atómico contra la versión persistida del pedido.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// UseCase casos de uso del ciclo de vida de pedidos.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.PurchaseOrderRepository
	articleRepo  repository.ArticleRepository
	locationRepo repository.LocationRepository
	authorizer   *authz.Authorizer
	notifier     Notifier
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de pedidos.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	articleRepo repository.ArticleRepository,
	locationRepo repository.LocationRepository,
	authorizer *authz.Authorizer,
	notifier Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		articleRepo:  articleRepo,
		locationRepo: locationRepo,
		authorizer:   authorizer,
		notifier:     notifier,
		log:          log,
	}
}

// LineInput línea para crear un pedido.
type LineInput struct {
	ArticleID string
	Quantity  int64
}

// ShipmentInput cantidad enviada declarada para una línea en un envío parcial.
type ShipmentInput struct {
	LineID  string
	Shipped int64
}

// Create crea un pedido en estado OPEN con todas las líneas en enviado=0.
// Requiere al menos una línea, cantidades positivas y artículos existentes.
func (uc *UseCase) Create(ctx context.Context, auth authz.AuthContext, locationID string, lines []LineInput) (*entity.PurchaseOrder, error) {
	if err := uc.authorizer.ForLocation(ctx, auth, locationID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: el pedido requiere al menos una línea", domain.ErrValidation)
	}
	orderID := uuid.New().String()
	order := &entity.PurchaseOrder{
		ID:         orderID,
		LocationID: locationID,
		Status:     entity.OrderStatusOpen,
		Version:    1,
		CreatedAt:  time.Now(),
		CreatedBy:  auth.UserID,
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad no positiva para el artículo %s", domain.ErrValidation, l.ArticleID)
		}
		article, err := uc.articleRepo.GetByID(ctx, l.ArticleID)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, l.ArticleID)
		}
		order.Lines = append(order.Lines, entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ArticleID: l.ArticleID,
			Ordered:   l.Quantity,
			Shipped:   0,
		})
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get carga un pedido con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListByLocation lista los pedidos de una sede, opcionalmente filtrados por estado.
func (uc *UseCase) ListByLocation(ctx context.Context, locationID string, status entity.OrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.orderRepo.ListByLocation(ctx, locationID, status, limit, offset)
}

// Ship registra un envío. full=true envía todas las líneas completas y pasa a SHIPPED;
// si no, shipments declara cantidades parciales por línea y el pedido queda en
// PARTIALLY_SHIPPED, aunque el acumulado alcance lo pedido (el estado lo declara el
// emisor, sin promoción automática). Las cantidades parciales deben respetar la
// monotonía (>= enviado actual) y el techo de lo pedido.
func (uc *UseCase) Ship(ctx context.Context, auth authz.AuthContext, orderID string, full bool, shipments []ShipmentInput) (*entity.PurchaseOrder, error) {
	var shipped *entity.PurchaseOrder
	err := uc.withConflictRetry(func() error {
		order, err := uc.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := uc.authorizer.ForLocation(ctx, auth, order.LocationID); err != nil {
			return err
		}
		if !order.Status.CanShip() {
			return domain.NewTransitionError("ship", order.Status.String())
		}

		var newStatus entity.OrderStatus
		if full {
			for i := range order.Lines {
				order.Lines[i].Shipped = order.Lines[i].Ordered
			}
			newStatus = entity.OrderStatusShipped
		} else {
			if len(shipments) == 0 {
				return fmt.Errorf("%w: el envío parcial requiere al menos una línea", domain.ErrValidation)
			}
			for _, s := range shipments {
				line := order.LineByID(s.LineID)
				if line == nil {
					return fmt.Errorf("%w: línea %s", domain.ErrNotFound, s.LineID)
				}
				if s.Shipped < line.Shipped {
					return fmt.Errorf("%w: enviado %d menor que el acumulado %d en la línea %s",
						domain.ErrValidation, s.Shipped, line.Shipped, s.LineID)
				}
				if s.Shipped > line.Ordered {
					return fmt.Errorf("%w: enviado %d supera lo pedido %d en la línea %s",
						domain.ErrValidation, s.Shipped, line.Ordered, s.LineID)
				}
				line.Shipped = s.Shipped
			}
			newStatus = entity.OrderStatusPartiallyShipped
		}

		if err := uc.orderRepo.UpdateShipment(ctx, order.ID, order.Version, newStatus, order.Lines); err != nil {
			return err
		}
		order.Status = newStatus
		order.Version++
		shipped = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifyShipped(ctx, shipped)
	return shipped, nil
}

// Receive confirma la recepción: por cada línea con enviado > 0 emite un ReceiptEvent en
// la sede del pedido por la cantidad enviada, y pasa el pedido a RECEIVED. El cambio de
// estado y los eventos se escriben en la misma transacción. splits es opcional, indexado
// por línea; sin reparto explícito la mercancía va a la estantería por defecto.
func (uc *UseCase) Receive(ctx context.Context, auth authz.AuthContext, orderID string, splits map[string][]entity.BinSplit) (*entity.PurchaseOrder, error) {
	var received *entity.PurchaseOrder
	err := uc.withConflictRetry(func() error {
		order, err := uc.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := uc.authorizer.ForLocation(ctx, auth, order.LocationID); err != nil {
			return err
		}
		if !order.Status.CanReceive() {
			return domain.NewTransitionError("receive", order.Status.String())
		}

		now := time.Now()
		var events []*entity.ReceiptEvent
		for i := range order.Lines {
			line := &order.Lines[i]
			if line.Shipped == 0 {
				continue // nada enviado, nada que recibir
			}
			eventSplits := splits[line.ID]
			if len(eventSplits) == 0 {
				eventSplits = []entity.BinSplit{{Bin: entity.DefaultBin, Quantity: line.Shipped}}
			}
			event := &entity.ReceiptEvent{
				ID:         uuid.New().String(),
				LocationID: order.LocationID,
				ArticleID:  line.ArticleID,
				Quantity:   line.Shipped,
				OrderID:    order.ID,
				Splits:     eventSplits,
				CreatedAt:  now,
				CreatedBy:  auth.UserID,
			}
			if err := event.Validate(); err != nil {
				return err
			}
			events = append(events, event)
		}

		err = uc.txRunner.Run(ctx, func(
			orderRepo repository.PurchaseOrderRepository,
			receiptRepo repository.ReceiptEventRepository,
		) error {
			if err := orderRepo.UpdateStatus(ctx, order.ID, order.Version, entity.OrderStatusReceived); err != nil {
				return err
			}
			for _, e := range events {
				if err := receiptRepo.Create(ctx, e); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		order.Status = entity.OrderStatusReceived
		order.Version++
		received = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifyReceived(ctx, received)
	return received, nil
}

// Cancel pasa el pedido a CANCELLED. Solo se permite desde OPEN o PARTIALLY_SHIPPED:
// un envío completo ya está en tránsito y no admite cancelación.
func (uc *UseCase) Cancel(ctx context.Context, auth authz.AuthContext, orderID string) (*entity.PurchaseOrder, error) {
	var cancelled *entity.PurchaseOrder
	err := uc.withConflictRetry(func() error {
		order, err := uc.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := uc.authorizer.ForLocation(ctx, auth, order.LocationID); err != nil {
			return err
		}
		if !order.Status.CanCancel() {
			return domain.NewTransitionError("cancel", order.Status.String())
		}
		if err := uc.orderRepo.UpdateStatus(ctx, order.ID, order.Version, entity.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = entity.OrderStatusCancelled
		order.Version++
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// EstimateCost estima el costo del pedido sumando cantidad pedida * precio de referencia.
func (uc *UseCase) EstimateCost(ctx context.Context, order *entity.PurchaseOrder) (decimal.Decimal, error) {
	ids := make([]string, 0, len(order.Lines))
	for i := range order.Lines {
		ids = append(ids, order.Lines[i].ArticleID)
	}
	articles, err := uc.articleRepo.ListByIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range order.Lines {
		a := articles[order.Lines[i].ArticleID]
		if a == nil {
			continue
		}
		total = total.Add(a.Price.Mul(decimal.NewFromInt(order.Lines[i].Ordered)))
	}
	return total, nil
}

// withConflictRetry ejecuta fn y, si pierde la carrera optimista, reintenta una única vez
// con estado recargado. Un segundo conflicto se devuelve al caller tal cual.
func (uc *UseCase) withConflictRetry(fn func() error) error {
	err := fn()
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		return fn()
	}
	return err
}

func (uc *UseCase) notifyShipped(ctx context.Context, order *entity.PurchaseOrder) {
	if uc.notifier == nil {
		return
	}
	loc, err := uc.locationRepo.GetByID(ctx, order.LocationID)
	if err != nil || loc == nil {
		uc.log.Warn().Str("order_id", order.ID).Msg("no se pudo cargar la sede para notificar envío")
		return
	}
	if err := uc.notifier.NotifyOrderShipped(ctx, order, loc); err != nil {
		// Best-effort: la transición ya está confirmada, solo se registra el fallo.
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("notificación de envío fallida")
	}
}

func (uc *UseCase) notifyReceived(ctx context.Context, order *entity.PurchaseOrder) {
	if uc.notifier == nil {
		return
	}
	loc, err := uc.locationRepo.GetByID(ctx, order.LocationID)
	if err != nil || loc == nil {
		uc.log.Warn().Str("order_id", order.ID).Msg("no se pudo cargar la sede para notificar recepción")
		return
	}
	if err := uc.notifier.NotifyOrderReceived(ctx, order, loc); err != nil {
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("notificación de recepción fallida")
	}
}
