package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/application/orders"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	domstock "github.com/jhoicas/almacen-api/internal/domain/stock"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders        map[string]*entity.PurchaseOrder
	conflictsLeft int // fuerza ErrConcurrencyConflict en los próximos updates
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.PurchaseOrder)}
}

func copyOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	c.Lines = make([]entity.OrderLine, len(o.Lines))
	copy(c.Lines, o.Lines)
	return &c
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	r.orders[o.ID] = copyOrder(o)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *fakeOrderRepo) ListByLocation(_ context.Context, locationID string, status entity.OrderStatus, _, _ int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, o := range r.orders {
		if o.LocationID == locationID && (status == "" || o.Status == status) {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, fromVersion int64, status entity.OrderStatus) error {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return domain.ErrConcurrencyConflict
	}
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Version != fromVersion {
		return domain.ErrConcurrencyConflict
	}
	o.Status = status
	o.Version++
	return nil
}

func (r *fakeOrderRepo) UpdateShipment(_ context.Context, orderID string, fromVersion int64, status entity.OrderStatus, lines []entity.OrderLine) error {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return domain.ErrConcurrencyConflict
	}
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Version != fromVersion {
		return domain.ErrConcurrencyConflict
	}
	o.Status = status
	o.Version++
	o.Lines = make([]entity.OrderLine, len(lines))
	copy(o.Lines, lines)
	return nil
}

type fakeArticleRepo struct {
	articles map[string]*entity.Article
}

func (r *fakeArticleRepo) Create(_ context.Context, a *entity.Article) error { r.articles[a.ID] = a; return nil }
func (r *fakeArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	return r.articles[id], nil
}
func (r *fakeArticleRepo) GetBySKU(_ context.Context, sku string) (*entity.Article, error) {
	for _, a := range r.articles {
		if a.SKU == sku {
			return a, nil
		}
	}
	return nil, nil
}
func (r *fakeArticleRepo) Update(_ context.Context, a *entity.Article) error { r.articles[a.ID] = a; return nil }
func (r *fakeArticleRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.Article, error) {
	var out []*entity.Article
	for _, a := range r.articles {
		out = append(out, a)
	}
	return out, nil
}
func (r *fakeArticleRepo) ListByIDs(_ context.Context, ids []string) (map[string]*entity.Article, error) {
	out := make(map[string]*entity.Article)
	for _, id := range ids {
		if a, ok := r.articles[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}
func (r *fakeArticleRepo) ListHardware(_ context.Context) ([]*entity.Article, error) {
	var out []*entity.Article
	for _, a := range r.articles {
		if a.Hardware != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func (r *fakeLocationRepo) Create(_ context.Context, l *entity.Location) error { r.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return r.locations[id], nil
}
func (r *fakeLocationRepo) Update(_ context.Context, l *entity.Location) error { r.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) List(_ context.Context, _, _ int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.locations {
		out = append(out, l)
	}
	return out, nil
}

type fakeReceiptRepo struct {
	events []*entity.ReceiptEvent
}

func (r *fakeReceiptRepo) Create(_ context.Context, e *entity.ReceiptEvent) error {
	r.events = append(r.events, e)
	return nil
}
func (r *fakeReceiptRepo) ListByLocation(_ context.Context, locationID, articleID string) ([]*entity.ReceiptEvent, error) {
	var out []*entity.ReceiptEvent
	for _, e := range r.events {
		if e.LocationID == locationID && (articleID == "" || e.ArticleID == articleID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback directamente con los fakes (sin transacción real).
type fakeTxRunner struct {
	orderRepo   *fakeOrderRepo
	receiptRepo *fakeReceiptRepo
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	receiptRepo repository.ReceiptEventRepository,
) error) error {
	return fn(t.orderRepo, t.receiptRepo)
}

type fakeNotifier struct {
	shipped  []string
	received []string
}

func (n *fakeNotifier) NotifyOrderShipped(_ context.Context, o *entity.PurchaseOrder, _ *entity.Location) error {
	n.shipped = append(n.shipped, o.ID)
	return nil
}
func (n *fakeNotifier) NotifyOrderReceived(_ context.Context, o *entity.PurchaseOrder, _ *entity.Location) error {
	n.received = append(n.received, o.ID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Montaje
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc          *orders.UseCase
	orderRepo   *fakeOrderRepo
	receiptRepo *fakeReceiptRepo
	notifier    *fakeNotifier
}

var (
	adminCtx       = authz.AuthContext{UserID: "u-admin", Email: "admin@empresa.com", Role: entity.RoleAdmin}
	responsableCtx = authz.AuthContext{UserID: "u-resp", Email: "resp@empresa.com", Role: entity.RoleResponsable}
	ajenoCtx       = authz.AuthContext{UserID: "u-ajeno", Email: "ajeno@empresa.com", Role: entity.RoleDefault}
)

func newFixture() *fixture {
	orderRepo := newFakeOrderRepo()
	receiptRepo := &fakeReceiptRepo{}
	articleRepo := &fakeArticleRepo{articles: map[string]*entity.Article{
		"A1": {ID: "A1", SKU: "SKU-1", Name: "Tóner", Category: entity.CategoryConsumable},
		"A2": {ID: "A2", SKU: "SKU-2", Name: "Papel", Category: entity.CategoryOfficeSupply},
	}}
	locationRepo := &fakeLocationRepo{locations: map[string]*entity.Location{
		"sede-1": {ID: "sede-1", Name: "Sede Norte", Responsables: []entity.ResponsibleContact{
			{Name: "Responsable", Email: "resp@empresa.com"},
		}},
	}}
	notifier := &fakeNotifier{}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := orders.NewUseCase(
		&fakeTxRunner{orderRepo: orderRepo, receiptRepo: receiptRepo},
		orderRepo, articleRepo, locationRepo,
		authz.NewAuthorizer(locationRepo),
		notifier, log,
	)
	return &fixture{uc: uc, orderRepo: orderRepo, receiptRepo: receiptRepo, notifier: notifier}
}

func (f *fixture) createOrder(t *testing.T, lines ...orders.LineInput) *entity.PurchaseOrder {
	t.Helper()
	if len(lines) == 0 {
		lines = []orders.LineInput{{ArticleID: "A1", Quantity: 10}}
	}
	order, err := f.uc.Create(context.Background(), adminCtx, "sede-1", lines)
	require.NoError(t, err)
	return order
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PedidoNuevoEnOpen(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t,
		orders.LineInput{ArticleID: "A1", Quantity: 10},
		orders.LineInput{ArticleID: "A2", Quantity: 3},
	)

	assert.Equal(t, entity.OrderStatusOpen, order.Status)
	assert.Equal(t, int64(1), order.Version)
	require.Len(t, order.Lines, 2)
	for _, l := range order.Lines {
		assert.Zero(t, l.Shipped, "toda línea nueva arranca con enviado=0")
	}
}

func TestCreate_SinLineas_Validacion(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), adminCtx, "sede-1", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_CantidadNoPositiva_Validacion(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), adminCtx, "sede-1",
		[]orders.LineInput{{ArticleID: "A1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_ArticuloInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), adminCtx, "sede-1",
		[]orders.LineInput{{ArticleID: "NO-EXISTE", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por sede
// ──────────────────────────────────────────────────────────────────────────────

func TestAutorizacion_ResponsableDeLaSedePuede(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), responsableCtx, "sede-1",
		[]orders.LineInput{{ArticleID: "A1", Quantity: 1}})
	assert.NoError(t, err)
}

func TestAutorizacion_AjenoALaSedeNoPuede(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), ajenoCtx, "sede-1",
		[]orders.LineInput{{ArticleID: "A1", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	order := f.createOrder(t)
	_, err = f.uc.Ship(context.Background(), ajenoCtx, order.ID, true, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAutorizacion_RolDefaultNoMutaAunqueSeaContacto(t *testing.T) {
	f := newFixture()
	lector := authz.AuthContext{UserID: "u-lector", Email: "resp@empresa.com", Role: entity.RoleDefault}
	_, err := f.uc.Create(context.Background(), lector, "sede-1",
		[]orders.LineInput{{ArticleID: "A1", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ship
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: crear -> envío completo -> recibir -> stock total = 10.
func TestEscenarioA_EnvioCompletoYRecepcion(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)

	shipped, err := f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, shipped.Status)
	assert.Equal(t, int64(10), shipped.Lines[0].Shipped)
	assert.Equal(t, []string{order.ID}, f.notifier.shipped, "el envío dispara la notificación")

	received, err := f.uc.Receive(context.Background(), adminCtx, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)

	// El evento de recepción alimenta el libro de stock: total 10 en la estantería por defecto.
	positions := domstock.Compute(f.receiptRepo.events, nil)
	require.NotNil(t, positions["A1"])
	assert.Equal(t, int64(10), positions["A1"].Total)
	assert.Equal(t, entity.DefaultBin, positions["A1"].Bins[0].Bin)
}

// Escenario B: parciales sucesivos; sin promoción automática a SHIPPED al completar.
func TestEscenarioB_ParcialesSinPromocionAutomatica(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	lineID := order.Lines[0].ID

	p1, err := f.uc.Ship(context.Background(), adminCtx, order.ID, false,
		[]orders.ShipmentInput{{LineID: lineID, Shipped: 4}})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartiallyShipped, p1.Status)

	p2, err := f.uc.Ship(context.Background(), adminCtx, order.ID, false,
		[]orders.ShipmentInput{{LineID: lineID, Shipped: 10}})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartiallyShipped, p2.Status,
		"el estado lo declara el emisor: acumular 10/10 no promueve a SHIPPED")
	assert.True(t, p2.FullyShipped())

	received, err := f.uc.Receive(context.Background(), adminCtx, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)

	positions := domstock.Compute(f.receiptRepo.events, nil)
	assert.Equal(t, int64(10), positions["A1"].Total)
}

func TestShip_Monotonia(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	lineID := order.Lines[0].ID

	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, false,
		[]orders.ShipmentInput{{LineID: lineID, Shipped: 6}})
	require.NoError(t, err)

	// Retroceder el acumulado viola la monotonía.
	_, err = f.uc.Ship(context.Background(), adminCtx, order.ID, false,
		[]orders.ShipmentInput{{LineID: lineID, Shipped: 5}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Superar lo pedido viola el techo.
	_, err = f.uc.Ship(context.Background(), adminCtx, order.ID, false,
		[]orders.ShipmentInput{{LineID: lineID, Shipped: 11}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// La secuencia observada de enviados nunca decrece.
	current, err := f.uc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), current.Lines[0].Shipped)
}

func TestShip_TransicionIlegal(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	require.NoError(t, err)
	_, err = f.uc.Receive(context.Background(), adminCtx, order.ID, nil)
	require.NoError(t, err)

	_, err = f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "RECEIVED", "el mensaje nombra el estado actual")
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_DesdeOpenFalla(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	_, err := f.uc.Receive(context.Background(), adminCtx, order.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReceive_OmiteLineasSinEnvio(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t,
		orders.LineInput{ArticleID: "A1", Quantity: 10},
		orders.LineInput{ArticleID: "A2", Quantity: 5},
	)
	// Solo la primera línea recibe envío parcial.
	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, false,
		[]orders.ShipmentInput{{LineID: order.Lines[0].ID, Shipped: 4}})
	require.NoError(t, err)

	_, err = f.uc.Receive(context.Background(), adminCtx, order.ID, nil)
	require.NoError(t, err)

	require.Len(t, f.receiptRepo.events, 1, "la línea con enviado=0 no genera evento")
	assert.Equal(t, "A1", f.receiptRepo.events[0].ArticleID)
	assert.Equal(t, int64(4), f.receiptRepo.events[0].Quantity)
	assert.Equal(t, order.ID, f.receiptRepo.events[0].OrderID)
}

func TestReceive_ConRepartosExplicitos(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	lineID := order.Lines[0].ID
	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	require.NoError(t, err)

	splits := map[string][]entity.BinSplit{
		lineID: {{Bin: "Estante-1", Quantity: 7}, {Bin: "Estante-2", Quantity: 3}},
	}
	_, err = f.uc.Receive(context.Background(), adminCtx, order.ID, splits)
	require.NoError(t, err)

	require.Len(t, f.receiptRepo.events, 1)
	assert.Len(t, f.receiptRepo.events[0].Splits, 2)
}

func TestReceive_RepartoQueNoCuadra_Validacion(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	lineID := order.Lines[0].ID
	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	require.NoError(t, err)

	splits := map[string][]entity.BinSplit{
		lineID: {{Bin: "Estante-1", Quantity: 7}}, // 7 != 10 enviado
	}
	_, err = f.uc.Receive(context.Background(), adminCtx, order.ID, splits)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.receiptRepo.events, "nada se persiste si la validación falla")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel (Escenario D incluido)
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenarioD_CancelarParcialYOperarDespues(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, false,
		[]orders.ShipmentInput{{LineID: order.Lines[0].ID, Shipped: 4}})
	require.NoError(t, err)

	cancelled, err := f.uc.Cancel(context.Background(), adminCtx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)

	_, err = f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Receive(context.Background(), adminCtx, order.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_PedidoEnviadoNoSeCancela(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)
	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), adminCtx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Receive(context.Background(), adminCtx, order.ID, nil)
	require.NoError(t, err)
	_, err = f.uc.Cancel(context.Background(), adminCtx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia optimista
// ──────────────────────────────────────────────────────────────────────────────

func TestConcurrencia_ReintentaUnaVezTrasConflicto(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)

	// El primer update pierde la carrera; el reintento con estado recargado gana.
	f.orderRepo.conflictsLeft = 1
	shipped, err := f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, shipped.Status)
}

func TestConcurrencia_SegundoConflictoSeDevuelve(t *testing.T) {
	f := newFixture()
	order := f.createOrder(t)

	f.orderRepo.conflictsLeft = 2
	_, err := f.uc.Ship(context.Background(), adminCtx, order.ID, true, nil)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict,
		"tras el reintento el conflicto llega al caller")
}
