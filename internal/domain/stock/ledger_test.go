package stock_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func receipt(articleID string, qty int64, splits ...entity.BinSplit) *entity.ReceiptEvent {
	if len(splits) == 0 {
		splits = []entity.BinSplit{{Bin: entity.DefaultBin, Quantity: qty}}
	}
	return &entity.ReceiptEvent{
		LocationID: "sede-1",
		ArticleID:  articleID,
		Quantity:   qty,
		Splits:     splits,
	}
}

func writeoff(articleID string, qty int64, bin string) *entity.WriteOffEvent {
	return &entity.WriteOffEvent{
		LocationID: "sede-1",
		ArticleID:  articleID,
		Quantity:   qty,
		Bin:        bin,
		Reference:  "consumo",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación: total = suma de entradas - suma de bajas no canceladas
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_Conservacion(t *testing.T) {
	receipts := []*entity.ReceiptEvent{
		receipt("A1", 10, entity.BinSplit{Bin: "Estante-1", Quantity: 6}, entity.BinSplit{Bin: "Estante-2", Quantity: 4}),
		receipt("A1", 5, entity.BinSplit{Bin: "Estante-1", Quantity: 5}),
		receipt("A2", 7),
	}
	writeoffs := []*entity.WriteOffEvent{
		writeoff("A1", 3, "Estante-1"),
		writeoff("A2", 2, entity.DefaultBin),
	}

	positions := stock.Compute(receipts, writeoffs)

	require.Len(t, positions, 2)
	assert.Equal(t, int64(12), positions["A1"].Total, "A1: 10+5-3")
	assert.Equal(t, int64(5), positions["A2"].Total, "A2: 7-2")

	require.Len(t, positions["A1"].Bins, 2)
	assert.Equal(t, stock.BinQuantity{Bin: "Estante-1", Quantity: 8}, positions["A1"].Bins[0])
	assert.Equal(t, stock.BinQuantity{Bin: "Estante-2", Quantity: 4}, positions["A1"].Bins[1])
	assert.Empty(t, positions["A1"].Inconsistent)
}

// El resultado no debe depender del orden de llegada de los eventos.
func TestCompute_IndependienteDelOrden(t *testing.T) {
	receipts := []*entity.ReceiptEvent{
		receipt("A1", 10, entity.BinSplit{Bin: "Estante-1", Quantity: 10}),
		receipt("A1", 4, entity.BinSplit{Bin: "Estante-2", Quantity: 4}),
		receipt("A2", 9),
	}
	writeoffs := []*entity.WriteOffEvent{
		writeoff("A1", 3, "Estante-1"),
		writeoff("A1", 2, "Estante-2"),
		writeoff("A2", 9, entity.DefaultBin),
	}

	base := stock.Compute(receipts, writeoffs)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		rs := make([]*entity.ReceiptEvent, len(receipts))
		copy(rs, receipts)
		ws := make([]*entity.WriteOffEvent, len(writeoffs))
		copy(ws, writeoffs)
		rng.Shuffle(len(rs), func(a, b int) { rs[a], rs[b] = rs[b], rs[a] })
		rng.Shuffle(len(ws), func(a, b int) { ws[a], ws[b] = ws[b], ws[a] })

		got := stock.Compute(rs, ws)
		require.Len(t, got, len(base))
		for id, want := range base {
			assert.Equal(t, want.Total, got[id].Total, "total de %s en permutación %d", id, i)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Inconsistencias: baja mayor que lo recibido en una estantería (Escenario C)
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_EstanteriaNegativa_SeMarcaInconsistente(t *testing.T) {
	// Estante-1 solo recibió 2 unidades, pero se dan de baja 3 desde ahí.
	receipts := []*entity.ReceiptEvent{
		receipt("A1", 10,
			entity.BinSplit{Bin: "Estante-1", Quantity: 2},
			entity.BinSplit{Bin: "Estante-2", Quantity: 8}),
	}
	writeoffs := []*entity.WriteOffEvent{writeoff("A1", 3, "Estante-1")}

	positions := stock.Compute(receipts, writeoffs)

	p := positions["A1"]
	require.NotNil(t, p)
	// El total sí baja en 3; no se recorta nada.
	assert.Equal(t, int64(7), p.Total)
	assert.Equal(t, int64(-1), p.Bins[0].Quantity, "Estante-1 queda en -1")
	assert.Equal(t, []string{"Estante-1"}, p.Inconsistent,
		"la estantería negativa debe marcarse, no fallar la lectura")
}

// Una baja sobre una estantería que nunca recibió nada también se refleja y se marca.
func TestCompute_BajaSinEntradaPrevia(t *testing.T) {
	writeoffs := []*entity.WriteOffEvent{writeoff("A9", 4, "Fantasma")}

	positions := stock.Compute(nil, writeoffs)

	p := positions["A9"]
	require.NotNil(t, p)
	assert.Equal(t, int64(-4), p.Total)
	assert.Equal(t, []string{"Fantasma"}, p.Inconsistent)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bajas canceladas
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_BajaCancelada_SeExcluye(t *testing.T) {
	receipts := []*entity.ReceiptEvent{receipt("A1", 10)}
	cancelled := writeoff("A1", 6, entity.DefaultBin)
	cancelled.Cancelled = true
	writeoffs := []*entity.WriteOffEvent{
		cancelled,
		writeoff("A1", 2, entity.DefaultBin),
	}

	positions := stock.Compute(receipts, writeoffs)

	assert.Equal(t, int64(8), positions["A1"].Total,
		"la baja cancelada no debe restar: 10-2")
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtro por categoría (vista de presentación)
// ──────────────────────────────────────────────────────────────────────────────

func TestFilterByCategory(t *testing.T) {
	positions := stock.Compute([]*entity.ReceiptEvent{
		receipt("A1", 5),
		receipt("A2", 3),
	}, nil)
	articles := map[string]*entity.Article{
		"A1": {ID: "A1", Category: entity.CategoryConsumable},
		"A2": {ID: "A2", Category: entity.CategoryOfficeSupply},
	}

	consumables := stock.FilterByCategory(positions, articles, entity.CategoryConsumable)

	require.Len(t, consumables, 1)
	assert.Equal(t, int64(5), consumables["A1"].Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Integridad de repartos en ReceiptEvent
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptEvent_Validate_RepartosDebenCuadrar(t *testing.T) {
	e := receipt("A1", 10,
		entity.BinSplit{Bin: "Estante-1", Quantity: 4},
		entity.BinSplit{Bin: "Estante-2", Quantity: 5}) // suma 9 != 10

	err := e.Validate()

	require.Error(t, err, "un reparto que no cuadra debe fallar, nunca truncarse")
	assert.Contains(t, err.Error(), "suman 9")
}

func TestReceiptEvent_Validate_Correcto(t *testing.T) {
	e := receipt("A1", 10,
		entity.BinSplit{Bin: "Estante-1", Quantity: 4},
		entity.BinSplit{Bin: "Estante-2", Quantity: 6})
	assert.NoError(t, e.Validate())
}

func TestReceiptEvent_Validate_CantidadNoPositiva(t *testing.T) {
	e := &entity.ReceiptEvent{LocationID: "sede-1", ArticleID: "A1", Quantity: 0}
	assert.Error(t, e.Validate())
}
