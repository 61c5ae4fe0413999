// Package stock implementa el libro de stock: la proyección pura que reduce los eventos
// de entrada y baja de una sede a posiciones actuales por artículo y estantería.
// Es la única implementación autoritativa del cálculo; todas las pantallas y casos de uso
// dependen de Compute en lugar de reimplementar la agregación.
package stock

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// BinQuantity cantidad actual en una estantería.
type BinQuantity struct {
	Bin      string
	Quantity int64
}

// Position posición de stock derivada para un (sede, artículo): total y desglose por
// estantería en orden de primera aparición. Inconsistent lista las estanterías cuya
// cantidad quedó negativa: no es un error de ejecución sino una inconsistencia de datos
// observable (baja mayor que lo recibido en esa estantería), que se reporta sin recortar.
type Position struct {
	ArticleID    string
	Total        int64
	Bins         []BinQuantity
	Inconsistent []string
}

// position acumulador interno con índice de estanterías para mantener orden de inserción.
type position struct {
	pos      *Position
	binIndex map[string]int
}

func (p *position) add(bin string, qty int64) {
	i, ok := p.binIndex[bin]
	if !ok {
		i = len(p.pos.Bins)
		p.binIndex[bin] = i
		p.pos.Bins = append(p.pos.Bins, BinQuantity{Bin: bin})
	}
	p.pos.Bins[i].Quantity += qty
}

// Compute reduce eventos de entrada y baja a posiciones por artículo. Operación pura:
// suma las entradas (total y por reparto) y resta las bajas no canceladas. El resultado
// no depende del orden de los eventos (suma entera conmutativa); no se asume orden causal
// más allá de marcar como inconsistente toda estantería que termine en negativo.
func Compute(receipts []*entity.ReceiptEvent, writeoffs []*entity.WriteOffEvent) map[string]*Position {
	acc := make(map[string]*position)

	get := func(articleID string) *position {
		p, ok := acc[articleID]
		if !ok {
			p = &position{
				pos:      &Position{ArticleID: articleID},
				binIndex: make(map[string]int),
			}
			acc[articleID] = p
		}
		return p
	}

	for _, r := range receipts {
		p := get(r.ArticleID)
		p.pos.Total += r.Quantity
		for _, s := range r.Splits {
			p.add(s.Bin, s.Quantity)
		}
	}
	for _, w := range writeoffs {
		if w.Cancelled {
			continue
		}
		p := get(w.ArticleID)
		p.pos.Total -= w.Quantity
		p.add(w.Bin, -w.Quantity)
	}

	out := make(map[string]*Position, len(acc))
	for id, p := range acc {
		for _, b := range p.pos.Bins {
			if b.Quantity < 0 {
				p.pos.Inconsistent = append(p.pos.Inconsistent, b.Bin)
			}
		}
		out[id] = p.pos
	}
	return out
}

// FilterByCategory devuelve las posiciones cuyos artículos pertenecen a la categoría dada.
// Es un filtro de presentación sobre el mismo mapa calculado, no otro algoritmo.
func FilterByCategory(positions map[string]*Position, articles map[string]*entity.Article, category string) map[string]*Position {
	out := make(map[string]*Position)
	for id, p := range positions {
		a, ok := articles[id]
		if ok && a.Category == category {
			out[id] = p
		}
	}
	return out
}
